package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type TicketRepo struct{ db *pgxpool.Pool }

func NewTicketRepo(db *pgxpool.Pool) *TicketRepo { return &TicketRepo{db: db} }

const ticketSelect = `
	SELECT
		t.id, t.title, t.description, t.severity, t.status,
		t.department_id, COALESCE(d.name, ''), COALESCE(t.category_id, ''), COALESCE(c.name, ''),
		t.created_by, COALESCE(cu.name, ''), COALESCE(t.assignee_id, ''), COALESCE(au.name, ''), COALESCE(au.email, ''),
		t.created_at, t.updated_at
	FROM tickets t
	LEFT JOIN departments d ON d.id = t.department_id
	LEFT JOIN categories c ON c.id = t.category_id
	LEFT JOIN users cu ON cu.id = t.created_by
	LEFT JOIN users au ON au.id = t.assignee_id`

func scanTicket(row pgx.Row, t *models.Ticket) error {
	return row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Severity, &t.Status,
		&t.DepartmentID, &t.DepartmentName, &t.CategoryID, &t.CategoryName,
		&t.CreatedBy, &t.CreatorName, &t.AssigneeID, &t.AssigneeName, &t.AssigneeEmail,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

// -----------------------------------------------------------------------------
// Listing with filters + pagination + sort
// -----------------------------------------------------------------------------

// List returns a page of tickets filtered by f and the total count for the
// same filter set. Scoping to one creator happens here, before paging.
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, int, error) {
	whereSQL, args := buildTicketWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sql := fmt.Sprintf(`%s
		%s
		ORDER BY t.%s %s, t.id
		LIMIT $%d OFFSET $%d`,
		ticketSelect, whereSQL, repository.SortColumn(f.Sort), repository.SortOrder(f.Order), len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// -----------------------------------------------------------------------------
// Single ticket + create/update
// -----------------------------------------------------------------------------
func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	var t models.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id), &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	_, err := r.db.Exec(ctx, `
		INSERT INTO tickets (id, title, description, severity, severity_rank, status, department_id, category_id,
			created_by, assignee_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		t.ID, t.Title, t.Description, string(t.Severity), t.Severity.Rank(), string(t.Status), t.DepartmentID,
		nullIfEmpty(t.CategoryID), t.CreatedBy, nullIfEmpty(t.AssigneeID), t.CreatedAt, t.UpdatedAt,
	)
	return classify(err)
}

func (r *TicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	t.UpdatedAt = now()
	ct, err := r.db.Exec(ctx, `
		UPDATE tickets SET
			title=$1, description=$2, severity=$3, severity_rank=$4, status=$5, department_id=$6, category_id=$7,
			assignee_id=$8, updated_at=$9
		WHERE id=$10
	`,
		t.Title, t.Description, string(t.Severity), t.Severity.Rank(), string(t.Status), t.DepartmentID,
		nullIfEmpty(t.CategoryID), nullIfEmpty(t.AssigneeID), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// -----------------------------------------------------------------------------
// Remarks
// -----------------------------------------------------------------------------
func (r *TicketRepo) AddRemark(ctx context.Context, rm *models.Remark) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	rm.CreatedAt = now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO remarks (id, ticket_id, author_id, content, is_internal, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rm.ID, rm.TicketID, rm.AuthorID, rm.Content, rm.IsInternal, rm.CreatedAt)
	return classify(err)
}

func (r *TicketRepo) ListRemarks(ctx context.Context, ticketID string, includeInternal bool) ([]models.Remark, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.ticket_id, r.author_id, COALESCE(u.name, ''), r.content, r.is_internal, r.created_at
		FROM remarks r
		LEFT JOIN users u ON u.id = r.author_id
		WHERE r.ticket_id = $1 AND ($2 OR NOT r.is_internal)
		ORDER BY r.created_at ASC, r.id
	`, ticketID, includeInternal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Remark{}
	for rows.Next() {
		var rm models.Remark
		if err := rows.Scan(&rm.ID, &rm.TicketID, &rm.AuthorID, &rm.AuthorName, &rm.Content, &rm.IsInternal, &rm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Reporting helpers (used by /api/reports)
// -----------------------------------------------------------------------------

// CountBy groups tickets created since the given time by dim.
func (r *TicketRepo) CountBy(ctx context.Context, dim repository.ReportDimension, since time.Time) ([]models.ReportRow, error) {
	label, joins, ok := repository.ReportSQL(dim)
	if !ok {
		return nil, fmt.Errorf("unknown report dimension %q", dim)
	}
	sql := fmt.Sprintf(`SELECT %s, COUNT(*) FROM tickets t %s WHERE t.created_at >= $1 GROUP BY 1 ORDER BY 2 DESC, 1`, label, joins)
	rows, err := r.db.Query(ctx, sql, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ReportRow{}
	for rows.Next() {
		var row models.ReportRow
		if err := rows.Scan(&row.Name, &row.Value); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Summary counts open tickets, tickets resolved/closed since resolvedSince,
// and open High/Critical tickets in one pass.
func (r *TicketRepo) Summary(ctx context.Context, resolvedSince time.Time) (models.Summary, error) {
	var s models.Summary
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status <> ALL($2)),
			COUNT(*) FILTER (WHERE status = ANY($2) AND updated_at >= $1),
			COUNT(*) FILTER (WHERE status <> ALL($2) AND severity IN ('High','Critical'))
		FROM tickets`, resolvedSince, models.ClosedStatuses()).Scan(&s.Open, &s.Resolved7d, &s.HighCriticalOpen)
	return s, err
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// buildTicketWhere composes WHERE clause and args for the filter set (with aliases).
func buildTicketWhere(f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	// free-text search (ILIKE)
	if s := strings.TrimSpace(f.Q); s != "" {
		args = append(args, "%"+s+"%")
		p := "$" + itoa(len(args))
		clauses = append(clauses, "(t.title ILIKE "+p+" OR t.description ILIKE "+p+")")
	}

	// exact filters
	exact := []struct{ col, val string }{
		{"t.status", f.Status},
		{"t.severity", f.Severity},
		{"t.department_id", f.DepartmentID},
		{"t.category_id", f.CategoryID},
		{"t.assignee_id", f.AssigneeID},
		{"t.created_by", f.CreatedBy},
	}
	for _, e := range exact {
		if v := strings.TrimSpace(e.val); v != "" {
			args = append(args, v)
			clauses = append(clauses, e.col+" = $"+itoa(len(args)))
		}
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}
