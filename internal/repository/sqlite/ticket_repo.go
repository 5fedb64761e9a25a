package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type TicketRepo struct{ db *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

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

func scanTicket(s scanner, t *models.Ticket) error {
	return s.Scan(
		&t.ID, &t.Title, &t.Description, &t.Severity, &t.Status,
		&t.DepartmentID, &t.DepartmentName, &t.CategoryID, &t.CategoryName,
		&t.CreatedBy, &t.CreatorName, &t.AssigneeID, &t.AssigneeName, &t.AssigneeEmail,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

// List returns one page of tickets matching f and the total match count.
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]models.Ticket, int, error) {
	where, args := buildTicketWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets t `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf(`%s %s ORDER BY t.%s %s, t.id LIMIT ? OFFSET ?`,
		ticketSelect, where, repository.SortColumn(f.Sort), repository.SortOrder(f.Order))
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Limit, f.Offset)...)
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

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.Ticket, error) {
	var t models.Ticket
	if err := scanTicket(r.db.QueryRowContext(ctx, ticketSelect+` WHERE t.id = ?`, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (id, title, description, severity, severity_rank, status, department_id, category_id,
			created_by, assignee_id, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.Title, t.Description, string(t.Severity), t.Severity.Rank(), string(t.Status), t.DepartmentID,
		nullIfEmpty(t.CategoryID), t.CreatedBy, nullIfEmpty(t.AssigneeID), t.CreatedAt, t.UpdatedAt)
	return classify(err)
}

// Update writes every mutable column; created_by and created_at never change.
func (r *TicketRepo) Update(ctx context.Context, t *models.Ticket) error {
	t.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE tickets SET
			title=?, description=?, severity=?, severity_rank=?, status=?, department_id=?, category_id=?,
			assignee_id=?, updated_at=?
		WHERE id=?`,
		t.Title, t.Description, string(t.Severity), t.Severity.Rank(), string(t.Status), t.DepartmentID,
		nullIfEmpty(t.CategoryID), nullIfEmpty(t.AssigneeID), t.UpdatedAt, t.ID)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

func (r *TicketRepo) AddRemark(ctx context.Context, rm *models.Remark) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	rm.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO remarks (id, ticket_id, author_id, content, is_internal, created_at)
		VALUES (?,?,?,?,?,?)`,
		rm.ID, rm.TicketID, rm.AuthorID, rm.Content, rm.IsInternal, rm.CreatedAt)
	return classify(err)
}

func (r *TicketRepo) ListRemarks(ctx context.Context, ticketID string, includeInternal bool) ([]models.Remark, error) {
	q := `
		SELECT r.id, r.ticket_id, r.author_id, COALESCE(u.name, ''), r.content, r.is_internal, r.created_at
		FROM remarks r
		LEFT JOIN users u ON u.id = r.author_id
		WHERE r.ticket_id = ?`
	if !includeInternal {
		q += ` AND r.is_internal = 0`
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY r.created_at ASC, r.id`, ticketID)
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

// CountBy groups tickets created since the given time by dim.
func (r *TicketRepo) CountBy(ctx context.Context, dim repository.ReportDimension, since time.Time) ([]models.ReportRow, error) {
	label, joins, ok := repository.ReportSQL(dim)
	if !ok {
		return nil, fmt.Errorf("unknown report dimension %q", dim)
	}
	q := fmt.Sprintf(`SELECT %s, COUNT(*) FROM tickets t %s WHERE t.created_at >= ? GROUP BY 1 ORDER BY 2 DESC, 1`, label, joins)
	rows, err := r.db.QueryContext(ctx, q, since.UTC())
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

func (r *TicketRepo) Summary(ctx context.Context, resolvedSince time.Time) (models.Summary, error) {
	var s models.Summary
	closed := models.ClosedStatuses()
	in := strings.TrimSuffix(strings.Repeat("?,", len(closed)), ",")
	args := make([]any, 0, 3*len(closed)+1)
	add := func(extra ...any) {
		for _, st := range closed {
			args = append(args, st)
		}
		args = append(args, extra...)
	}
	add()
	add(resolvedSince.UTC())
	add()
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status NOT IN (`+in+`) THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status IN (`+in+`) AND updated_at >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status NOT IN (`+in+`) AND severity IN ('High','Critical') THEN 1 ELSE 0 END), 0)
		FROM tickets`, args...).Scan(&s.Open, &s.Resolved7d, &s.HighCriticalOpen)
	return s, err
}

func buildTicketWhere(f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(t.title LIKE ? OR t.description LIKE ?)")
	}
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
			clauses = append(clauses, e.col+" = ?")
		}
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
