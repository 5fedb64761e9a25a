package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) *UserRepo { return &UserRepo{db: db} }

const userSelect = `
	SELECT u.id, u.username, u.email, u.name, u.role, COALESCE(u.department_id, ''), COALESCE(d.name, ''),
		u.active, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN departments d ON d.id = u.department_id`

func scanUser(row pgx.Row, u *models.User, extra ...any) error {
	dest := []any{&u.ID, &u.Username, &u.Email, &u.Name, &u.Role, &u.DepartmentID, &u.DepartmentName,
		&u.Active, &u.CreatedAt, &u.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

// Create user (stores bcrypt hash in password_h)
func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, name, role, department_id, password_h, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Username, u.Email, u.Name, string(u.Role), nullIfEmpty(u.DepartmentID), passwordHash, u.Active,
		u.CreatedAt, u.UpdatedAt)
	return classify(err)
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*models.User, string, error) {
	var u models.User
	var ph string
	row := r.db.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.name, u.role, COALESCE(u.department_id, ''), COALESCE(d.name, ''),
			u.active, u.created_at, u.updated_at, u.password_h
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE lower(u.email) = lower($1) OR lower(u.username) = lower($1)
		ORDER BY (lower(u.email) = lower($1)) DESC
		LIMIT 1`, strings.TrimSpace(login))
	if err := scanUser(row, &u, &ph); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) PasswordHash(ctx context.Context, id string) (string, error) {
	var ph string
	err := r.db.QueryRow(ctx, `SELECT password_h FROM users WHERE id = $1`, id).Scan(&ph)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return ph, err
}

// List returns a filtered, paginated list of users and total count.
// Filters: q (matches email, name or username, ILIKE), role (exact), active.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Q); s != "" {
		args = append(args, "%"+s+"%")
		p := "$" + itoa(len(args))
		clauses = append(clauses, "(u.email ILIKE "+p+" OR u.name ILIKE "+p+" OR u.username ILIKE "+p+")")
	}
	if s := strings.TrimSpace(f.Role); s != "" {
		args = append(args, s)
		clauses = append(clauses, "u.role = $"+itoa(len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		clauses = append(clauses, "u.active = $"+itoa(len(args)))
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	// Count
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Page
	args = append(args, f.Limit, f.Offset)
	listSQL := fmt.Sprintf(`%s%s ORDER BY u.created_at DESC, u.id LIMIT $%d OFFSET $%d`,
		userSelect, where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = now()
	ct, err := r.db.Exec(ctx, `
		UPDATE users
		SET username=$1, email=$2, name=$3, role=$4, department_id=$5, active=$6, updated_at=$7
		WHERE id=$8`,
		u.Username, u.Email, u.Name, string(u.Role), nullIfEmpty(u.DepartmentID), u.Active, u.UpdatedAt, u.ID)
	if err != nil {
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_h=$1, updated_at=$2
		WHERE id=$3`, passwordHash, now(), id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
