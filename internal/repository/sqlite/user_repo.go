package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userSelect = `
	SELECT u.id, u.username, u.email, u.name, u.role, COALESCE(u.department_id, ''), COALESCE(d.name, ''),
		u.active, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN departments d ON d.id = u.department_id`

func scanUser(s scanner, u *models.User, extra ...any) error {
	dest := []any{&u.ID, &u.Username, &u.Email, &u.Name, &u.Role, &u.DepartmentID, &u.DepartmentName,
		&u.Active, &u.CreatedAt, &u.UpdatedAt}
	return s.Scan(append(dest, extra...)...)
}

func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, name, role, department_id, password_h, active, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.Name, string(u.Role), nullIfEmpty(u.DepartmentID), passwordHash, u.Active,
		u.CreatedAt, u.UpdatedAt)
	return classify(err)
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*models.User, string, error) {
	var u models.User
	var ph string
	row := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.name, u.role, COALESCE(u.department_id, ''), COALESCE(d.name, ''),
			u.active, u.created_at, u.updated_at, u.password_h
		FROM users u
		LEFT JOIN departments d ON d.id = u.department_id
		WHERE lower(u.email) = lower(?1) OR lower(u.username) = lower(?1)
		ORDER BY (lower(u.email) = lower(?1)) DESC
		LIMIT 1`, strings.TrimSpace(login))
	if err := scanUser(row, &u, &ph); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = ?`, id), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) PasswordHash(ctx context.Context, id string) (string, error) {
	var ph string
	err := r.db.QueryRowContext(ctx, `SELECT password_h FROM users WHERE id = ?`, id).Scan(&ph)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	return ph, err
}

func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]models.User, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if s := strings.TrimSpace(f.Q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p, p)
		clauses = append(clauses, "(u.email LIKE ? OR u.name LIKE ? OR u.username LIKE ?)")
	}
	if s := strings.TrimSpace(f.Role); s != "" {
		args = append(args, s)
		clauses = append(clauses, "u.role = ?")
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		clauses = append(clauses, "u.active = ?")
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, userSelect+where+` ORDER BY u.created_at DESC, u.id LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...)
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
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username=?, email=?, name=?, role=?, department_id=?, active=?, updated_at=?
		WHERE id=?`,
		u.Username, u.Email, u.Name, string(u.Role), nullIfEmpty(u.DepartmentID), u.Active, u.UpdatedAt, u.ID)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_h=?, updated_at=? WHERE id=?`, passwordHash, now(), id)
	if err != nil {
		return err
	}
	return affected(res)
}
