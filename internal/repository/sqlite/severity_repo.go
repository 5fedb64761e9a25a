package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"helpdesk/internal/models"
)

type SeverityRepo struct{ db *sql.DB }

func NewSeverityRepo(db *sql.DB) *SeverityRepo { return &SeverityRepo{db: db} }

const severitySelect = `SELECT id, name, description, color, level, created_at FROM severity_levels`

func scanSeverity(s scanner, l *models.SeverityLevel) error {
	return s.Scan(&l.ID, &l.Name, &l.Description, &l.Color, &l.Level, &l.CreatedAt)
}

func (r *SeverityRepo) List(ctx context.Context) ([]models.SeverityLevel, error) {
	rows, err := r.db.QueryContext(ctx, severitySelect+` ORDER BY level, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.SeverityLevel{}
	for rows.Next() {
		var l models.SeverityLevel
		if err := scanSeverity(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SeverityRepo) Get(ctx context.Context, id string) (*models.SeverityLevel, error) {
	var l models.SeverityLevel
	if err := scanSeverity(r.db.QueryRowContext(ctx, severitySelect+` WHERE id = ?`, id), &l); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *SeverityRepo) Create(ctx context.Context, l *models.SeverityLevel) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO severity_levels (id, name, description, color, level, created_at) VALUES (?,?,?,?,?,?)`,
		l.ID, l.Name, l.Description, l.Color, l.Level, l.CreatedAt)
	return classify(err)
}

func (r *SeverityRepo) Update(ctx context.Context, l *models.SeverityLevel) error {
	res, err := r.db.ExecContext(ctx, `UPDATE severity_levels SET name=?, description=?, color=?, level=? WHERE id=?`,
		l.Name, l.Description, l.Color, l.Level, l.ID)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

func (r *SeverityRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM severity_levels WHERE id=?`, id)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
