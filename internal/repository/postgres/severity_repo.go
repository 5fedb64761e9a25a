package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type SeverityRepo struct{ db *pgxpool.Pool }

func NewSeverityRepo(db *pgxpool.Pool) *SeverityRepo { return &SeverityRepo{db: db} }

const severitySelect = `SELECT id, name, description, color, level, created_at FROM severity_levels`

func scanSeverity(row pgx.Row, l *models.SeverityLevel) error {
	return row.Scan(&l.ID, &l.Name, &l.Description, &l.Color, &l.Level, &l.CreatedAt)
}

func (r *SeverityRepo) List(ctx context.Context) ([]models.SeverityLevel, error) {
	rows, err := r.db.Query(ctx, severitySelect+` ORDER BY level, name`)
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
	if err := scanSeverity(r.db.QueryRow(ctx, severitySelect+` WHERE id = $1`, id), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	_, err := r.db.Exec(ctx, `
		INSERT INTO severity_levels (id, name, description, color, level, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		l.ID, l.Name, l.Description, l.Color, l.Level, l.CreatedAt)
	return classify(err)
}

func (r *SeverityRepo) Update(ctx context.Context, l *models.SeverityLevel) error {
	ct, err := r.db.Exec(ctx, `UPDATE severity_levels SET name=$1, description=$2, color=$3, level=$4 WHERE id=$5`,
		l.Name, l.Description, l.Color, l.Level, l.ID)
	if err != nil {
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SeverityRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM severity_levels WHERE id=$1`, id)
	if err != nil {
		return false, classify(err)
	}
	return ct.RowsAffected() > 0, nil
}
