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

// LookupRepo serves one reference table (departments or categories).
type LookupRepo struct {
	db    *pgxpool.Pool
	table string
}

func NewLookupRepo(db *pgxpool.Pool, table string) *LookupRepo { return &LookupRepo{db: db, table: table} }

func (r *LookupRepo) List(ctx context.Context) ([]models.Lookup, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at FROM `+r.table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Lookup{}
	for rows.Next() {
		var l models.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LookupRepo) Get(ctx context.Context, id string) (*models.Lookup, error) {
	var l models.Lookup
	err := r.db.QueryRow(ctx, `SELECT id, name, description, created_at FROM `+r.table+` WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LookupRepo) Create(ctx context.Context, l *models.Lookup) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = now()
	_, err := r.db.Exec(ctx, `INSERT INTO `+r.table+` (id, name, description, created_at) VALUES ($1,$2,$3,$4)`,
		l.ID, l.Name, l.Description, l.CreatedAt)
	return classify(err)
}

func (r *LookupRepo) Update(ctx context.Context, l *models.Lookup) error {
	ct, err := r.db.Exec(ctx, `UPDATE `+r.table+` SET name=$1, description=$2 WHERE id=$3`, l.Name, l.Description, l.ID)
	if err != nil {
		return classify(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LookupRepo) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM `+r.table+` WHERE id=$1`, id)
	if err != nil {
		return false, classify(err)
	}
	return ct.RowsAffected() > 0, nil
}
