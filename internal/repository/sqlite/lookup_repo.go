package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"helpdesk/internal/models"
)

// LookupRepo serves one reference table. table is fixed at construction and
// never comes from a request.
type LookupRepo struct {
	db    *sql.DB
	table string
}

func NewLookupRepo(db *sql.DB, table string) *LookupRepo { return &LookupRepo{db: db, table: table} }

func (r *LookupRepo) List(ctx context.Context) ([]models.Lookup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM `+r.table+` ORDER BY name`)
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
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at FROM `+r.table+` WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err := r.db.ExecContext(ctx, `INSERT INTO `+r.table+` (id, name, description, created_at) VALUES (?,?,?,?)`,
		l.ID, l.Name, l.Description, l.CreatedAt)
	return classify(err)
}

func (r *LookupRepo) Update(ctx context.Context, l *models.Lookup) error {
	res, err := r.db.ExecContext(ctx, `UPDATE `+r.table+` SET name=?, description=? WHERE id=?`, l.Name, l.Description, l.ID)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

func (r *LookupRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id=?`, id)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
