package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/internal/repository"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrReferenced, pgErr.ConstraintName)
		}
	}
	return err
}

// NewStore wires every repository to the pool.
func NewStore(db *pgxpool.Pool) repository.Store {
	return repository.Store{
		Tickets:     NewTicketRepo(db),
		Users:       NewUserRepo(db),
		Departments: NewLookupRepo(db, "departments"),
		Categories:  NewLookupRepo(db, "categories"),
		Severities:  NewSeverityRepo(db),
	}
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func now() time.Time { return time.Now().UTC() }

func itoa(i int) string { return strconv.Itoa(i) }
