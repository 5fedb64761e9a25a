// Package sqlite implements the repositories on database/sql and
// github.com/mattn/go-sqlite3. It backs local development and the tests.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"helpdesk/internal/repository"
)

func classify(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", repository.ErrReferenced, err)
		}
	}
	return err
}

// NewStore wires every repository to db.
func NewStore(db *sql.DB) repository.Store {
	return repository.Store{
		Tickets:     NewTicketRepo(db),
		Users:       NewUserRepo(db),
		Departments: NewLookupRepo(db, "departments"),
		Categories:  NewLookupRepo(db, "categories"),
		Severities:  NewSeverityRepo(db),
	}
}

type scanner interface{ Scan(dest ...any) error }

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func now() time.Time { return time.Now().UTC() }

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
