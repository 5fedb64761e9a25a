package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"helpdesk/internal/repository"
)

func TestClassify(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"})
	if err := classify(dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("unique violation -> %v", err)
	}
	fk := &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "tickets_department_id_fkey"}
	if err := classify(fk); !errors.Is(err, repository.ErrReferenced) {
		t.Fatalf("fk violation -> %v", err)
	}
	other := errors.New("boom")
	if err := classify(other); err != other {
		t.Fatalf("unrelated error rewritten: %v", err)
	}
	if classify(nil) != nil {
		t.Fatalf("nil error rewritten")
	}
}

func TestBuildTicketWhere(t *testing.T) {
	where, args := buildTicketWhere(repository.TicketFilter{Q: "printer", Status: "New", CreatedBy: "u1"})
	want := "WHERE 1=1 AND (t.title ILIKE $1 OR t.description ILIKE $1) AND t.status = $2 AND t.created_by = $3"
	if where != want {
		t.Fatalf("where =\n%s\nwant\n%s", where, want)
	}
	if len(args) != 3 || args[0] != "%printer%" || args[2] != "u1" {
		t.Fatalf("args = %v", args)
	}
}
