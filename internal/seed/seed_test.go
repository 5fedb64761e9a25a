package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"helpdesk/internal/auth"
	"helpdesk/internal/testutil"
	"helpdesk/internal/utils"
)

func TestRun_Idempotent(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	opts := Options{
		Departments:   []string{"IT", " HR ", "it", ""},
		Categories:    []string{"Hardware"},
		AdminEmail:    "Root@Example.com",
		AdminPassword: "bootstrap1",
	}
	for i := 0; i < 2; i++ {
		if err := Run(ctx, s, opts, zerolog.Nop()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	sev, _ := s.Severities.List(ctx)
	if len(sev) != len(DefaultSeverities) {
		t.Fatalf("severities: %+v", sev)
	}
	depts, _ := s.Departments.List(ctx)
	if len(depts) != 2 {
		t.Fatalf("departments: %+v", depts)
	}
	cats, _ := s.Categories.List(ctx)
	if len(cats) != 1 {
		t.Fatalf("categories: %+v", cats)
	}

	u, hash, err := s.Users.GetByLogin(ctx, "root@example.com")
	if err != nil || u == nil || u.Role != auth.RoleAdmin || !u.Active {
		t.Fatalf("admin: %+v %v", u, err)
	}
	if !utils.CheckPassword(hash, "bootstrap1") {
		t.Fatal("admin password not set")
	}
}

func TestRun_AdminNeedsPassword(t *testing.T) {
	s := testutil.OpenStore(t)
	if err := Run(context.Background(), s, Options{AdminEmail: "a@example.com"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error without admin password")
	}
}
