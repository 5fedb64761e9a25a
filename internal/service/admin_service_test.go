package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/testutil"
	"helpdesk/internal/utils"
)

func TestLookupService_AdminOnly(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewLookupService(s.Departments, "department")
	admin := testutil.SeedUser(t, s, "admin", auth.RoleAdmin)
	support := testutil.SeedUser(t, s, "support", auth.RoleSupport)

	if _, err := svc.Create(ctx, testutil.Session(support), LookupInput{Name: "HR"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("support create: %v", err)
	}
	hr, err := svc.Create(ctx, testutil.Session(admin), LookupInput{Name: " HR ", Description: "people"})
	if err != nil || hr.Name != "HR" {
		t.Fatalf("create: %+v %v", hr, err)
	}
	if _, err := svc.Create(ctx, testutil.Session(admin), LookupInput{Name: "HR"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate: %v", err)
	}
	if _, err := svc.Create(ctx, testutil.Session(admin), LookupInput{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty name: %v", err)
	}

	rows, err := svc.List(ctx, testutil.Session(support))
	if err != nil || len(rows) != 1 {
		t.Fatalf("list: %+v %v", rows, err)
	}
	upd, err := svc.Update(ctx, testutil.Session(admin), hr.ID, LookupInput{Name: "People"})
	if err != nil || upd.Name != "People" {
		t.Fatalf("update: %+v %v", upd, err)
	}

	user := testutil.SeedUser(t, s, "u", auth.RoleUser)
	testutil.SeedTicket(t, s, user, hr, "uses HR")
	if err := svc.Delete(ctx, testutil.Session(admin), hr.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("delete in use: %v", err)
	}
	if err := svc.Delete(ctx, testutil.Session(admin), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestSeverityService(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewSeverityService(s.Severities)
	admin := testutil.Session(testutil.SeedUser(t, s, "admin", auth.RoleAdmin))

	lvl, err := svc.Create(ctx, admin, SeverityInput{Name: "Urgent"})
	if err != nil || lvl.Color != "#3B82F6" || lvl.Level != 1 {
		t.Fatalf("defaults: %+v %v", lvl, err)
	}
	if _, err := svc.Create(ctx, admin, SeverityInput{Name: "Bad", Color: "red"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad color: %v", err)
	}
	upd, err := svc.Update(ctx, admin, lvl.ID, SeverityInput{Name: "Urgent", Color: "#FF0000", Level: 5})
	if err != nil || upd.Level != 5 || upd.Color != "#FF0000" {
		t.Fatalf("update: %+v %v", upd, err)
	}
	if err := svc.Delete(ctx, admin, lvl.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, admin, lvl.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
}

func TestUserService_AdminLifecycle(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewUserService(s)
	admin := testutil.SeedUser(t, s, "admin", auth.RoleAdmin)
	plain := testutil.SeedUser(t, s, "plain", auth.RoleUser)
	as := testutil.Session(admin)

	if _, _, err := svc.List(ctx, testutil.Session(plain), UserQuery{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("user list: %v", err)
	}
	created, err := svc.Create(ctx, as, CreateUserInput{Email: "Agent@Example.com", Name: "Agent", Password: "secret1", Role: "support"})
	if err != nil || created.Role != auth.RoleSupport || created.Email != "agent@example.com" || !created.Active {
		t.Fatalf("create: %+v %v", created, err)
	}
	if _, err := svc.Create(ctx, as, CreateUserInput{Email: "x@example.com", Name: "X", Password: "secret1", Role: "root"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad role: %v", err)
	}
	if _, err := svc.Create(ctx, as, CreateUserInput{Username: "plain@example.com", Email: "z@example.com", Name: "Z", Password: "secret1", Role: "User"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("create username with @: %v", err)
	}
	if _, err := svc.Update(ctx, as, created.ID, UpdateUserInput{Username: ptr("admin@example.com")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("update username with @: %v", err)
	}

	users, total, err := svc.List(ctx, as, UserQuery{Role: "support"})
	if err != nil || total != 1 || users[0].ID != created.ID {
		t.Fatalf("list by role: %+v %d %v", users, total, err)
	}

	upd, err := svc.Update(ctx, as, created.ID, UpdateUserInput{Name: ptr("Agent Smith"), Role: ptr("Supervisor")})
	if err != nil || upd.Name != "Agent Smith" || upd.Role != auth.RoleSupervisor {
		t.Fatalf("update: %+v %v", upd, err)
	}
	if _, err := svc.Update(ctx, as, admin.ID, UpdateUserInput{Role: ptr("User")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("self demotion: %v", err)
	}

	if err := svc.Deactivate(ctx, as, created.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, err := svc.Get(ctx, as, created.ID)
	if err != nil || got.Active {
		t.Fatalf("still active: %+v %v", got, err)
	}
	login := NewAuthService(s.Users, s.Departments, testSecret, time.Hour)
	if _, _, err := login.Login(ctx, "agent@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deactivated login: %v", err)
	}
	if err := svc.Deactivate(ctx, as, admin.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("self deactivate: %v", err)
	}

	if _, err := svc.Get(ctx, testutil.Session(plain), plain.ID); err != nil {
		t.Fatalf("self get: %v", err)
	}
	if _, err := svc.Get(ctx, testutil.Session(plain), admin.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign get: %v", err)
	}
}

func TestUserService_Passwords(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewUserService(s)
	admin := testutil.SeedUser(t, s, "admin", auth.RoleAdmin)
	u := testutil.SeedUser(t, s, "u", auth.RoleUser)
	dept := testutil.SeedDepartment(t, s, "IT")

	_, err := svc.UpdateProfile(ctx, testutil.Session(u), ProfileInput{CurrentPassword: "wrong", NewPassword: "changed1"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("wrong current password: %v", err)
	}
	got, err := svc.UpdateProfile(ctx, testutil.Session(u), ProfileInput{
		Name: ptr("Renamed"), DepartmentID: ptr(dept.ID), CurrentPassword: testutil.Password, NewPassword: "changed1",
	})
	if err != nil || got.Name != "Renamed" || got.DepartmentName != "IT" || got.Role != auth.RoleUser {
		t.Fatalf("profile: %+v %v", got, err)
	}
	hash, _ := s.Users.PasswordHash(ctx, u.ID)
	if !utils.CheckPassword(hash, "changed1") {
		t.Fatal("password not changed")
	}

	if err := svc.ResetPassword(ctx, testutil.Session(u), admin.ID, ResetPasswordInput{Password: "hacked1"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("user reset: %v", err)
	}
	if err := svc.ResetPassword(ctx, testutil.Session(admin), u.ID, ResetPasswordInput{Password: "reset12"}); err != nil {
		t.Fatalf("admin reset: %v", err)
	}
	hash, _ = s.Users.PasswordHash(ctx, u.ID)
	if !utils.CheckPassword(hash, "reset12") {
		t.Fatal("password not reset")
	}
}

func TestReportService(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewReportService(s.Tickets)
	dept := testutil.SeedDepartment(t, s, "IT")
	u := testutil.SeedUser(t, s, "u", auth.RoleUser)
	supervisor := testutil.Session(testutil.SeedUser(t, s, "super", auth.RoleSupervisor))
	testutil.SeedTicket(t, s, u, dept, "one")
	tk := testutil.SeedTicket(t, s, u, dept, "two")
	tk.Status = models.StatusResolved
	tk.Severity = models.SeverityCritical
	if err := s.Tickets.Update(ctx, tk); err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.Report(ctx, testutil.Session(u), ReportQuery{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("user report: %v", err)
	}
	rows, q, err := svc.Report(ctx, supervisor, ReportQuery{})
	if err != nil || q.Type != "status" || q.Range != "month" {
		t.Fatalf("report: %v %+v", err, q)
	}
	want := []models.ReportRow{{Name: "New", Value: 1}, {Name: "InProgress"}, {Name: "OnHold"}, {Name: "Resolved", Value: 1}, {Name: "Closed"}}
	if len(rows) != len(want) {
		t.Fatalf("rows: %+v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}

	rows, _, err = svc.Report(ctx, supervisor, ReportQuery{Type: "department", Range: "week"})
	if err != nil || len(rows) != 1 || rows[0] != (models.ReportRow{Name: "IT", Value: 2}) {
		t.Fatalf("department: %+v %v", rows, err)
	}
	if _, _, err := svc.Report(ctx, supervisor, ReportQuery{Type: "weather"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad type: %v", err)
	}

	// with the clock nine days ahead, today's tickets are older than a week
	svc.now = func() time.Time { return time.Now().AddDate(0, 0, 9) }
	rows, _, err = svc.Report(ctx, supervisor, ReportQuery{Type: "agent", Range: "week"})
	if err != nil || len(rows) != 0 {
		t.Fatalf("window: %+v %v", rows, err)
	}
	svc.now = time.Now

	sum, err := svc.Summary(ctx, supervisor)
	if err != nil || sum != (models.Summary{Open: 1, Resolved7d: 1}) {
		t.Fatalf("summary: %+v %v", sum, err)
	}

	var buf bytes.Buffer
	q, err = svc.ExportCSV(ctx, supervisor, ReportQuery{Type: "severity", Range: "year"}, &buf)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if q.FileName() != "ticket-report-severity-year.csv" {
		t.Fatalf("file name %q", q.FileName())
	}
	if got := buf.String(); got != "name,count\nLow,0\nMedium,1\nHigh,0\nCritical,1\n" {
		t.Fatalf("csv:\n%s", got)
	}
}
