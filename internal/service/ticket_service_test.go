package service

import (
	"context"
	"errors"
	"testing"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestTicketList_ScopedToCreator(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewTicketService(s)
	dept := testutil.SeedDepartment(t, s, "IT")
	a := testutil.SeedUser(t, s, "a", auth.RoleUser)
	b := testutil.SeedUser(t, s, "b", auth.RoleUser)
	for i := 0; i < 3; i++ {
		testutil.SeedTicket(t, s, a, dept, "a ticket")
	}
	testutil.SeedTicket(t, s, b, dept, "b ticket")

	items, total, err := svc.List(ctx, testutil.Session(a), TicketQuery{Limit: 2})
	if err != nil || total != 3 || len(items) != 2 {
		t.Fatalf("a: %v total=%d len=%d", err, total, len(items))
	}
	for _, it := range items {
		if it.CreatedBy != a.ID {
			t.Fatalf("a sees foreign ticket %+v", it)
		}
	}

	for _, r := range []auth.Role{auth.RoleAdmin, auth.RoleSupervisor, auth.RoleSupport} {
		staff := testutil.SeedUser(t, s, "staff-"+string(r), r)
		_, total, err := svc.List(ctx, testutil.Session(staff), TicketQuery{})
		if err != nil || total != 4 {
			t.Fatalf("%s: %v total=%d", r, err, total)
		}
	}

	if _, _, err := svc.List(ctx, testutil.Session(a), TicketQuery{Status: "done"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad status: %v", err)
	}
}

func TestTicketListByUser(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewTicketService(s)
	dept := testutil.SeedDepartment(t, s, "IT")
	a := testutil.SeedUser(t, s, "a", auth.RoleUser)
	b := testutil.SeedUser(t, s, "b", auth.RoleUser)
	sup := testutil.SeedUser(t, s, "sup", auth.RoleSupport)
	testutil.SeedTicket(t, s, a, dept, "mine")

	if _, total, err := svc.ListByUser(ctx, testutil.Session(a), a.ID, TicketQuery{}); err != nil || total != 1 {
		t.Fatalf("own: %v %d", err, total)
	}
	if _, _, err := svc.ListByUser(ctx, testutil.Session(b), a.ID, TicketQuery{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign: %v", err)
	}
	if _, total, err := svc.ListByUser(ctx, testutil.Session(sup), a.ID, TicketQuery{}); err != nil || total != 1 {
		t.Fatalf("staff: %v %d", err, total)
	}
}

func TestTicketCreate_RoundTrip(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewTicketService(s)
	dept := testutil.SeedDepartment(t, s, "IT")
	u := testutil.SeedUser(t, s, "u", auth.RoleUser)
	agent := testutil.SeedUser(t, s, "agent", auth.RoleSupport)

	created, err := svc.Create(ctx, testutil.Session(u), CreateTicketInput{
		Title: "  Printer jam ", Description: "tray 2", Severity: "high", DepartmentID: dept.ID, AssigneeID: agent.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.Get(ctx, testutil.Session(u), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Printer jam" || got.Description != "tray 2" || got.Severity != models.SeverityHigh ||
		got.Status != models.StatusNew || got.DepartmentID != dept.ID || got.DepartmentName != "IT" || got.CreatedBy != u.ID {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.AssigneeID != "" {
		t.Fatalf("non-staff assignee accepted: %+v", got)
	}

	staffTicket, err := svc.Create(ctx, testutil.Session(agent), CreateTicketInput{
		Title: "Server down", Severity: "Critical", DepartmentID: dept.ID, AssigneeID: agent.ID,
	})
	if err != nil || staffTicket.AssigneeID != agent.ID || staffTicket.AssigneeName != "agent" {
		t.Fatalf("staff assign: %+v %v", staffTicket, err)
	}
	if _, err := svc.Create(ctx, testutil.Session(agent), CreateTicketInput{
		Title: "x", Severity: "Low", DepartmentID: dept.ID, AssigneeID: u.ID,
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("non-staff assignee: %v", err)
	}

	bad := []CreateTicketInput{
		{Severity: "Low", DepartmentID: dept.ID},
		{Title: "x", Severity: "urgent", DepartmentID: dept.ID},
		{Title: "x", Severity: "Low"},
		{Title: "x", Severity: "Low", DepartmentID: "missing"},
		{Title: "x", Severity: "Low", DepartmentID: dept.ID, CategoryID: "missing"},
	}
	for _, in := range bad {
		if _, err := svc.Create(ctx, testutil.Session(u), in); !errors.Is(err, ErrValidation) {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}
}

func TestTicketGet_Visibility(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewTicketService(s)
	dept := testutil.SeedDepartment(t, s, "IT")
	a := testutil.SeedUser(t, s, "a", auth.RoleUser)
	b := testutil.SeedUser(t, s, "b", auth.RoleUser)
	tk := testutil.SeedTicket(t, s, a, dept, "t")

	if _, err := svc.Get(ctx, testutil.Session(b), tk.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign get: %v", err)
	}
	if _, err := svc.Get(ctx, testutil.Session(a), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing get: %v", err)
	}
}

func TestTicketUpdate_Authorization(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewTicketService(s)
	dept := testutil.SeedDepartment(t, s, "IT")
	a := testutil.SeedUser(t, s, "a", auth.RoleUser)
	b := testutil.SeedUser(t, s, "b", auth.RoleUser)
	supervisor := testutil.SeedUser(t, s, "super", auth.RoleSupervisor)
	agent := testutil.SeedUser(t, s, "agent", auth.RoleSupport)
	tk := testutil.SeedTicket(t, s, a, dept, "original")

	for _, caller := range []*models.User{b, supervisor} {
		_, err := svc.Update(ctx, testutil.Session(caller), tk.ID, UpdateTicketInput{Title: ptr("hijacked")})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("%s update: %v", caller.Username, err)
		}
	}
	after, _ := s.Tickets.Get(ctx, tk.ID)
	if after.Title != "original" || !after.UpdatedAt.Equal(tk.UpdatedAt) {
		t.Fatalf("forbidden update wrote: %+v", after)
	}

	got, err := svc.Update(ctx, testutil.Session(a), tk.ID, UpdateTicketInput{Title: ptr("edited"), Status: ptr("on hold")})
	if err != nil || got.Title != "edited" || got.Status != models.StatusOnHold || got.CreatedBy != a.ID {
		t.Fatalf("creator update: %+v %v", got, err)
	}
	if _, err := svc.Update(ctx, testutil.Session(a), tk.ID, UpdateTicketInput{AssigneeID: ptr(agent.ID)}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("creator assign: %v", err)
	}

	// any status may follow any other
	for _, st := range []string{"Closed", "New", "Resolved", "InProgress"} {
		got, err = svc.Update(ctx, testutil.Session(agent), tk.ID, UpdateTicketInput{Status: ptr(st), AssigneeID: ptr(agent.ID)})
		if err != nil || string(got.Status) != st || got.AssigneeID != agent.ID {
			t.Fatalf("staff set %s: %+v %v", st, got, err)
		}
	}
	if _, err := svc.Update(ctx, testutil.Session(agent), tk.ID, UpdateTicketInput{Status: ptr("Reopened")}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status: %v", err)
	}
	if _, err := svc.Update(ctx, testutil.Session(agent), "missing", UpdateTicketInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestRemarks_InternalFlag(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	svc := NewTicketService(s)
	dept := testutil.SeedDepartment(t, s, "IT")
	u := testutil.SeedUser(t, s, "u", auth.RoleUser)
	agent := testutil.SeedUser(t, s, "agent", auth.RoleSupport)
	supervisor := testutil.SeedUser(t, s, "super", auth.RoleSupervisor)
	tk := testutil.SeedTicket(t, s, u, dept, "t")

	rm, err := svc.AddRemark(ctx, testutil.Session(u), tk.ID, AddRemarkInput{Content: "let me see notes", IsInternal: true})
	if err != nil || rm.IsInternal {
		t.Fatalf("user remark: %+v %v", rm, err)
	}
	if _, err := svc.AddRemark(ctx, testutil.Session(agent), tk.ID, AddRemarkInput{Content: "staff only", IsInternal: true}); err != nil {
		t.Fatalf("agent remark: %v", err)
	}
	rm, err = svc.AddRemark(ctx, testutil.Session(supervisor), tk.ID, AddRemarkInput{Content: "observer", IsInternal: true})
	if err != nil || rm.IsInternal {
		t.Fatalf("supervisor remark: %+v %v", rm, err)
	}
	if _, err := svc.AddRemark(ctx, testutil.Session(u), tk.ID, AddRemarkInput{Content: "  "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty remark: %v", err)
	}

	own, err := svc.ListRemarks(ctx, testutil.Session(u), tk.ID)
	if err != nil || len(own) != 2 {
		t.Fatalf("user remarks: %v %+v", err, own)
	}
	for _, r := range own {
		if r.IsInternal {
			t.Fatalf("internal remark leaked: %+v", r)
		}
	}
	all, err := svc.ListRemarks(ctx, testutil.Session(supervisor), tk.ID)
	if err != nil || len(all) != 3 {
		t.Fatalf("staff remarks: %v %+v", err, all)
	}

	other := testutil.SeedUser(t, s, "other", auth.RoleUser)
	if _, err := svc.AddRemark(ctx, testutil.Session(other), tk.ID, AddRemarkInput{Content: "hi"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign remark: %v", err)
	}
}

// Admin creates IT, a user files a ticket there, another user cannot see it,
// support staff can.
func TestScenario_DepartmentTicketVisibility(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, s, "admin", auth.RoleAdmin)
	a := testutil.SeedUser(t, s, "usera", auth.RoleUser)
	b := testutil.SeedUser(t, s, "userb", auth.RoleUser)
	support := testutil.SeedUser(t, s, "support", auth.RoleSupport)

	it, err := NewLookupService(s.Departments, "department").Create(ctx, testutil.Session(admin), LookupInput{Name: "IT"})
	if err != nil {
		t.Fatalf("create department: %v", err)
	}
	tickets := NewTicketService(s)
	tk, err := tickets.Create(ctx, testutil.Session(a), CreateTicketInput{Title: "VPN", Severity: "Medium", DepartmentID: it.ID})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}

	seen, _, err := tickets.List(ctx, testutil.Session(b), TicketQuery{})
	if err != nil || len(seen) != 0 {
		t.Fatalf("user b sees %+v (%v)", seen, err)
	}
	seen, _, err = tickets.List(ctx, testutil.Session(support), TicketQuery{})
	if err != nil || len(seen) != 1 || seen[0].ID != tk.ID {
		t.Fatalf("support sees %+v (%v)", seen, err)
	}
}
