package service

import (
	"context"
	"strings"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

type TicketService struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	departments repository.LookupRepository
	categories  repository.LookupRepository
}

func NewTicketService(s repository.Store) *TicketService {
	return &TicketService{tickets: s.Tickets, users: s.Users, departments: s.Departments, categories: s.Categories}
}

type TicketQuery struct {
	Q            string
	Status       string
	Severity     string
	DepartmentID string
	CategoryID   string
	AssigneeID   string
	Sort         string
	Order        string
	Limit        int
	Offset       int
}

// List returns the tickets visible to s. Callers that cannot see every ticket
// are limited to the ones they created inside the query, so totals and
// paging stay consistent.
func (svc *TicketService) List(ctx context.Context, s auth.Session, q TicketQuery) ([]models.Ticket, int, error) {
	f, err := svc.filter(s, q)
	if err != nil {
		return nil, 0, err
	}
	return svc.tickets.List(ctx, f)
}

// ListByUser lists the tickets created by userID. Only staff may look at
// another user's tickets.
func (svc *TicketService) ListByUser(ctx context.Context, s auth.Session, userID string, q TicketQuery) ([]models.Ticket, int, error) {
	f, err := svc.filter(s, q)
	if err != nil {
		return nil, 0, err
	}
	if userID != s.UserID && !s.Can(auth.ViewAllTickets) {
		return nil, 0, forbidden("cannot list another user's tickets")
	}
	f.CreatedBy = userID
	return svc.tickets.List(ctx, f)
}

func (svc *TicketService) filter(s auth.Session, q TicketQuery) (repository.TicketFilter, error) {
	if !s.Valid() {
		return repository.TicketFilter{}, ErrUnauthenticated
	}
	f := repository.TicketFilter{
		Q:            strings.TrimSpace(q.Q),
		DepartmentID: strings.TrimSpace(q.DepartmentID),
		CategoryID:   strings.TrimSpace(q.CategoryID),
		AssigneeID:   strings.TrimSpace(q.AssigneeID),
		Sort:         strings.ToLower(strings.TrimSpace(q.Sort)),
		Order:        strings.ToLower(strings.TrimSpace(q.Order)),
		Limit:        q.Limit,
		Offset:       q.Offset,
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	if q.Status = strings.TrimSpace(q.Status); q.Status != "" {
		st, ok := models.ParseStatus(q.Status)
		if !ok {
			return f, invalid("unknown status %q", q.Status)
		}
		f.Status = string(st)
	}
	if q.Severity = strings.TrimSpace(q.Severity); q.Severity != "" {
		sv, ok := models.ParseSeverity(q.Severity)
		if !ok {
			return f, invalid("unknown severity %q", q.Severity)
		}
		f.Severity = string(sv)
	}
	if !s.Can(auth.ViewAllTickets) {
		f.CreatedBy = s.UserID
	}
	return f, nil
}

// Get returns one ticket if s may see it.
func (svc *TicketService) Get(ctx context.Context, s auth.Session, id string) (*models.Ticket, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	t, err := svc.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("ticket")
	}
	if !canSee(s, t) {
		return nil, forbidden("ticket belongs to another user")
	}
	return t, nil
}

func canSee(s auth.Session, t *models.Ticket) bool {
	return s.Can(auth.ViewAllTickets) || t.CreatedBy == s.UserID
}

func canEdit(s auth.Session, t *models.Ticket) bool {
	return s.Can(auth.EditAnyTicket) || t.CreatedBy == s.UserID
}

type CreateTicketInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=5000"`
	Severity     string `json:"severity" validate:"required,severity"`
	DepartmentID string `json:"departmentId" validate:"required,max=64"`
	CategoryID   string `json:"categoryId" validate:"max=64"`
	AssigneeID   string `json:"assignedToId" validate:"max=64"`
}

// Create opens a New ticket owned by the caller. Only staff may pick an
// assignee; for anyone else the field is ignored.
func (svc *TicketService) Create(ctx context.Context, s auth.Session, in CreateTicketInput) (*models.Ticket, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	trim(&in.Title)
	trim(&in.Description)
	trim(&in.Severity)
	trim(&in.DepartmentID)
	trim(&in.CategoryID)
	trim(&in.AssigneeID)
	if err := check(in); err != nil {
		return nil, err
	}
	sev, _ := models.ParseSeverity(in.Severity)

	if err := requireLookup(ctx, svc.departments, in.DepartmentID, "departmentId"); err != nil {
		return nil, err
	}
	if err := requireLookup(ctx, svc.categories, in.CategoryID, "categoryId"); err != nil {
		return nil, err
	}
	if !s.Can(auth.EditAnyTicket) {
		in.AssigneeID = ""
	}
	if err := svc.requireAssignee(ctx, in.AssigneeID); err != nil {
		return nil, err
	}

	t := &models.Ticket{
		Title:        in.Title,
		Description:  in.Description,
		Severity:     sev,
		Status:       models.StatusNew,
		DepartmentID: in.DepartmentID,
		CategoryID:   in.CategoryID,
		AssigneeID:   in.AssigneeID,
		CreatedBy:    s.UserID,
	}
	if err := svc.tickets.Create(ctx, t); err != nil {
		return nil, storeErr(err, "ticket")
	}
	return svc.reload(ctx, t)
}

// UpdateTicketInput is a partial update; nil fields are left alone. An empty
// categoryId or assignedToId clears the field.
type UpdateTicketInput struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Severity     *string `json:"severity" validate:"omitempty,severity"`
	Status       *string `json:"status" validate:"omitempty,status"`
	DepartmentID *string `json:"departmentId" validate:"omitempty,max=64"`
	CategoryID   *string `json:"categoryId" validate:"omitempty,max=64"`
	AssigneeID   *string `json:"assignedToId" validate:"omitempty,max=64"`
}

// Update applies in to the ticket. Staff with edit rights and the ticket's
// creator may update; any status may follow any other. The creator never
// changes.
func (svc *TicketService) Update(ctx context.Context, s auth.Session, id string, in UpdateTicketInput) (*models.Ticket, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	t, err := svc.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("ticket")
	}
	if !canEdit(s, t) {
		return nil, forbidden("only staff or the ticket's creator may update it")
	}

	for _, p := range []*string{in.Title, in.Description, in.Severity, in.Status, in.DepartmentID, in.CategoryID, in.AssigneeID} {
		trim(p)
	}
	if in.Title != nil && *in.Title == "" {
		return nil, invalid("title is required")
	}
	if in.DepartmentID != nil && *in.DepartmentID == "" {
		return nil, invalid("departmentId is required")
	}
	if err := check(in); err != nil {
		return nil, err
	}

	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Severity != nil {
		t.Severity, _ = models.ParseSeverity(*in.Severity)
	}
	if in.Status != nil {
		t.Status, _ = models.ParseStatus(*in.Status)
	}
	if in.DepartmentID != nil && *in.DepartmentID != t.DepartmentID {
		if err := requireLookup(ctx, svc.departments, *in.DepartmentID, "departmentId"); err != nil {
			return nil, err
		}
		t.DepartmentID = *in.DepartmentID
	}
	if in.CategoryID != nil && *in.CategoryID != t.CategoryID {
		if err := requireLookup(ctx, svc.categories, *in.CategoryID, "categoryId"); err != nil {
			return nil, err
		}
		t.CategoryID = *in.CategoryID
	}
	if in.AssigneeID != nil && *in.AssigneeID != t.AssigneeID {
		if !s.Can(auth.EditAnyTicket) {
			return nil, forbidden("only staff may assign tickets")
		}
		if err := svc.requireAssignee(ctx, *in.AssigneeID); err != nil {
			return nil, err
		}
		t.AssigneeID = *in.AssigneeID
	}

	if err := svc.tickets.Update(ctx, t); err != nil {
		return nil, storeErr(err, "ticket")
	}
	return svc.reload(ctx, t)
}

// requireAssignee accepts "" (unassigned) or an active staff account.
func (svc *TicketService) requireAssignee(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	u, err := svc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil || !u.Active {
		return invalid("assignedToId does not exist")
	}
	if !u.Role.Can(auth.EditAnyTicket) {
		return invalid("assignedToId must be a support or admin account")
	}
	return nil
}

// reload re-reads t so joined names are populated.
func (svc *TicketService) reload(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	full, err := svc.tickets.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return t, nil
	}
	return full, nil
}

// ListRemarks returns the remarks of a ticket s may see. Internal remarks are
// dropped for callers without ViewInternalRemarks.
func (svc *TicketService) ListRemarks(ctx context.Context, s auth.Session, ticketID string) ([]models.Remark, error) {
	if _, err := svc.Get(ctx, s, ticketID); err != nil {
		return nil, err
	}
	return svc.tickets.ListRemarks(ctx, ticketID, s.Can(auth.ViewInternalRemarks))
}

type AddRemarkInput struct {
	Content    string `json:"content" validate:"required,max=5000"`
	IsInternal bool   `json:"isInternal"`
}

// AddRemark appends a remark. The internal flag is forced off for callers
// that may not write internal remarks, whatever the payload says.
func (svc *TicketService) AddRemark(ctx context.Context, s auth.Session, ticketID string, in AddRemarkInput) (*models.Remark, error) {
	if _, err := svc.Get(ctx, s, ticketID); err != nil {
		return nil, err
	}
	trim(&in.Content)
	if err := check(in); err != nil {
		return nil, err
	}
	rm := &models.Remark{
		TicketID:   ticketID,
		AuthorID:   s.UserID,
		Content:    in.Content,
		IsInternal: in.IsInternal && s.Can(auth.WriteInternalRemarks),
	}
	if err := svc.tickets.AddRemark(ctx, rm); err != nil {
		return nil, storeErr(err, "remark")
	}
	if author, err := svc.users.GetByID(ctx, s.UserID); err == nil && author != nil {
		rm.AuthorName = author.Name
	}
	return rm, nil
}
