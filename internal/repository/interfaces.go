package repository

import (
	"context"
	"errors"
	"time"

	"helpdesk/internal/models"
)

var (
	// ErrNotFound is returned by updates that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column would be repeated.
	ErrDuplicate = errors.New("duplicate value")
	// ErrReferenced is returned when a row is missing a parent or is still in use.
	ErrReferenced = errors.New("referenced row")
)

// Getters return (nil, nil) when the row does not exist.

type TicketRepository interface {
	List(ctx context.Context, f TicketFilter) ([]models.Ticket, int, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) error
	Update(ctx context.Context, t *models.Ticket) error
	AddRemark(ctx context.Context, rm *models.Remark) error
	ListRemarks(ctx context.Context, ticketID string, includeInternal bool) ([]models.Remark, error)
	CountBy(ctx context.Context, dim ReportDimension, since time.Time) ([]models.ReportRow, error)
	Summary(ctx context.Context, resolvedSince time.Time) (models.Summary, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	// GetByLogin matches email or username, case-insensitively.
	GetByLogin(ctx context.Context, login string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	PasswordHash(ctx context.Context, id string) (string, error)
	List(ctx context.Context, f UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, u *models.User) error
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// LookupRepository stores one kind of named reference row (departments or categories).
type LookupRepository interface {
	List(ctx context.Context) ([]models.Lookup, error)
	Get(ctx context.Context, id string) (*models.Lookup, error)
	Create(ctx context.Context, l *models.Lookup) error
	Update(ctx context.Context, l *models.Lookup) error
	Delete(ctx context.Context, id string) (bool, error)
}

type SeverityRepository interface {
	List(ctx context.Context) ([]models.SeverityLevel, error)
	Get(ctx context.Context, id string) (*models.SeverityLevel, error)
	Create(ctx context.Context, s *models.SeverityLevel) error
	Update(ctx context.Context, s *models.SeverityLevel) error
	Delete(ctx context.Context, id string) (bool, error)
}

// Store groups the repositories of one backing database.
type Store struct {
	Tickets     TicketRepository
	Users       UserRepository
	Departments LookupRepository
	Categories  LookupRepository
	Severities  SeverityRepository
}
