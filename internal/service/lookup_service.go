package service

import (
	"context"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
)

// LookupService manages one kind of named reference row. Departments and
// categories each get their own instance.
type LookupService struct {
	repo repository.LookupRepository
	what string
}

func NewLookupService(repo repository.LookupRepository, what string) *LookupService {
	return &LookupService{repo: repo, what: what}
}

type LookupInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (l *LookupService) List(ctx context.Context, s auth.Session) ([]models.Lookup, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	return l.repo.List(ctx)
}

func (l *LookupService) Get(ctx context.Context, s auth.Session, id string) (*models.Lookup, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	row, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound(l.what)
	}
	return row, nil
}

func (l *LookupService) Create(ctx context.Context, s auth.Session, in LookupInput) (*models.Lookup, error) {
	if err := canManage(s); err != nil {
		return nil, err
	}
	trim(&in.Name)
	trim(&in.Description)
	if err := check(in); err != nil {
		return nil, err
	}
	row := &models.Lookup{Name: in.Name, Description: in.Description}
	if err := l.repo.Create(ctx, row); err != nil {
		return nil, storeErr(err, l.what)
	}
	return row, nil
}

func (l *LookupService) Update(ctx context.Context, s auth.Session, id string, in LookupInput) (*models.Lookup, error) {
	if err := canManage(s); err != nil {
		return nil, err
	}
	trim(&in.Name)
	trim(&in.Description)
	if err := check(in); err != nil {
		return nil, err
	}
	row, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound(l.what)
	}
	row.Name, row.Description = in.Name, in.Description
	if err := l.repo.Update(ctx, row); err != nil {
		return nil, storeErr(err, l.what)
	}
	return row, nil
}

// Delete removes an unused row. Rows still referenced by tickets or users
// are refused.
func (l *LookupService) Delete(ctx context.Context, s auth.Session, id string) error {
	if err := canManage(s); err != nil {
		return err
	}
	ok, err := l.repo.Delete(ctx, id)
	if err != nil {
		return storeErr(err, l.what)
	}
	if !ok {
		return notFound(l.what)
	}
	return nil
}

func canManage(s auth.Session) error {
	if !s.Valid() {
		return ErrUnauthenticated
	}
	if !s.Can(auth.ManageReferenceData) {
		return forbidden("admin only")
	}
	return nil
}

type SeverityService struct {
	repo repository.SeverityRepository
}

func NewSeverityService(repo repository.SeverityRepository) *SeverityService {
	return &SeverityService{repo: repo}
}

type SeverityInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Level       int    `json:"value" validate:"gte=1,lte=100"`
}

func (v *SeverityService) List(ctx context.Context, s auth.Session) ([]models.SeverityLevel, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	return v.repo.List(ctx)
}

func (v *SeverityService) Get(ctx context.Context, s auth.Session, id string) (*models.SeverityLevel, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	row, err := v.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("severity level")
	}
	return row, nil
}

func (v *SeverityService) Create(ctx context.Context, s auth.Session, in SeverityInput) (*models.SeverityLevel, error) {
	if err := canManage(s); err != nil {
		return nil, err
	}
	if err := v.normalize(&in); err != nil {
		return nil, err
	}
	row := &models.SeverityLevel{Name: in.Name, Description: in.Description, Color: in.Color, Level: in.Level}
	if err := v.repo.Create(ctx, row); err != nil {
		return nil, storeErr(err, "severity level")
	}
	return row, nil
}

func (v *SeverityService) Update(ctx context.Context, s auth.Session, id string, in SeverityInput) (*models.SeverityLevel, error) {
	if err := canManage(s); err != nil {
		return nil, err
	}
	if err := v.normalize(&in); err != nil {
		return nil, err
	}
	row, err := v.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("severity level")
	}
	row.Name, row.Description, row.Color, row.Level = in.Name, in.Description, in.Color, in.Level
	if err := v.repo.Update(ctx, row); err != nil {
		return nil, storeErr(err, "severity level")
	}
	return row, nil
}

func (v *SeverityService) Delete(ctx context.Context, s auth.Session, id string) error {
	if err := canManage(s); err != nil {
		return err
	}
	ok, err := v.repo.Delete(ctx, id)
	if err != nil {
		return storeErr(err, "severity level")
	}
	if !ok {
		return notFound("severity level")
	}
	return nil
}

const defaultSeverityColor = "#3B82F6"

func (v *SeverityService) normalize(in *SeverityInput) error {
	trim(&in.Name)
	trim(&in.Description)
	trim(&in.Color)
	if in.Color == "" {
		in.Color = defaultSeverityColor
	}
	if in.Level == 0 {
		in.Level = 1
	}
	return check(*in)
}
