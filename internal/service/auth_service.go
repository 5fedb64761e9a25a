package service

import (
	"context"
	"strings"
	"time"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

type AuthService struct {
	users       repository.UserRepository
	departments repository.LookupRepository
	secret      string
	ttl         time.Duration
}

func NewAuthService(users repository.UserRepository, departments repository.LookupRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, departments: departments, secret: secret, ttl: ttl}
}

type RegisterInput struct {
	Username     string `json:"username" validate:"omitempty,min=3,max=64,excludes=@"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Name         string `json:"name" validate:"required,max=120"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	DepartmentID string `json:"departmentId" validate:"max=64"`
}

// Register creates a self-service account. The role is always User whatever
// the payload says.
func (a *AuthService) Register(ctx context.Context, in RegisterInput) (string, *models.User, error) {
	trim(&in.Username)
	trim(&in.Email)
	trim(&in.Name)
	trim(&in.DepartmentID)
	if err := check(in); err != nil {
		return "", nil, err
	}
	if in.Username == "" {
		in.Username = in.Email
	}
	if err := requireLookup(ctx, a.departments, in.DepartmentID, "departmentId"); err != nil {
		return "", nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", nil, err
	}
	u := &models.User{
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		Name:         in.Name,
		Role:         auth.RoleUser,
		DepartmentID: in.DepartmentID,
		Active:       true,
	}
	if err := a.users.Create(ctx, u, hash); err != nil {
		return "", nil, storeErr(err, "account")
	}
	tok, err := a.issue(u)
	if err != nil {
		return "", nil, err
	}
	// reload for the department name
	if full, err := a.users.GetByID(ctx, u.ID); err == nil && full != nil {
		u = full
	}
	return tok, u, nil
}

// Login checks an email-or-username and password. Every failure, including
// an inactive account, is ErrInvalidCredentials.
func (a *AuthService) Login(ctx context.Context, login, password string) (token string, user *models.User, err error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}
	u, hash, err := a.users.GetByLogin(ctx, login)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		utils.BurnPasswordCheck(password)
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(hash, password) || !u.Active {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := a.issue(u)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

// Me loads the caller's profile. A token for a removed or deactivated account
// is treated as unauthenticated.
func (a *AuthService) Me(ctx context.Context, s auth.Session) (*models.User, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	u, err := a.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// TokenTTL is how long issued tokens stay valid.
func (a *AuthService) TokenTTL() time.Duration { return a.ttl }

func (a *AuthService) issue(u *models.User) (string, error) {
	return utils.SignJWT(a.secret, u.ID, u.Role, a.ttl)
}

// requireLookup fails with ErrValidation when id is set but names no row.
func requireLookup(ctx context.Context, repo repository.LookupRepository, id, field string) error {
	if id == "" {
		return nil
	}
	l, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return invalid("%s does not exist", field)
	}
	return nil
}
