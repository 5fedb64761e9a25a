package service

import (
	"context"
	"strings"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

type UserService struct {
	users       repository.UserRepository
	departments repository.LookupRepository
}

func NewUserService(s repository.Store) *UserService {
	return &UserService{users: s.Users, departments: s.Departments}
}

type UserQuery struct {
	Q      string
	Role   string
	Active *bool
	Limit  int
	Offset int
}

func (u *UserService) List(ctx context.Context, s auth.Session, q UserQuery) ([]models.User, int, error) {
	if err := canManageUsers(s); err != nil {
		return nil, 0, err
	}
	f := repository.UserFilter{Q: strings.TrimSpace(q.Q), Active: q.Active, Limit: q.Limit, Offset: q.Offset}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if q.Role = strings.TrimSpace(q.Role); q.Role != "" {
		r, ok := auth.ParseRole(q.Role)
		if !ok {
			return nil, 0, invalid("unknown role %q", q.Role)
		}
		f.Role = string(r)
	}
	return u.users.List(ctx, f)
}

// Get returns a user to an admin or to the user themself.
func (u *UserService) Get(ctx context.Context, s auth.Session, id string) (*models.User, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	if id != s.UserID && !s.Can(auth.ManageUsers) {
		return nil, forbidden("cannot view another user")
	}
	return u.load(ctx, id)
}

type CreateUserInput struct {
	Username     string `json:"username" validate:"omitempty,min=3,max=64,excludes=@"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Name         string `json:"name" validate:"required,max=120"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	Role         string `json:"role" validate:"required,role"`
	DepartmentID string `json:"departmentId" validate:"max=64"`
}

func (u *UserService) Create(ctx context.Context, s auth.Session, in CreateUserInput) (*models.User, error) {
	if err := canManageUsers(s); err != nil {
		return nil, err
	}
	trim(&in.Username)
	trim(&in.Email)
	trim(&in.Name)
	trim(&in.Role)
	trim(&in.DepartmentID)
	if err := check(in); err != nil {
		return nil, err
	}
	role, _ := auth.ParseRole(in.Role)
	if in.Username == "" {
		in.Username = in.Email
	}
	if err := requireLookup(ctx, u.departments, in.DepartmentID, "departmentId"); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     in.Username,
		Email:        strings.ToLower(in.Email),
		Name:         in.Name,
		Role:         role,
		DepartmentID: in.DepartmentID,
		Active:       true,
	}
	if err := u.users.Create(ctx, user, hash); err != nil {
		return nil, storeErr(err, "user")
	}
	return u.load(ctx, user.ID)
}

// UpdateUserInput is an admin's partial update; nil fields are left alone.
type UpdateUserInput struct {
	Username     *string `json:"username" validate:"omitempty,min=3,max=64,excludes=@"`
	Email        *string `json:"email" validate:"omitempty,email,max=254"`
	Name         *string `json:"name" validate:"omitempty,max=120"`
	Role         *string `json:"role" validate:"omitempty,role"`
	DepartmentID *string `json:"departmentId" validate:"omitempty,max=64"`
	Active       *bool   `json:"active"`
}

func (u *UserService) Update(ctx context.Context, s auth.Session, id string, in UpdateUserInput) (*models.User, error) {
	if err := canManageUsers(s); err != nil {
		return nil, err
	}
	user, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range []*string{in.Username, in.Email, in.Name, in.Role, in.DepartmentID} {
		trim(p)
	}
	for field, p := range map[string]*string{"username": in.Username, "email": in.Email, "name": in.Name, "role": in.Role} {
		if p != nil && *p == "" {
			return nil, invalid("%s is required", field)
		}
	}
	if err := check(in); err != nil {
		return nil, err
	}
	if id == s.UserID {
		// an admin cannot lock themself out
		if in.Active != nil && !*in.Active {
			return nil, invalid("cannot deactivate your own account")
		}
		if in.Role != nil {
			if r, _ := auth.ParseRole(*in.Role); r != user.Role {
				return nil, invalid("cannot change your own role")
			}
		}
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = strings.ToLower(*in.Email)
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		user.Role, _ = auth.ParseRole(*in.Role)
	}
	if in.DepartmentID != nil && *in.DepartmentID != user.DepartmentID {
		if err := requireLookup(ctx, u.departments, *in.DepartmentID, "departmentId"); err != nil {
			return nil, err
		}
		user.DepartmentID = *in.DepartmentID
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if err := u.users.Update(ctx, user); err != nil {
		return nil, storeErr(err, "user")
	}
	return u.load(ctx, id)
}

// Deactivate is the delete operation: the account stays for ticket history
// but can no longer log in.
func (u *UserService) Deactivate(ctx context.Context, s auth.Session, id string) error {
	if err := canManageUsers(s); err != nil {
		return err
	}
	if id == s.UserID {
		return invalid("cannot deactivate your own account")
	}
	user, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if !user.Active {
		return nil
	}
	user.Active = false
	return storeErr(u.users.Update(ctx, user), "user")
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (u *UserService) ResetPassword(ctx context.Context, s auth.Session, id string, in ResetPasswordInput) error {
	if err := canManageUsers(s); err != nil {
		return err
	}
	if err := check(in); err != nil {
		return err
	}
	if _, err := u.load(ctx, id); err != nil {
		return err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}
	return storeErr(u.users.UpdatePasswordHash(ctx, id, hash), "user")
}

// ProfileInput is the caller's own edit. Changing the password requires the
// current one.
type ProfileInput struct {
	Name            *string `json:"name" validate:"omitempty,max=120"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	DepartmentID    *string `json:"departmentId" validate:"omitempty,max=64"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,min=6,max=72"`
}

func (u *UserService) UpdateProfile(ctx context.Context, s auth.Session, in ProfileInput) (*models.User, error) {
	if !s.Valid() {
		return nil, ErrUnauthenticated
	}
	user, err := u.users.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrUnauthenticated
	}
	trim(in.Name)
	trim(in.Email)
	trim(in.DepartmentID)
	if in.Name != nil && *in.Name == "" {
		return nil, invalid("name is required")
	}
	if in.Email != nil && *in.Email == "" {
		return nil, invalid("email is required")
	}
	if err := check(in); err != nil {
		return nil, err
	}

	if in.NewPassword != "" {
		hash, err := u.users.PasswordHash(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if !utils.CheckPassword(hash, in.CurrentPassword) {
			return nil, invalid("current password is incorrect")
		}
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = strings.ToLower(*in.Email)
	}
	if in.DepartmentID != nil && *in.DepartmentID != user.DepartmentID {
		if err := requireLookup(ctx, u.departments, *in.DepartmentID, "departmentId"); err != nil {
			return nil, err
		}
		user.DepartmentID = *in.DepartmentID
	}
	if err := u.users.Update(ctx, user); err != nil {
		return nil, storeErr(err, "user")
	}
	if in.NewPassword != "" {
		hash, err := utils.HashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		if err := u.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return nil, err
		}
	}
	return u.load(ctx, user.ID)
}

func (u *UserService) load(ctx context.Context, id string) (*models.User, error) {
	user, err := u.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

func canManageUsers(s auth.Session) error {
	if !s.Valid() {
		return ErrUnauthenticated
	}
	if !s.Can(auth.ManageUsers) {
		return forbidden("admin only")
	}
	return nil
}
