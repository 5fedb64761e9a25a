// Package testutil builds in-memory stores and fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"helpdesk/internal/auth"
	"helpdesk/internal/database"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/repository/sqlite"
)

const Password = "password123"

// OpenStore opens a private in-memory SQLite database with the schema applied.
// The database is closed via t.Cleanup.
func OpenStore(t *testing.T) repository.Store {
	t.Helper()
	d, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return sqlite.NewStore(d)
}

// SeedUser inserts an active user whose password is Password. The hash uses
// bcrypt's minimum cost to keep tests fast.
func SeedUser(t *testing.T, s repository.Store, username string, role auth.Role) *models.User {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Role:     role,
		Active:   true,
	}
	if err := s.Users.Create(context.Background(), u, string(h)); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedDepartment(t *testing.T, s repository.Store, name string) *models.Lookup {
	t.Helper()
	d := &models.Lookup{Name: name, Description: name + " department"}
	if err := s.Departments.Create(context.Background(), d); err != nil {
		t.Fatalf("seed department %s: %v", name, err)
	}
	return d
}

// SeedTicket inserts a New ticket owned by creator.
func SeedTicket(t *testing.T, s repository.Store, creator *models.User, dept *models.Lookup, title string) *models.Ticket {
	t.Helper()
	tk := &models.Ticket{
		Title:        title,
		Description:  title + " details",
		Severity:     models.SeverityMedium,
		Status:       models.StatusNew,
		DepartmentID: dept.ID,
		CreatedBy:    creator.ID,
	}
	if err := s.Tickets.Create(context.Background(), tk); err != nil {
		t.Fatalf("seed ticket %s: %v", title, err)
	}
	return tk
}

func Session(u *models.User) auth.Session {
	return auth.Session{UserID: u.ID, Role: u.Role}
}
