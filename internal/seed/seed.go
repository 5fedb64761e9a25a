// Package seed fills an empty store with the reference data and the first
// admin account. Every step skips rows that already exist.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"helpdesk/internal/auth"
	"helpdesk/internal/models"
	"helpdesk/internal/repository"
	"helpdesk/internal/utils"
)

// DefaultSeverities mirrors the ticket severity enumeration.
var DefaultSeverities = []models.SeverityLevel{
	{Name: string(models.SeverityLow), Description: "Minor issue, no business impact", Color: "#10B981", Level: 1},
	{Name: string(models.SeverityMedium), Description: "Degraded service with a workaround", Color: "#F59E0B", Level: 2},
	{Name: string(models.SeverityHigh), Description: "Major impact, no workaround", Color: "#EF4444", Level: 3},
	{Name: string(models.SeverityCritical), Description: "Outage affecting many users", Color: "#DC2626", Level: 4},
}

type Options struct {
	Departments   []string
	Categories    []string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func Run(ctx context.Context, store repository.Store, opts Options, log zerolog.Logger) error {
	if err := severities(ctx, store.Severities, log); err != nil {
		return fmt.Errorf("severity levels: %w", err)
	}
	if err := lookups(ctx, store.Departments, opts.Departments, "department", log); err != nil {
		return fmt.Errorf("departments: %w", err)
	}
	if err := lookups(ctx, store.Categories, opts.Categories, "category", log); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	if opts.AdminEmail != "" {
		if err := admin(ctx, store.Users, opts, log); err != nil {
			return fmt.Errorf("admin: %w", err)
		}
	}
	return nil
}

func severities(ctx context.Context, repo repository.SeverityRepository, log zerolog.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, s := range existing {
		have[strings.ToLower(s.Name)] = true
	}
	for _, s := range DefaultSeverities {
		if have[strings.ToLower(s.Name)] {
			continue
		}
		s := s
		if err := repo.Create(ctx, &s); err != nil {
			return err
		}
		log.Info().Str("severity", s.Name).Msg("created")
	}
	return nil
}

func lookups(ctx context.Context, repo repository.LookupRepository, names []string, kind string, log zerolog.Logger) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, l := range existing {
		have[strings.ToLower(l.Name)] = true
	}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || have[strings.ToLower(n)] {
			continue
		}
		if err := repo.Create(ctx, &models.Lookup{Name: n}); err != nil {
			return err
		}
		have[strings.ToLower(n)] = true
		log.Info().Str(kind, n).Msg("created")
	}
	return nil
}

func admin(ctx context.Context, users repository.UserRepository, opts Options, log zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	u, _, err := users.GetByLogin(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		log.Info().Str("email", email).Msg("admin exists, skipped")
		return nil
	}
	if len(opts.AdminPassword) < 6 {
		return errors.New("admin password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(opts.AdminName)
	if name == "" {
		name = "Administrator"
	}
	u = &models.User{Username: email, Email: email, Name: name, Role: auth.RoleAdmin, Active: true}
	if err := users.Create(ctx, u, hash); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("admin created")
	return nil
}
