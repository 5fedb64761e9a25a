package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/pflag"

	"helpdesk/internal/config"
	"helpdesk/internal/database"
	"helpdesk/internal/seed"
	"helpdesk/pkg/logger"
)

func main() {
	var opts seed.Options
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment")
	pflag.StringSliceVar(&opts.Departments, "departments", []string{"IT", "HR", "Facilities"}, "departments to create")
	pflag.StringSliceVar(&opts.Categories, "categories", []string{"Hardware", "Software", "Network", "Access"}, "ticket categories to create")
	pflag.StringVar(&opts.AdminEmail, "admin-email", "", "bootstrap admin email (skipped when empty)")
	pflag.StringVar(&opts.AdminName, "admin-name", "Administrator", "bootstrap admin display name")
	pflag.StringVar(&opts.AdminPassword, "admin-password", "", "bootstrap admin password (default $SEED_ADMIN_PASSWORD)")
	pflag.Parse()
	if opts.AdminPassword == "" {
		opts.AdminPassword = os.Getenv("SEED_ADMIN_PASSWORD")
	}

	l := logger.New(os.Getenv("APP_ENV"))
	if err := config.LoadEnvFile(*envFile); err != nil {
		l.Fatal().Err(err).Msg("env file")
	}
	cfg, err := config.Load()
	if err != nil {
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	backend, err := database.Connect(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer backend.Close()

	if err := seed.Run(ctx, backend.Store, opts, l); err != nil {
		l.Error().Err(err).Msg("seed failed")
		backend.Close()
		os.Exit(1)
	}
	l.Info().Msg("seed complete")
}
