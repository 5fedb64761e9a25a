package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"helpdesk/internal/config"
	"helpdesk/internal/database"
	"helpdesk/internal/router"
	"helpdesk/pkg/logger"
)

func main() {
	envFile := pflag.String("env-file", "", "dotenv file to load before reading the environment (default .env if present)")
	pflag.Parse()

	// config + logger
	boot := logger.New(os.Getenv("APP_ENV"))
	if err := config.LoadEnvFile(*envFile); err != nil {
		boot.Fatal().Err(err).Msg("env file")
	}
	cfg, err := config.Load()
	if err != nil {
		boot.Fatal().Err(err).Msg("invalid configuration")
	}
	l := logger.New(cfg.Env)
	l.Info().Stringer("config", cfg).Msg("starting")

	// db
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	backend, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		l.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db connect failed")
	}
	defer backend.Close()

	// http
	r := router.New(l, backend.Store, cfg, backend.Ping)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error().Err(err).Msg("shutdown")
	}
	l.Info().Msg("shutdown complete")
}
