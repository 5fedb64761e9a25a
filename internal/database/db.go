package database

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/internal/config"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Open connects to Postgres, verifies the connection and applies the schema.
func Open(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		return nil, err
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate applies the idempotent Postgres schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	ddl, err := schemaFS.ReadFile("schema/postgres.sql")
	if err != nil {
		return err
	}
	// no arguments: pgx uses the simple protocol, which allows several statements
	if _, err := pool.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
