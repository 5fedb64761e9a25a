package database

import (
	"context"
	"fmt"

	"helpdesk/internal/config"
	"helpdesk/internal/repository"
	"helpdesk/internal/repository/postgres"
	"helpdesk/internal/repository/sqlite"
)

// Backend is an opened store together with its health check and cleanup.
type Backend struct {
	Store repository.Store
	Ping  func(context.Context) error
	Close func()
}

// Connect opens the store selected by cfg.DBDriver with the schema applied.
func Connect(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.DBDriver {
	case "postgres":
		pool, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: postgres.NewStore(pool), Ping: pool.Ping, Close: pool.Close}, nil
	case "sqlite":
		db, err := OpenSQLite(cfg.DBURL)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Store: sqlite.NewStore(db),
			Ping:  db.PingContext,
			Close: func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
