package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (or creates) a SQLite database and applies the schema.
// Foreign keys and a busy timeout are enabled on every pooled connection via
// DSN parameters. A single connection is used, so callers must not run a
// query while iterating another result set.
func OpenSQLite(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "helpdesk.db"
	}
	d, err := sql.Open("sqlite3", withParams(dsn))
	if err != nil {
		return nil, err
	}
	d.SetMaxOpenConns(1)
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	if !strings.Contains(dsn, "mode=memory") {
		// not available for in-memory databases
		_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	}
	ddl, err := schemaFS.ReadFile("schema/sqlite.sql")
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.Exec(string(ddl)); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return d, nil
}

func withParams(dsn string) string {
	params := []string{"_foreign_keys=on", "_busy_timeout=5000"}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
