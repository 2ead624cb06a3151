package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// Connection settings applied before the schema.
var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// schema is applied in order inside one transaction. Every statement is idempotent.
var schema = []struct {
	name string
	stmt string
}{
	{"meter_readings", `
CREATE TABLE IF NOT EXISTS meter_readings (
    period     TEXT      NOT NULL,
    field      TEXT      NOT NULL,
    value      REAL      NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (period, field)
);`},
	{"journal_events", `
CREATE TABLE IF NOT EXISTS journal_events (
    id          TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type        TEXT NOT NULL,
    period      TEXT NOT NULL,
    message     TEXT NOT NULL,
    meta        TEXT
);`},
	{"journal_events_occurred_at", `
CREATE INDEX IF NOT EXISTS idx_journal_events_occurred_at ON journal_events (occurred_at);`},
	{"users", `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);`},
}

// InitDB opens the SQLite file at path, creating it and its tables if needed.
func InitDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}
	// single household, single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func prepare(ctx context.Context, db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("set %s: %w", p, err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range schema {
		if _, err := tx.ExecContext(ctx, s.stmt); err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
