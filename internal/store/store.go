// Package store implements durable, transactional storage of projects and
// their tasks on a single SQLite database. It is the sole authority over the
// data invariants: referential integrity between tasks and projects, the
// closed task status set, and propagation of child mutations into the parent
// project's updated_at timestamp.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// timeLayout is a fixed-width ISO-8601 representation. Fixed width keeps
// lexicographic and chronological order identical, which the updated_at
// ordering in listings relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store owns the database handle. Construct once with Open, pass by
// reference to collaborators, Close on shutdown. It keeps no state beyond
// the connection itself.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the SQLite database at path and
// prepares it for use: foreign keys on, WAL journal, busy timeout, schema
// applied. The connection pool is capped at a single connection; SQLite
// serializes writers anyway and a lone connection avoids lock churn.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON", // required for CASCADE deletes
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			closeQuietly(db, logger)
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		closeQuietly(db, logger)
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func closeQuietly(db *sql.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", zap.Error(err))
	}
}

// migrate creates the two-table schema. Idempotent.
func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (project_id) REFERENCES projects (id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks (project_id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction: begin, fn, commit on success,
// roll back on any failure.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			s.logger.Error("failed to roll back transaction", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", raw, err)
	}
	return t, nil
}
