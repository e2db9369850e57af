package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	sferrors "github.com/matzehuels/sceneforge/pkg/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
	path       TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBackend keeps every project as a row of one embedded database file.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Name implements Backend.
func (b *SQLiteBackend) Name() string { return "sqlite" }

// Read implements Backend.
func (b *SQLiteBackend) Read(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT data FROM projects WHERE path = ?`, path).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sferrors.New(sferrors.ErrCodeProjectNotFound, "no project at %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("select project: %w", err)
	}
	return data, nil
}

// Write implements Backend.
func (b *SQLiteBackend) Write(ctx context.Context, path string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `
INSERT INTO projects (path, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		path, data, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

// Exists implements Backend.
func (b *SQLiteBackend) Exists(ctx context.Context, path string) (bool, error) {
	var n int
	err := b.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects WHERE path = ?`, path).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count project: %w", err)
	}
	return n > 0, nil
}

// List implements Backend.
func (b *SQLiteBackend) List(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT path FROM projects ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

var _ Backend = (*SQLiteBackend)(nil)
