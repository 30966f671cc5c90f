// Package sqlite implements core.Backend on a single SQLite table.
// Each key is one row holding the encoded snapshot.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/introspection"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

const defaultPath = "hrpc.db"

// Backend stores snapshots in the `state` table.
type Backend struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Backend, error) {
	if path == "" {
		path = defaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps ":memory:" databases and write ordering consistent.
	db.SetMaxOpenConns(1)
	return &Backend{db: db, path: path}, nil
}

// Initialize creates the state table.
func (b *Backend) Initialize(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return fmt.Errorf("create state table: %w", err)
	}
	return nil
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	if _, err := b.db.ExecContext(ctx,
		`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
		key, data); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT bucket FROM state ORDER BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *Backend) Clear(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM state`); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (b *Backend) Close(ctx context.Context) error { return b.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (b *Backend) DB() *sql.DB { return b.db }

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	return map[string]any{"path": b.path, "open_connections": b.db.Stats().OpenConnections}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string { return "sqlite" }

var _ core.Backend = (*Backend)(nil)
var _ core.Closer = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
