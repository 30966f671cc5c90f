// Package postgres implements core.Backend on a Postgres table with JSONB
// payloads, through the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/introspection"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/hrpc?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Backend stores snapshots in the `state` table.
type Backend struct {
	db  *sql.DB
	dsn string
}

// Open opens a Postgres connection pool. An empty dsn falls back to a local default.
func Open(dsn string) (*Backend, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &Backend{db: db, dsn: dsn}, nil
}

// Initialize pings the server and ensures the state table exists.
func (b *Backend) Initialize(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	)`
	if _, err := b.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure state table: %w", err)
	}
	return nil
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = $1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

// Write upserts the snapshot. Payloads must be valid JSON (use the json codec).
func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	if _, err := b.db.ExecContext(ctx,
		`INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`,
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

// Close releases the connection pool.
func (b *Backend) Close(ctx context.Context) error { return b.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (b *Backend) DB() *sql.DB { return b.db }

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	s := b.db.Stats()
	return map[string]any{"open_connections": s.OpenConnections, "in_use": s.InUse}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string { return "postgres" }

var _ core.Backend = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
