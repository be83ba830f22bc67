// Package db provides the document store for job applications: a PostgreSQL
// implementation backed by a pgx pool and an in-process implementation for tests
// and demo mode.
package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an identifier does not resolve to a record.
var ErrNotFound = errors.New("not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the pool can still reach the server.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Process-wide pool, created on first use and reused by every caller.
var (
	sharedMu sync.Mutex
	sharedDB *DB
)

// Shared returns the process-wide pool, connecting on first call. A failed
// connect is not cached, so the next call retries.
func Shared(ctx context.Context, databaseURL string) (*DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDB != nil {
		return sharedDB, nil
	}

	db, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	sharedDB = db
	return sharedDB, nil
}

// CloseShared closes the process-wide pool if one was opened.
func CloseShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDB != nil {
		sharedDB.Close()
		sharedDB = nil
	}
}
