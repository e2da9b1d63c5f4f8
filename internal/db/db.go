// Package db provides database connection handling for the feed
// service.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Pool sizing defaults. The feed service issues a handful of short
// queries per request, so a modest pool is enough.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 30 * time.Minute
	DefaultConnectTimeout  = 5 * time.Second
)

// Open connects to PostgreSQL, verifies the connection, and returns a
// configured pool.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	pool, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool.SetMaxOpenConns(DefaultMaxOpenConns)
	pool.SetMaxIdleConns(DefaultMaxIdleConns)
	pool.SetConnMaxLifetime(DefaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
