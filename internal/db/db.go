// Package db owns the PostgreSQL connection pool, the embedded schema
// migrations and the transaction helper used by every write.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNoDSN is returned by Open when no connection string is configured.
var ErrNoDSN = errors.New("DATABASE_URL is empty")

// PingTimeout bounds the connectivity check performed by Open.
const PingTimeout = 2 * time.Second

// Open opens a PostgreSQL connection pool and verifies it answers.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}
