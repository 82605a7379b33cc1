// Package store runs the SQL behind every API operation. Reads go straight
// to the pool; every write runs inside db.WithTx so that existence checks
// and inserts either all land or none do.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"projectdesk/internal/db"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// ErrNoFields is returned by partial updates that carry nothing to change.
var ErrNoFields = errors.New("no fields to update")

// NotFoundError names the entity that a lookup or a write precondition
// could not find.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Entity names used in NotFoundError.
const (
	EntityEmployee = "employee"
	EntityPosition = "position"
	EntityProject  = "project"
	EntityTask     = "task"
	EntityFile     = "file"
)

// querier is the part of *sql.DB and *sql.Tx the queries need.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store is the PostgreSQL-backed repository.
type Store struct {
	db *sql.DB
}

// New wraps an open pool.
func New(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) tx(ctx context.Context, fn func(q querier) error) error {
	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error { return fn(tx) })
}

// existence checks are keyed by entity; the identifiers are constants.
var existsQueries = map[string]string{
	EntityEmployee: `SELECT EXISTS (SELECT 1 FROM "Сотрудники" WHERE "Код сотрудника" = $1)`,
	EntityPosition: `SELECT EXISTS (SELECT 1 FROM "Должности" WHERE "Код должности" = $1)`,
	EntityProject:  `SELECT EXISTS (SELECT 1 FROM "Проекты" WHERE "Код проекта" = $1)`,
	EntityTask:     `SELECT EXISTS (SELECT 1 FROM "Задачи" WHERE "Код задачи" = $1)`,
}

// mustExist returns a NotFoundError when the row is absent.
func mustExist(ctx context.Context, q querier, entity string, id int64) error {
	var ok bool
	if err := q.QueryRowContext(ctx, existsQueries[entity], id).Scan(&ok); err != nil {
		return fmt.Errorf("check %s: %w", entity, err)
	}
	if !ok {
		return notFound(entity, id)
	}
	return nil
}

// collect drains rows through scan.
func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func queryList[T any](ctx context.Context, q querier, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scan)
}

// affectedOne turns an UPDATE or DELETE that matched nothing into a
// NotFoundError.
func affectedOne(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}
