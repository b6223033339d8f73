// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Repository wraps sqlx for database operations.
// Queries are written with ? placeholders and rebound for the connected driver.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// DB returns the underlying connection for direct access.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// SetClock replaces the clock used to stamp created_at columns.
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC()
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	return false
}

// withTx runs fn inside a transaction, rolling back if fn fails.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// insert executes an INSERT ... RETURNING id statement.
func (r *Repository) insert(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (int64, error) {
	var id int64
	if err := sqlx.GetContext(ctx, q, &id, r.db.Rebind(query+" RETURNING id"), args...); err != nil {
		return 0, wrapError(err)
	}
	return id, nil
}

func (r *Repository) get(ctx context.Context, q sqlx.QueryerContext, dest any, query string, args ...any) error {
	return wrapError(sqlx.GetContext(ctx, q, dest, r.db.Rebind(query), args...))
}

func (r *Repository) selectAll(ctx context.Context, q sqlx.QueryerContext, dest any, query string, args ...any) error {
	return wrapError(sqlx.SelectContext(ctx, q, dest, r.db.Rebind(query), args...))
}

func (r *Repository) exec(ctx context.Context, e sqlx.ExecerContext, query string, args ...any) (int64, error) {
	res, err := e.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, wrapError(err)
	}
	return res.RowsAffected()
}

// execOne is exec that reports ErrNotFound when no row matched.
func (r *Repository) execOne(ctx context.Context, e sqlx.ExecerContext, query string, args ...any) error {
	n, err := r.exec(ctx, e, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// in expands slice arguments into IN (...) lists before rebinding.
func (r *Repository) in(query string, args ...any) (string, []any, error) {
	q, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return q, expanded, nil
}
