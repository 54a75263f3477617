// Package db holds small helpers shared by the sqlite stores.
package db

import (
	"context"
	"database/sql"
)

// WithTx runs fn in a transaction, committing if fn succeeds.
func WithTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Value returns the scanned value, or the zero value for NULL.
func Value[T any](n sql.Null[T]) T {
	if !n.Valid {
		var zero T
		return zero
	}
	return n.V
}

// NullIfZero stores the zero value of T as NULL.
func NullIfZero[T comparable](v T) sql.Null[T] {
	var zero T
	return sql.Null[T]{V: v, Valid: v != zero}
}
