// Package repository declares the persistence ports used by the content use cases.
package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB the postgres adapters need.
// circuitbreaker.DB satisfies it as well.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
