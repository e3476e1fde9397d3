package circuitbreaker

import (
	"context"
	"database/sql"
)

// DB runs queries on a pool through the database breaker. It satisfies
// repository.DBTX.
type DB struct {
	*CircuitBreaker
	db *sql.DB
}

// WrapDB guards db with DBConfig.
func WrapDB(db *sql.DB) *DB {
	return WrapDBWithConfig(db, DBConfig())
}

func WrapDBWithConfig(db *sql.DB, cfg Config) *DB {
	return &DB{CircuitBreaker: New(cfg), db: db}
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return Do(d.CircuitBreaker, func() (*sql.Rows, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Do(d.CircuitBreaker, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// QueryRowContext counts the query error the row carries; sql.ErrNoRows only
// appears at Scan and is not a failure. While the breaker is open nothing is
// sent and Scan returns context.Canceled.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	var row *sql.Row
	_, _ = Do(d.CircuitBreaker, func() (struct{}, error) {
		row = d.db.QueryRowContext(ctx, query, args...)
		return struct{}{}, row.Err()
	})
	if row != nil {
		return row
	}
	rejected, cancel := context.WithCancel(ctx)
	cancel()
	return d.db.QueryRowContext(rejected, query, args...)
}
