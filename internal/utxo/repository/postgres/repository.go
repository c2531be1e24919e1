// Package postgres stores the ledger in PostgreSQL. Every block unit runs in one
// transaction that serializes on the chain_tip row.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/chain"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/utxo/model"
	_ "github.com/lib/pq" // postgres driver
)

const driverName = "postgres"

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// executor runs statements against either the pool or an open transaction.
type executor struct {
	q       queryer
	metrics Metrics
}

func (e executor) observe(operation string, started time.Time, err *error) {
	e.metrics.Observe(operation, *err, started)
}

// Repository is the PostgreSQL ledger store.
type Repository struct {
	executor
	db *sql.DB
}

// Option customizes the connection pool.
type Option func(db *sql.DB)

// WithMaxOpenConns bounds the pool size.
func WithMaxOpenConns(n int) Option {
	return func(db *sql.DB) {
		db.SetMaxOpenConns(n)
		db.SetMaxIdleConns(n)
	}
}

// NewRepository opens a connection pool for dsn and verifies it is reachable.
func NewRepository(ctx context.Context, dsn string, metrics Metrics, opts ...Option) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("postgres repository metrics is required")
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	for _, opt := range opts {
		opt(db)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewRepositoryWithDB(db, metrics), nil
}

// NewRepositoryWithDB wraps an existing pool.
func NewRepositoryWithDB(db *sql.DB, metrics Metrics) *Repository {
	return &Repository{executor: executor{q: db, metrics: metrics}, db: db}
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// InTx runs fn in a transaction committed only when fn returns nil.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, tx chain.Tx) error) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &ledgerTx{executor: executor{q: tx, metrics: r.metrics}})
	})
}

func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ledgerTx is one block unit.
type ledgerTx struct {
	executor
}

var (
	_ chain.Store = (*Repository)(nil)
	_ chain.Tx    = (*ledgerTx)(nil)
)

// collect scans all rows and closes them.
func collect[T any](rows *sql.Rows, scan func(rows *sql.Rows) (T, error)) (out []T, err error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	out = make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// expectRows fails with model.ErrNotFound unless the statement touched exactly want rows.
func expectRows(res sql.Result, want int64, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n != want {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return nil
}
