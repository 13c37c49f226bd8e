package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queryable is satisfied by both *pgxpool.Pool and pgx.Tx, letting repositories
// run either against the shared pool or inside an injected transaction.
type Queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type contextKey string

const txKey contextKey = "db_tx"

// RunInTx executes fn inside a single transaction. The transaction is placed
// in the context so that repositories resolving their connection through
// ConnFromContext participate in it. Used where two writes must land
// atomically, e.g. an order status change plus its stock deduction.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// TxRunner abstracts RunInTx so services can run multi-write operations
// atomically without holding a pool reference, and tests can substitute a
// passthrough runner.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NewTxRunner returns a TxRunner bound to the given pool.
func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return RunInTx(ctx, pool, fn)
	}
}

// ConnFromContext returns the transaction bound to ctx, or nil when the
// caller is not running inside RunInTx.
func ConnFromContext(ctx context.Context) Queryable {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	if tx == nil {
		return nil
	}
	return tx
}
