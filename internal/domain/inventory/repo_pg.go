package inventory

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicore/clinicore/internal/platform/db"
)

// The ledger is a single row, seeded by the initial migration.
type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Count(ctx context.Context) (int, time.Time, error) {
	var count int
	var updatedAt time.Time
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT count, updated_at FROM film_stock WHERE id = 1`).Scan(&count, &updatedAt)
	return count, updatedAt, err
}

func (r *repoPG) Add(ctx context.Context, amount int) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE film_stock SET count = count + $1, updated_at = NOW()
		WHERE id = 1 RETURNING count`, amount).Scan(&count)
	return count, err
}

func (r *repoPG) Consume(ctx context.Context, amount int) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE film_stock SET count = GREATEST(0, count - $1), updated_at = NOW()
		WHERE id = 1 RETURNING count`, amount).Scan(&count)
	return count, err
}
