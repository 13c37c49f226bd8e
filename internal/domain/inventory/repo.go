package inventory

import (
	"context"
	"time"
)

// Repository persists the single film stock counter.
type Repository interface {
	Count(ctx context.Context) (int, time.Time, error)
	// Add increases the counter and returns the new count.
	Add(ctx context.Context, amount int) (int, error)
	// Consume decreases the counter, floored at zero, and returns the new count.
	Consume(ctx context.Context, amount int) (int, error)
}
