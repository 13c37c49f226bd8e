package inventory

import (
	"context"
	"errors"
)

// ErrInvalidAmount rejects non-positive restock or consume amounts; the
// ledger is left untouched.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

type Service struct {
	repo      Repository
	threshold int
}

func NewService(repo Repository, lowStockThreshold int) *Service {
	return &Service{repo: repo, threshold: lowStockThreshold}
}

// Restock increases the film count. Non-positive amounts are rejected
// without touching the ledger; restock never decrements.
func (s *Service) Restock(ctx context.Context, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.repo.Add(ctx, amount)
}

// Consume decreases the film count, floored at zero.
func (s *Service) Consume(ctx context.Context, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.repo.Consume(ctx, amount)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	count, _, err := s.repo.Count(ctx)
	return count, err
}

// Status reports the count together with the derived low-stock predicate.
func (s *Service) Status(ctx context.Context) (*StockStatus, error) {
	count, updatedAt, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &StockStatus{
		Count:     count,
		Threshold: s.threshold,
		LowStock:  count <= s.threshold,
		UpdatedAt: updatedAt,
	}, nil
}
