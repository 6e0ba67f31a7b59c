package inventory

import (
	"context"
	"errors"

	"eswika/domain"
	"eswika/pkg/metrics"

	"gorm.io/gorm"
)

// StockRepository contract interface
type StockRepository interface {
	Reserve(ctx context.Context, tx *gorm.DB, productID uint, amount int) error
	Release(ctx context.Context, tx *gorm.DB, productID uint, amount int) error
}

// Service reconciles product stock against reservations. Every call
// mutates exactly one product row atomically; the caller owns the
// enclosing transaction boundary.
type Service struct {
	stockRepo StockRepository
}

func NewService(stockRepo StockRepository) *Service {
	return &Service{
		stockRepo: stockRepo,
	}
}

// Reserve decrements available stock by amount, failing with
// ErrInsufficientStock when not enough remains. Quantity never goes
// negative.
func (s *Service) Reserve(ctx context.Context, tx *gorm.DB, productID uint, amount int) error {
	if amount <= 0 {
		return errors.New("reserve amount must be positive")
	}

	err := s.stockRepo.Reserve(ctx, tx, productID, amount)
	if errors.Is(err, domain.ErrInsufficientStock) {
		metrics.StockConflicts.Inc()
	}

	return err
}

// Release returns amount units to the product, used on cart removal and
// order cancellation.
func (s *Service) Release(ctx context.Context, tx *gorm.DB, productID uint, amount int) error {
	if amount <= 0 {
		return errors.New("release amount must be positive")
	}

	return s.stockRepo.Release(ctx, tx, productID, amount)
}

// Adjust applies a quantity change from a cart line update. Positive
// delta reserves the extra units, negative delta releases the surplus.
func (s *Service) Adjust(ctx context.Context, tx *gorm.DB, productID uint, delta int) error {
	switch {
	case delta > 0:
		return s.Reserve(ctx, tx, productID, delta)
	case delta < 0:
		return s.Release(ctx, tx, productID, -delta)
	default:
		return nil
	}
}
