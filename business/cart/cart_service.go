package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eswika/business/checkout"
	"eswika/business/inventory"
	"eswika/domain"
	"eswika/pkg/logger"
	"eswika/pkg/metrics"

	"gorm.io/gorm"
)

// CartRepository contract interface
type CartRepository interface {
	Create(ctx context.Context, tx *gorm.DB, line *domain.Cart) error
	FindByID(ctx context.Context, id uint) (domain.Cart, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Cart, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (domain.Cart, error)
	FindViewsByUser(ctx context.Context, userID uint) ([]domain.CartLineView, error)
	Update(ctx context.Context, tx *gorm.DB, line *domain.Cart) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type CartService struct {
	db          *gorm.DB
	cartRepo    CartRepository
	productRepo ProductRepository
	inv         *inventory.Service
	converter   *checkout.Converter
}

func NewCartService(
	db *gorm.DB,
	cartRepo CartRepository,
	productRepo ProductRepository,
	inv *inventory.Service,
	converter *checkout.Converter,
) *CartService {
	return &CartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		inv:         inv,
		converter:   converter,
	}
}

func (s *CartService) List(ctx context.Context, userID uint) ([]domain.CartLineView, error) {
	return s.cartRepo.FindViewsByUser(ctx, userID)
}

// Add reserves stock for the requested quantity and creates a cart line,
// or merges into an existing line for the same product. Reservation and
// the cart write commit together.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	merge := err == nil
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inv.Reserve(ctx, tx, productID, quantity); err != nil {
			return err
		}

		if merge {
			existing.Quantity += quantity
			existing.TotalPrice = float64(existing.Quantity) * product.Price
			return s.cartRepo.Update(ctx, tx, &existing)
		}

		line := domain.Cart{
			UserID:     userID,
			ProductID:  productID,
			Quantity:   quantity,
			TotalPrice: float64(quantity) * product.Price,
		}
		return s.cartRepo.Create(ctx, tx, &line)
	})
}

// UpdateQuantity changes a cart line to the new quantity, adjusting the
// product stock by the difference.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID uint, quantity int) error {
	if quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	line, err := s.cartRepo.FindByID(ctx, lineID)
	if err != nil {
		return err
	}
	if line.UserID != userID {
		return domain.ErrNotAuthorized
	}

	product, err := s.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return err
	}

	delta := quantity - line.Quantity

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inv.Adjust(ctx, tx, line.ProductID, delta); err != nil {
			return err
		}

		line.Quantity = quantity
		line.TotalPrice = float64(quantity) * product.Price
		return s.cartRepo.Update(ctx, tx, &line)
	})
}

// Remove deletes a cart line and releases its reservation back to stock.
func (s *CartService) Remove(ctx context.Context, userID, lineID uint) error {
	line, err := s.cartRepo.FindByID(ctx, lineID)
	if err != nil {
		return err
	}
	if line.UserID != userID {
		return domain.ErrNotAuthorized
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inv.Release(ctx, tx, line.ProductID, line.Quantity); err != nil {
			return err
		}

		return s.cartRepo.Delete(ctx, tx, line.ID)
	})
}

// Checkout converts the whole cart into pending orders without payment.
// All order inserts and cart deletes are one transaction; on failure the
// cart is left untouched.
func (s *CartService) Checkout(ctx context.Context, userID uint, deliveryAddress string) ([]domain.Orders, error) {
	started := time.Now()

	var orders []domain.Orders
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		orders, err = s.converter.Convert(ctx, tx, userID, deliveryAddress, domain.OrderStatusPending)
		return err
	})
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrEmptyCart) {
			return nil, err
		}
		logger.Error("Checkout transaction rolled back", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}

	metrics.CheckoutTotal.WithLabelValues("ok").Inc()
	metrics.CheckoutDuration.Observe(time.Since(started).Seconds())

	return orders, nil
}
