package postgres

import (
	"context"
	"errors"
	"fmt"

	"eswika/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

func (r *OrdersRepository) Create(ctx context.Context, tx *gorm.DB, order *domain.Orders) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := tx.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *OrdersRepository) FindByID(ctx context.Context, id uint) (domain.Orders, error) {
	if err := ctx.Err(); err != nil {
		return domain.Orders{}, fmt.Errorf("context error: %w", err)
	}

	var order domain.Orders

	err := r.DB.WithContext(ctx).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Orders{}, domain.ErrNotFound
		}
		return domain.Orders{}, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

func (r *OrdersRepository) FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Orders, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Orders
	err := r.DB.WithContext(ctx).Where("buyer_id = ?", buyerID).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find buyer orders: %w", err)
	}

	return orders, nil
}

// FindBySeller lists orders placed against any of the seller's products.
func (r *OrdersRepository) FindBySeller(ctx context.Context, sellerID uint) ([]domain.Orders, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Orders
	err := r.DB.WithContext(ctx).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.seller_id = ?", sellerID).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find seller orders: %w", err)
	}

	return orders, nil
}

func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Orders{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// FlipAwaitingPayment moves every awaiting_payment order of one buyer to
// pending, used when a cash-on-delivery payment is confirmed.
func (r *OrdersRepository) FlipAwaitingPayment(ctx context.Context, tx *gorm.DB, buyerID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := tx.WithContext(ctx).Model(&domain.Orders{}).
		Where("buyer_id = ? AND status = ?", buyerID, domain.OrderStatusAwaitingPayment).
		Update("status", domain.OrderStatusPending).Error
	if err != nil {
		return fmt.Errorf("failed to flip awaiting orders: %w", err)
	}

	return nil
}

func (r *OrdersRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := tx.WithContext(ctx).Delete(&domain.Orders{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
