package postgres

import (
	"context"
	"errors"
	"fmt"

	"eswika/domain"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		DB: db,
	}
}

func (r *CartRepository) Create(ctx context.Context, tx *gorm.DB, line *domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := tx.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}

	return nil
}

func (r *CartRepository) FindByID(ctx context.Context, id uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var line domain.Cart

	err := r.DB.WithContext(ctx).First(&line, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Cart{}, domain.ErrNotFound
		}
		return domain.Cart{}, fmt.Errorf("failed to find cart line: %w", err)
	}

	return line, nil
}

func (r *CartRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var lines []domain.Cart
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cart lines: %w", err)
	}

	return lines, nil
}

func (r *CartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var line domain.Cart

	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Cart{}, domain.ErrNotFound
		}
		return domain.Cart{}, fmt.Errorf("failed to find cart line: %w", err)
	}

	return line, nil
}

// FindViewsByUser joins product and seller data into the listing shape.
func (r *CartRepository) FindViewsByUser(ctx context.Context, userID uint) ([]domain.CartLineView, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var views []domain.CartLineView
	err := r.DB.WithContext(ctx).Model(&domain.Cart{}).
		Select("carts.id, carts.product_id, products.name AS product_name, carts.quantity, products.price AS price_per_unit, carts.total_price, users.name AS seller_name, carts.created_at").
		Joins("JOIN products ON products.id = carts.product_id").
		Joins("JOIN users ON users.id = products.seller_id").
		Where("carts.user_id = ?", userID).
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cart views: %w", err)
	}

	return views, nil
}

func (r *CartRepository) Update(ctx context.Context, tx *gorm.DB, line *domain.Cart) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := tx.WithContext(ctx).Model(&domain.Cart{}).Where("id = ?", line.ID).Updates(map[string]interface{}{
		"quantity":    line.Quantity,
		"total_price": line.TotalPrice,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *CartRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := tx.WithContext(ctx).Delete(&domain.Cart{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
