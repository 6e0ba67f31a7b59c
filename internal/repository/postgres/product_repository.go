package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eswika/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product

	err := r.DB.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindValidated lists products cleared by admin moderation, the only ones
// shown on the public catalog.
func (r *ProductRepository) FindValidated(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Where("validated_by_admin = ?", true).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find seller products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) FindPendingPage(ctx context.Context, page, perPage int) ([]domain.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("validated_by_admin = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending products: %w", err)
	}

	var products []domain.Product
	err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find pending products: %w", err)
	}

	return products, total, nil
}

// Update writes only the allow-listed fields that were actually provided.
func (r *ProductRepository) Update(ctx context.Context, id uint, update domain.ProductUpdate) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{}
	if update.Name != nil {
		updateData["name"] = *update.Name
	}
	if update.Description != nil {
		updateData["description"] = *update.Description
	}
	if update.Price != nil {
		updateData["price"] = *update.Price
	}
	if update.Quantity != nil {
		updateData["quantity"] = *update.Quantity
	}
	if update.Unit != nil {
		updateData["unit"] = *update.Unit
	}
	if update.PeelingAvailable != nil {
		updateData["peeling_available"] = *update.PeelingAvailable
	}
	if update.PeelingPrice != nil {
		updateData["peeling_price"] = *update.PeelingPrice
	}

	if len(updateData) == 0 {
		return nil
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(updateData)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Validate flips the moderation flag and stamps the validation time.
func (r *ProductRepository) Validate(ctx context.Context, id uint, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"validated_by_admin": true,
		"validation_date":    at,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to validate product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Reserve decrements available quantity only when enough stock remains.
// The conditional update keeps quantity from ever going negative, even
// under concurrent reservations.
func (r *ProductRepository) Reserve(ctx context.Context, tx *gorm.DB, id uint, amount int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := tx.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND quantity >= ?", id, amount).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := tx.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return fmt.Errorf("failed to check product: %w", err)
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}

	return nil
}

// Release returns a previously reserved quantity to the product.
func (r *ProductRepository) Release(ctx context.Context, tx *gorm.DB, id uint, amount int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := tx.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to release stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
