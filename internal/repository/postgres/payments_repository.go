package postgres

import (
	"context"
	"errors"
	"fmt"

	"eswika/domain"

	"gorm.io/gorm"
)

type PaymentsRepository struct {
	DB *gorm.DB
}

func NewPaymentsRepository(db *gorm.DB) *PaymentsRepository {
	return &PaymentsRepository{
		DB: db,
	}
}

func (r *PaymentsRepository) Create(ctx context.Context, tx *gorm.DB, payment *domain.Payments) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *PaymentsRepository) FindByID(ctx context.Context, id uint) (domain.Payments, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payments{}, fmt.Errorf("context error: %w", err)
	}

	var payment domain.Payments

	err := r.DB.WithContext(ctx).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payments{}, domain.ErrNotFound
		}
		return domain.Payments{}, fmt.Errorf("failed to find payment: %w", err)
	}

	return payment, nil
}

func (r *PaymentsRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := tx.WithContext(ctx).Model(&domain.Payments{}).Where("id = ?", id).Update("payment_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
