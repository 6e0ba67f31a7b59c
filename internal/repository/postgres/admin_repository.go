package postgres

import (
	"context"
	"errors"
	"fmt"

	"eswika/domain"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{
		DB: db,
	}
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	if err := ctx.Err(); err != nil {
		return domain.Admin{}, fmt.Errorf("context error: %w", err)
	}

	var admin domain.Admin

	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Admin{}, domain.ErrNotFound
		}
		return domain.Admin{}, fmt.Errorf("failed to find admin by email: %w", err)
	}

	return admin, nil
}
