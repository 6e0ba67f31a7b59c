package postgres

import (
	"context"
	"fmt"
	"time"

	"eswika/domain"

	"gorm.io/gorm"
)

// StatsRepository bundles the read-only aggregation queries behind the
// admin statistics endpoints.
type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{
		DB: db,
	}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TopSeller struct {
	Name        string  `json:"name"`
	TotalOrders int64   `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
}

func (r *StatsRepository) CountUsers(ctx context.Context, userType string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.User{})
	if userType != "" {
		query = query.Where("user_type = ?", userType)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (r *StatsRepository) CountOrders(ctx context.Context, since *time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Orders{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return count, nil
}

func (r *StatsRepository) SumOrderRevenue(ctx context.Context, since *time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Orders{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var total float64
	err := query.Select("COALESCE(SUM(total_price), 0)").Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum order revenue: %w", err)
	}

	return total, nil
}

func (r *StatsRepository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var counts []StatusCount
	err := r.DB.WithContext(ctx).Model(&domain.Orders{}).
		Select("status, COUNT(id) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	return counts, nil
}

func (r *StatsRepository) TopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var sellers []TopSeller
	err := r.DB.WithContext(ctx).Model(&domain.User{}).
		Select("users.name, COUNT(orders.id) AS total_orders, COALESCE(SUM(orders.total_price), 0) AS total_sales").
		Joins("JOIN products ON products.seller_id = users.id").
		Joins("JOIN orders ON orders.product_id = products.id").
		Group("users.id, users.name").
		Order("total_sales DESC").
		Limit(limit).
		Scan(&sellers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find top sellers: %w", err)
	}

	return sellers, nil
}

// SumSalesBySeller totals revenue on a single seller's products.
func (r *StatsRepository) SumSalesBySeller(ctx context.Context, sellerID uint) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var total float64
	err := r.DB.WithContext(ctx).Model(&domain.Orders{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.seller_id = ?", sellerID).
		Select("COALESCE(SUM(orders.total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum seller sales: %w", err)
	}

	return total, nil
}

func (r *StatsRepository) CountProductsBySeller(ctx context.Context, sellerID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count seller products: %w", err)
	}

	return count, nil
}

func (r *StatsRepository) CountOrdersByBuyer(ctx context.Context, buyerID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Orders{}).
		Where("buyer_id = ?", buyerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count buyer orders: %w", err)
	}

	return count, nil
}

func (r *StatsRepository) SumSpentByBuyer(ctx context.Context, buyerID uint) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var total float64
	err := r.DB.WithContext(ctx).Model(&domain.Orders{}).
		Where("buyer_id = ?", buyerID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum buyer spend: %w", err)
	}

	return total, nil
}
