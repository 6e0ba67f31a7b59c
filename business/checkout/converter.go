package checkout

import (
	"context"

	"eswika/domain"

	"gorm.io/gorm"
)

// CartRepository contract interface
type CartRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.Cart, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// OrdersRepository contract interface
type OrdersRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *domain.Orders) error
}

// Converter turns a user's cart lines into persisted orders inside one
// transaction supplied by the caller.
type Converter struct {
	cartRepo  CartRepository
	orderRepo OrdersRepository
}

func NewConverter(cartRepo CartRepository, orderRepo OrdersRepository) *Converter {
	return &Converter{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
	}
}

// Convert creates one order per cart line, copying product, quantity and
// total price verbatim, and deletes each converted line. Stock is NOT
// re-validated here: reservation already happened when the line entered
// the cart. The caller commits or rolls back tx; any error returned here
// must abort the whole transaction so the cart is left untouched.
func (c *Converter) Convert(ctx context.Context, tx *gorm.DB, userID uint, deliveryAddress, status string) ([]domain.Orders, error) {
	lines, err := c.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	orders := make([]domain.Orders, 0, len(lines))
	for _, line := range lines {
		order := domain.Orders{
			BuyerID:         line.UserID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			TotalPrice:      line.TotalPrice,
			Status:          status,
			DeliveryAddress: deliveryAddress,
		}
		if err := c.orderRepo.Create(ctx, tx, &order); err != nil {
			return nil, err
		}
		if err := c.cartRepo.Delete(ctx, tx, line.ID); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}
