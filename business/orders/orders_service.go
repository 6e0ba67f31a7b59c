package orders

import (
	"context"
	"errors"

	"eswika/business/inventory"
	"eswika/domain"

	"gorm.io/gorm"
)

// OrdersRepository contract interface
type OrdersRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *domain.Orders) error
	FindByID(ctx context.Context, id uint) (domain.Orders, error)
	FindByBuyer(ctx context.Context, buyerID uint) ([]domain.Orders, error)
	FindBySeller(ctx context.Context, sellerID uint) ([]domain.Orders, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type OrdersService struct {
	db          *gorm.DB
	orderRepo   OrdersRepository
	productRepo ProductRepository
	userRepo    UserRepository
	inv         *inventory.Service
}

func NewOrdersService(
	db *gorm.DB,
	orderRepo OrdersRepository,
	productRepo ProductRepository,
	userRepo UserRepository,
	inv *inventory.Service,
) *OrdersService {
	return &OrdersService{
		db:          db,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		inv:         inv,
	}
}

// Create places a direct order, reserving stock and fixing the total
// price (with the peeling surcharge when requested and offered) at
// creation time.
func (s *OrdersService) Create(ctx context.Context, buyerID, productID uint, quantity int, peelingRequested bool, deliveryAddress string) (domain.Orders, error) {
	if quantity <= 0 {
		return domain.Orders{}, errors.New("quantity must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Orders{}, err
	}

	totalPrice := product.Price * float64(quantity)
	peeling := peelingRequested && product.PeelingAvailable
	if peeling {
		totalPrice += product.PeelingPrice * float64(quantity)
	}

	order := domain.Orders{
		BuyerID:          buyerID,
		ProductID:        productID,
		Quantity:         quantity,
		TotalPrice:       totalPrice,
		PeelingRequested: peeling,
		Status:           domain.OrderStatusPending,
		DeliveryAddress:  deliveryAddress,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inv.Reserve(ctx, tx, productID, quantity); err != nil {
			return err
		}

		return s.orderRepo.Create(ctx, tx, &order)
	})
	if err != nil {
		return domain.Orders{}, err
	}

	return order, nil
}

// ListForUser returns the orders visible to one principal: farmers see
// orders placed on their products, everyone else their own purchases.
func (s *OrdersService) ListForUser(ctx context.Context, userID uint) ([]domain.Orders, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.UserType == domain.UserTypeFarmer {
		return s.orderRepo.FindBySeller(ctx, userID)
	}

	return s.orderRepo.FindByBuyer(ctx, userID)
}

// UpdateStatus lets the product's farmer move an order through the
// fulfilment states.
func (s *OrdersService) UpdateStatus(ctx context.Context, userID, orderID uint, status string) error {
	if !domain.IsValidOrderStatus(status) {
		return errors.New("invalid order status")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	product, err := s.productRepo.FindByID(ctx, order.ProductID)
	if err != nil {
		return err
	}
	if product.SellerID != userID {
		return domain.ErrNotAuthorized
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}

// Cancel removes a buyer's order and releases the reserved quantity back
// to the product.
func (s *OrdersService) Cancel(ctx context.Context, userID, orderID uint) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.BuyerID != userID {
		return domain.ErrNotAuthorized
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.inv.Release(ctx, tx, order.ProductID, order.Quantity); err != nil {
			return err
		}

		return s.orderRepo.Delete(ctx, tx, order.ID)
	})
}
