package admin

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"eswika/domain"
	"eswika/internal/repository/postgres"
	"eswika/pkg/logger"
	"eswika/pkg/utils"
)

// AdminRepository contract interface
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.Admin, error)
}

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindPage(ctx context.Context, userType string, page, perPage int) ([]domain.User, int64, error)
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindPendingPage(ctx context.Context, page, perPage int) ([]domain.Product, int64, error)
	Validate(ctx context.Context, id uint, at time.Time) error
}

// StatsRepository contract interface
type StatsRepository interface {
	CountUsers(ctx context.Context, userType string) (int64, error)
	CountOrders(ctx context.Context, since *time.Time) (int64, error)
	SumOrderRevenue(ctx context.Context, since *time.Time) (float64, error)
	OrdersByStatus(ctx context.Context) ([]postgres.StatusCount, error)
	TopSellers(ctx context.Context, limit int) ([]postgres.TopSeller, error)
	SumSalesBySeller(ctx context.Context, sellerID uint) (float64, error)
	CountProductsBySeller(ctx context.Context, sellerID uint) (int64, error)
	CountOrdersByBuyer(ctx context.Context, buyerID uint) (int64, error)
	SumSpentByBuyer(ctx context.Context, buyerID uint) (float64, error)
}

type AdminService struct {
	adminRepo   AdminRepository
	userRepo    UserRepository
	productRepo ProductRepository
	statsRepo   StatsRepository
}

func NewAdminService(
	adminRepo AdminRepository,
	userRepo UserRepository,
	productRepo ProductRepository,
	statsRepo StatsRepository,
) *AdminService {
	return &AdminService{
		adminRepo:   adminRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		statsRepo:   statsRepo,
	}
}

func (s *AdminService) Login(ctx context.Context, email, password string) (string, domain.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid admin credentials", err)
		return "", domain.Admin{}, errors.New("incorrect email or password")
	}

	if ok := utils.CheckPassword(password, admin.Password); !ok {
		logger.Error("Admin password incorrect")
		return "", domain.Admin{}, errors.New("incorrect email or password")
	}

	adminIDStr := strconv.FormatUint(uint64(admin.ID), 10)
	token, err := utils.GenerateJWT(adminIDStr, "admin", true)
	if err != nil {
		logger.Error("Failed to generate admin token", err)
		return "", domain.Admin{}, errors.New("failed to generate token")
	}

	admin.Password = ""
	return token, admin, nil
}

type UserStats struct {
	Total     int64 `json:"total"`
	Farmers   int64 `json:"farmers"`
	Merchants int64 `json:"merchants"`
	Customers int64 `json:"customers"`
}

type MonthlyStats struct {
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type SalesStats struct {
	TotalOrders    int64                  `json:"total_orders"`
	TotalRevenue   float64                `json:"total_revenue"`
	OrdersByStatus []postgres.StatusCount `json:"orders_by_status"`
	Monthly        MonthlyStats           `json:"monthly"`
}

type Statistics struct {
	Users      UserStats            `json:"users"`
	Sales      SalesStats           `json:"sales"`
	TopSellers []postgres.TopSeller `json:"top_sellers"`
}

// Statistics assembles the admin dashboard aggregates.
func (s *AdminService) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	var err error

	if stats.Users.Total, err = s.statsRepo.CountUsers(ctx, ""); err != nil {
		return Statistics{}, err
	}
	if stats.Users.Farmers, err = s.statsRepo.CountUsers(ctx, domain.UserTypeFarmer); err != nil {
		return Statistics{}, err
	}
	if stats.Users.Merchants, err = s.statsRepo.CountUsers(ctx, domain.UserTypeMerchant); err != nil {
		return Statistics{}, err
	}
	if stats.Users.Customers, err = s.statsRepo.CountUsers(ctx, domain.UserTypeCustomer); err != nil {
		return Statistics{}, err
	}

	if stats.Sales.TotalOrders, err = s.statsRepo.CountOrders(ctx, nil); err != nil {
		return Statistics{}, err
	}
	if stats.Sales.TotalRevenue, err = s.statsRepo.SumOrderRevenue(ctx, nil); err != nil {
		return Statistics{}, err
	}
	if stats.Sales.OrdersByStatus, err = s.statsRepo.OrdersByStatus(ctx); err != nil {
		return Statistics{}, err
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.Sales.Monthly.Revenue, err = s.statsRepo.SumOrderRevenue(ctx, &monthStart); err != nil {
		return Statistics{}, err
	}
	if stats.Sales.Monthly.Orders, err = s.statsRepo.CountOrders(ctx, &monthStart); err != nil {
		return Statistics{}, err
	}

	if stats.TopSellers, err = s.statsRepo.TopSellers(ctx, 5); err != nil {
		return Statistics{}, err
	}

	return stats, nil
}

type UserPage struct {
	Users       []domain.User `json:"users"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
	TotalUsers  int64         `json:"total_users"`
}

func (s *AdminService) ListUsers(ctx context.Context, userType string, page, perPage int) (UserPage, error) {
	if userType != "" && !domain.IsValidUserType(userType) {
		return UserPage{}, errors.New("invalid user type")
	}

	users, total, err := s.userRepo.FindPage(ctx, userType, page, perPage)
	if err != nil {
		return UserPage{}, err
	}

	for i := range users {
		users[i].Password = ""
	}

	return UserPage{
		Users:       users,
		TotalPages:  int(math.Ceil(float64(total) / float64(perPage))),
		CurrentPage: page,
		TotalUsers:  total,
	}, nil
}

type UserDetails struct {
	domain.User
	TotalProducts *int64   `json:"total_products,omitempty"`
	TotalSales    *float64 `json:"total_sales,omitempty"`
	TotalOrders   *int64   `json:"total_orders,omitempty"`
	TotalSpent    *float64 `json:"total_spent,omitempty"`
}

// UserDetails enriches one user with role-dependent aggregates: sales
// figures for farmers, purchase figures for everyone else.
func (s *AdminService) UserDetails(ctx context.Context, id uint) (UserDetails, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return UserDetails{}, err
	}
	user.Password = ""

	details := UserDetails{User: user}

	if user.UserType == domain.UserTypeFarmer {
		products, err := s.statsRepo.CountProductsBySeller(ctx, id)
		if err != nil {
			return UserDetails{}, err
		}
		sales, err := s.statsRepo.SumSalesBySeller(ctx, id)
		if err != nil {
			return UserDetails{}, err
		}
		details.TotalProducts = &products
		details.TotalSales = &sales
		return details, nil
	}

	orders, err := s.statsRepo.CountOrdersByBuyer(ctx, id)
	if err != nil {
		return UserDetails{}, err
	}
	spent, err := s.statsRepo.SumSpentByBuyer(ctx, id)
	if err != nil {
		return UserDetails{}, err
	}
	details.TotalOrders = &orders
	details.TotalSpent = &spent

	return details, nil
}

type ProductPage struct {
	Products      []domain.Product `json:"products"`
	TotalPages    int              `json:"total_pages"`
	CurrentPage   int              `json:"current_page"`
	TotalProducts int64            `json:"total_products"`
}

func (s *AdminService) PendingProducts(ctx context.Context, page, perPage int) (ProductPage, error) {
	products, total, err := s.productRepo.FindPendingPage(ctx, page, perPage)
	if err != nil {
		return ProductPage{}, err
	}

	return ProductPage{
		Products:      products,
		TotalPages:    int(math.Ceil(float64(total) / float64(perPage))),
		CurrentPage:   page,
		TotalProducts: total,
	}, nil
}

// ValidateProduct clears a product for public listing. Re-validating an
// already cleared product is rejected.
func (s *AdminService) ValidateProduct(ctx context.Context, productID uint) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}

	if product.ValidatedByAdmin {
		return domain.Product{}, errors.New("product already validated")
	}

	now := time.Now().UTC()
	if err := s.productRepo.Validate(ctx, productID, now); err != nil {
		return domain.Product{}, err
	}

	return s.productRepo.FindByID(ctx, productID)
}
