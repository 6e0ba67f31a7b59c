package checkout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"eswika/domain"
	psqlRepo "eswika/internal/repository/postgres"
	"eswika/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

func seedCartLine(t *testing.T, db *gorm.DB, userID, productID uint, quantity int, totalPrice float64) domain.Cart {
	t.Helper()

	line := domain.Cart{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
	}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("failed to seed cart line: %v", err)
	}

	return line
}

func TestConvertEmptyCart(t *testing.T) {
	db := newTestDB(t)
	converter := NewConverter(psqlRepo.NewCartRepository(db), psqlRepo.NewOrdersRepository(db))

	_, err := converter.Convert(context.Background(), db, 1, "12 Market Street", domain.OrderStatusPending)
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestConvertCreatesOneOrderPerLine(t *testing.T) {
	db := newTestDB(t)
	converter := NewConverter(psqlRepo.NewCartRepository(db), psqlRepo.NewOrdersRepository(db))

	seedCartLine(t, db, 1, 10, 2, 5.0)
	seedCartLine(t, db, 1, 11, 3, 9.0)
	seedCartLine(t, db, 2, 10, 1, 2.5) // other user, must stay

	var orders []domain.Orders
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		orders, err = converter.Convert(context.Background(), tx, 1, "12 Market Street", domain.OrderStatusPending)
		return err
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, order := range orders {
		if order.BuyerID != 1 {
			t.Errorf("expected buyer 1, got %d", order.BuyerID)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status pending, got %q", order.Status)
		}
		if order.DeliveryAddress != "12 Market Street" {
			t.Errorf("unexpected delivery address %q", order.DeliveryAddress)
		}
	}

	// converted lines are deleted, the other user's cart is untouched
	var remaining int64
	if err := db.Model(&domain.Cart{}).Where("user_id = ?", 1).Count(&remaining).Error; err != nil {
		t.Fatalf("failed to count cart lines: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected empty cart for user 1, got %d lines", remaining)
	}

	if err := db.Model(&domain.Cart{}).Where("user_id = ?", 2).Count(&remaining).Error; err != nil {
		t.Fatalf("failed to count cart lines: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("expected user 2 cart untouched, got %d lines", remaining)
	}
}

func TestConvertCopiesLineValues(t *testing.T) {
	db := newTestDB(t)
	converter := NewConverter(psqlRepo.NewCartRepository(db), psqlRepo.NewOrdersRepository(db))

	seedCartLine(t, db, 7, 42, 5, 12.5)

	var orders []domain.Orders
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		orders, err = converter.Convert(context.Background(), tx, 7, "3 Rue des Halles", domain.OrderStatusAwaitingPayment)
		return err
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	order := orders[0]
	if order.ProductID != 42 || order.Quantity != 5 || order.TotalPrice != 12.5 {
		t.Fatalf("order does not mirror cart line: %+v", order)
	}
	if order.Status != domain.OrderStatusAwaitingPayment {
		t.Fatalf("expected status awaiting_payment, got %q", order.Status)
	}
}

// failingOrdersRepo fails on the nth create to force a mid-loop abort.
type failingOrdersRepo struct {
	inner   *psqlRepo.OrdersRepository
	calls   int
	failOn  int
	failErr error
}

func (f *failingOrdersRepo) Create(ctx context.Context, tx *gorm.DB, order *domain.Orders) error {
	f.calls++
	if f.calls == f.failOn {
		return f.failErr
	}
	return f.inner.Create(ctx, tx, order)
}

func TestConvertRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	ordersRepo := &failingOrdersRepo{
		inner:   psqlRepo.NewOrdersRepository(db),
		failOn:  2,
		failErr: errors.New("insert failed"),
	}
	converter := NewConverter(psqlRepo.NewCartRepository(db), ordersRepo)

	seedCartLine(t, db, 1, 10, 2, 5.0)
	seedCartLine(t, db, 1, 11, 3, 9.0)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := converter.Convert(context.Background(), tx, 1, "12 Market Street", domain.OrderStatusPending)
		return err
	})
	if err == nil {
		t.Fatal("expected transaction to fail")
	}

	// nothing committed: no orders, cart intact
	var orderCount int64
	if err := db.Model(&domain.Orders{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders after rollback, got %d", orderCount)
	}

	var cartCount int64
	if err := db.Model(&domain.Cart{}).Where("user_id = ?", 1).Count(&cartCount).Error; err != nil {
		t.Fatalf("failed to count cart lines: %v", err)
	}
	if cartCount != 2 {
		t.Fatalf("expected cart intact after rollback, got %d lines", cartCount)
	}
}
