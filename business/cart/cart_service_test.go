package cart

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"eswika/business/checkout"
	"eswika/business/inventory"
	"eswika/domain"
	psqlRepo "eswika/internal/repository/postgres"
	"eswika/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*CartService, *gorm.DB) {
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

	cartRepo := psqlRepo.NewCartRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	inv := inventory.NewService(productRepo)
	converter := checkout.NewConverter(cartRepo, ordersRepo)

	return NewCartService(db, cartRepo, productRepo, inv, converter), db
}

func seedProduct(t *testing.T, db *gorm.DB, price float64, quantity int) domain.Product {
	t.Helper()

	product := domain.Product{
		Name:     "Potatoes",
		Price:    price,
		Quantity: quantity,
		Unit:     "kg",
		SellerID: 1,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return product
}

func productQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var product domain.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}

	return product.Quantity
}

func cartLines(t *testing.T, db *gorm.DB, userID uint) []domain.Cart {
	t.Helper()

	var lines []domain.Cart
	if err := db.Where("user_id = ?", userID).Find(&lines).Error; err != nil {
		t.Fatalf("failed to load cart lines: %v", err)
	}

	return lines
}

func TestAddReservesStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 10)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, product.ID, 3); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if got := productQuantity(t, db, product.ID); got != 7 {
		t.Fatalf("expected quantity 7 after reservation, got %d", got)
	}

	lines := cartLines(t, db, 5)
	if len(lines) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 || lines[0].TotalPrice != 6.0 {
		t.Fatalf("unexpected cart line: %+v", lines[0])
	}
}

func TestAddMergesExistingLine(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 10)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, product.ID, 3); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := svc.Add(ctx, 5, product.ID, 2); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	lines := cartLines(t, db, 5)
	if len(lines) != 1 {
		t.Fatalf("expected merged cart line, got %d lines", len(lines))
	}
	if lines[0].Quantity != 5 || lines[0].TotalPrice != 10.0 {
		t.Fatalf("unexpected merged line: %+v", lines[0])
	}

	if got := productQuantity(t, db, product.ID); got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
}

func TestAddInsufficientStockLeavesCartEmpty(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 2)
	ctx := context.Background()

	err := svc.Add(ctx, 5, product.ID, 3)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if got := productQuantity(t, db, product.ID); got != 2 {
		t.Fatalf("expected stock untouched, got %d", got)
	}
	if lines := cartLines(t, db, 5); len(lines) != 0 {
		t.Fatalf("expected no cart lines, got %d", len(lines))
	}
}

func TestAddDrainsStockToZero(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 4)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, product.ID, 4); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got := productQuantity(t, db, product.ID); got != 0 {
		t.Fatalf("expected quantity 0, got %d", got)
	}

	// another buyer cannot reserve from empty stock
	if err := svc.Add(ctx, 6, product.ID, 1); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestUpdateQuantityAdjustsStockByDelta(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 10)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, product.ID, 3); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	line := cartLines(t, db, 5)[0]

	if err := svc.UpdateQuantity(ctx, 5, line.ID, 5); err != nil {
		t.Fatalf("UpdateQuantity up failed: %v", err)
	}
	if got := productQuantity(t, db, product.ID); got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}

	if err := svc.UpdateQuantity(ctx, 5, line.ID, 1); err != nil {
		t.Fatalf("UpdateQuantity down failed: %v", err)
	}
	if got := productQuantity(t, db, product.ID); got != 9 {
		t.Fatalf("expected quantity 9, got %d", got)
	}

	updated := cartLines(t, db, 5)[0]
	if updated.Quantity != 1 || updated.TotalPrice != 2.0 {
		t.Fatalf("unexpected line after update: %+v", updated)
	}
}

func TestUpdateQuantityOtherUsersLine(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 10)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, product.ID, 3); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	line := cartLines(t, db, 5)[0]

	if err := svc.UpdateQuantity(ctx, 6, line.ID, 1); !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestRemoveReleasesStock(t *testing.T) {
	svc, db := newTestService(t)
	product := seedProduct(t, db, 2.0, 10)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, product.ID, 4); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	line := cartLines(t, db, 5)[0]

	if err := svc.Remove(ctx, 5, line.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if got := productQuantity(t, db, product.ID); got != 10 {
		t.Fatalf("expected full stock restored, got %d", got)
	}
	if lines := cartLines(t, db, 5); len(lines) != 0 {
		t.Fatalf("expected cart empty, got %d lines", len(lines))
	}
}

func TestCheckoutConvertsCartToOrders(t *testing.T) {
	svc, db := newTestService(t)
	first := seedProduct(t, db, 2.0, 10)
	second := seedProduct(t, db, 3.0, 10)
	ctx := context.Background()

	if err := svc.Add(ctx, 5, first.ID, 2); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := svc.Add(ctx, 5, second.ID, 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	orders, err := svc.Checkout(ctx, 5, "12 Market Street")
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	// stock was reserved at add time, checkout must not touch it again
	if got := productQuantity(t, db, first.ID); got != 8 {
		t.Fatalf("expected quantity 8, got %d", got)
	}
	if got := productQuantity(t, db, second.ID); got != 9 {
		t.Fatalf("expected quantity 9, got %d", got)
	}

	if lines := cartLines(t, db, 5); len(lines) != 0 {
		t.Fatalf("expected cart cleared, got %d lines", len(lines))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), 5, "12 Market Street")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}
