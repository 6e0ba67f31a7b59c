package payments

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"eswika/business/checkout"
	"eswika/domain"
	psqlRepo "eswika/internal/repository/postgres"
	"eswika/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type noopNotifier struct {
	sent int
}

func (n *noopNotifier) SendEmail(toName, toEmail, subject, message string) error {
	n.sent++
	return nil
}

func newTestService(t *testing.T) (*PaymentsService, *gorm.DB, *noopNotifier) {
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
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	paymentsRepo := psqlRepo.NewPaymentsRepository(db)
	userRepo := psqlRepo.NewUserRepository(db)
	converter := checkout.NewConverter(cartRepo, ordersRepo)
	notifier := &noopNotifier{}

	svc := NewPaymentsService(db, paymentsRepo, cartRepo, ordersRepo, userRepo, notifier, converter)
	return svc, db, notifier
}

func seedBuyerWithCart(t *testing.T, db *gorm.DB) domain.User {
	t.Helper()

	buyer := domain.User{
		Email:    "buyer@example.com",
		Password: "hashed",
		UserType: domain.UserTypeCustomer,
		Name:     "Awa",
	}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("failed to seed buyer: %v", err)
	}

	lines := []domain.Cart{
		{UserID: buyer.ID, ProductID: 10, Quantity: 2, TotalPrice: 5.0},
		{UserID: buyer.ID, ProductID: 11, Quantity: 1, TotalPrice: 3.5},
	}
	if err := db.Create(&lines).Error; err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}

	return buyer
}

func creditCardRequest() PaymentRequest {
	return PaymentRequest{
		Method:          domain.PaymentMethodCreditCard,
		CardNumber:      "4111111111111111",
		ExpiryMonth:     "09",
		ExpiryYear:      "2028",
		CVV:             "123",
		DeliveryAddress: "12 Market Street",
	}
}

func TestProcessPaymentCreditCard(t *testing.T) {
	svc, db, notifier := newTestService(t)
	buyer := seedBuyerWithCart(t, db)

	receipt, err := svc.ProcessPayment(context.Background(), buyer.ID, creditCardRequest())
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	if receipt.Amount != 8.5 {
		t.Errorf("expected amount 8.5, got %v", receipt.Amount)
	}
	if receipt.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected status completed, got %q", receipt.Status)
	}
	if !strings.HasPrefix(receipt.TransactionID, "CC-") {
		t.Errorf("expected CC- transaction reference, got %q", receipt.TransactionID)
	}
	if len(receipt.OrderIDs) != 2 {
		t.Errorf("expected 2 order ids, got %d", len(receipt.OrderIDs))
	}

	var orders []domain.Orders
	if err := db.Where("buyer_id = ?", buyer.ID).Find(&orders).Error; err != nil {
		t.Fatalf("failed to load orders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected pending order, got %q", order.Status)
		}
	}

	var cartCount int64
	if err := db.Model(&domain.Cart{}).Where("user_id = ?", buyer.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("failed to count cart: %v", err)
	}
	if cartCount != 0 {
		t.Errorf("expected cart cleared, got %d lines", cartCount)
	}

	if notifier.sent != 1 {
		t.Errorf("expected 1 confirmation email, got %d", notifier.sent)
	}
}

func TestProcessPaymentPaypal(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)

	receipt, err := svc.ProcessPayment(context.Background(), buyer.ID, PaymentRequest{
		Method:          domain.PaymentMethodPaypal,
		PaypalToken:     "tok_123",
		DeliveryAddress: "12 Market Street",
	})
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	if !strings.HasPrefix(receipt.TransactionID, "PP-") {
		t.Errorf("expected PP- transaction reference, got %q", receipt.TransactionID)
	}
	if receipt.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected status completed, got %q", receipt.Status)
	}
}

func TestProcessPaymentMissingCardFields(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)

	req := creditCardRequest()
	req.CVV = ""

	_, err := svc.ProcessPayment(context.Background(), buyer.ID, req)
	if !errors.Is(err, domain.ErrMissingPaymentFields) {
		t.Fatalf("expected ErrMissingPaymentFields, got %v", err)
	}

	// rejected payment must leave no records behind
	var paymentCount, orderCount, cartCount int64
	db.Model(&domain.Payments{}).Count(&paymentCount)
	db.Model(&domain.Orders{}).Count(&orderCount)
	db.Model(&domain.Cart{}).Where("user_id = ?", buyer.ID).Count(&cartCount)

	if paymentCount != 0 || orderCount != 0 {
		t.Fatalf("expected no payment/order records, got %d payments %d orders", paymentCount, orderCount)
	}
	if cartCount != 2 {
		t.Fatalf("expected cart intact, got %d lines", cartCount)
	}
}

func TestProcessPaymentMissingPaypalToken(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)

	_, err := svc.ProcessPayment(context.Background(), buyer.ID, PaymentRequest{
		Method:          domain.PaymentMethodPaypal,
		DeliveryAddress: "12 Market Street",
	})
	if !errors.Is(err, domain.ErrMissingPaymentFields) {
		t.Fatalf("expected ErrMissingPaymentFields, got %v", err)
	}
}

func TestProcessPaymentUnknownMethod(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)

	_, err := svc.ProcessPayment(context.Background(), buyer.ID, PaymentRequest{
		Method:          "bitcoin",
		DeliveryAddress: "12 Market Street",
	})
	if !errors.Is(err, domain.ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestProcessPaymentEmptyCart(t *testing.T) {
	svc, db, _ := newTestService(t)

	buyer := domain.User{Email: "empty@example.com", Password: "x", UserType: domain.UserTypeCustomer, Name: "Empty"}
	if err := db.Create(&buyer).Error; err != nil {
		t.Fatalf("failed to seed buyer: %v", err)
	}

	_, err := svc.ProcessPayment(context.Background(), buyer.ID, creditCardRequest())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestProcessPaymentCashOnDelivery(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)

	receipt, err := svc.ProcessPayment(context.Background(), buyer.ID, PaymentRequest{
		Method:          domain.PaymentMethodCashOnDelivery,
		DeliveryAddress: "12 Market Street",
	})
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	if receipt.Status != domain.PaymentStatusAwaitingDelivery {
		t.Errorf("expected status awaiting_delivery, got %q", receipt.Status)
	}
	if !strings.HasPrefix(receipt.TransactionID, "COD-") {
		t.Errorf("expected COD- transaction reference, got %q", receipt.TransactionID)
	}

	var orders []domain.Orders
	if err := db.Where("buyer_id = ?", buyer.ID).Find(&orders).Error; err != nil {
		t.Fatalf("failed to load orders: %v", err)
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusAwaitingPayment {
			t.Errorf("expected awaiting_payment order, got %q", order.Status)
		}
	}
}

func TestConfirmDelivery(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)
	ctx := context.Background()

	receipt, err := svc.ProcessPayment(ctx, buyer.ID, PaymentRequest{
		Method:          domain.PaymentMethodCashOnDelivery,
		DeliveryAddress: "12 Market Street",
	})
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	if err := svc.ConfirmDelivery(ctx, buyer.ID, receipt.PaymentID); err != nil {
		t.Fatalf("ConfirmDelivery failed: %v", err)
	}

	payment, err := svc.GetPaymentStatus(ctx, buyer.ID, receipt.PaymentID)
	if err != nil {
		t.Fatalf("GetPaymentStatus failed: %v", err)
	}
	if payment.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %q", payment.PaymentStatus)
	}

	var orders []domain.Orders
	if err := db.Where("buyer_id = ?", buyer.ID).Find(&orders).Error; err != nil {
		t.Fatalf("failed to load orders: %v", err)
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected order flipped to pending, got %q", order.Status)
		}
	}
}

func TestConfirmDeliveryTwice(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)
	ctx := context.Background()

	receipt, err := svc.ProcessPayment(ctx, buyer.ID, PaymentRequest{
		Method:          domain.PaymentMethodCashOnDelivery,
		DeliveryAddress: "12 Market Street",
	})
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	if err := svc.ConfirmDelivery(ctx, buyer.ID, receipt.PaymentID); err != nil {
		t.Fatalf("first ConfirmDelivery failed: %v", err)
	}

	err = svc.ConfirmDelivery(ctx, buyer.ID, receipt.PaymentID)
	if !errors.Is(err, domain.ErrInvalidPaymentState) {
		t.Fatalf("expected ErrInvalidPaymentState on second confirm, got %v", err)
	}
}

func TestConfirmDeliveryWrongMethod(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)
	ctx := context.Background()

	receipt, err := svc.ProcessPayment(ctx, buyer.ID, creditCardRequest())
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	err = svc.ConfirmDelivery(ctx, buyer.ID, receipt.PaymentID)
	if !errors.Is(err, domain.ErrInvalidPaymentState) {
		t.Fatalf("expected ErrInvalidPaymentState for card payment, got %v", err)
	}
}

func TestConfirmDeliveryWrongOwner(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)
	ctx := context.Background()

	receipt, err := svc.ProcessPayment(ctx, buyer.ID, PaymentRequest{
		Method:          domain.PaymentMethodCashOnDelivery,
		DeliveryAddress: "12 Market Street",
	})
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	err = svc.ConfirmDelivery(ctx, buyer.ID+1, receipt.PaymentID)
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestGetPaymentStatusWrongOwner(t *testing.T) {
	svc, db, _ := newTestService(t)
	buyer := seedBuyerWithCart(t, db)
	ctx := context.Background()

	receipt, err := svc.ProcessPayment(ctx, buyer.ID, creditCardRequest())
	if err != nil {
		t.Fatalf("ProcessPayment failed: %v", err)
	}

	_, err = svc.GetPaymentStatus(ctx, buyer.ID+1, receipt.PaymentID)
	if !errors.Is(err, domain.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}
