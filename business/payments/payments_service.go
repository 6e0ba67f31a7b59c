package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eswika/business/checkout"
	"eswika/domain"
	"eswika/pkg/logger"
	"eswika/pkg/metrics"

	"gorm.io/gorm"
)

// PaymentsRepository contract interface
type PaymentsRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *domain.Payments) error
	FindByID(ctx context.Context, id uint) (domain.Payments, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status string) error
}

// CartRepository contract interface
type CartRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]domain.Cart, error)
}

// OrdersRepository contract interface
type OrdersRepository interface {
	FlipAwaitingPayment(ctx context.Context, tx *gorm.DB, buyerID uint) error
}

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, message string) (err error)
}

const (
	subjectOrderConfirmed   = "Your Eswika order is confirmed"
	emailBodyOrderConfirmed = "Hello %v, your payment of %.2f was accepted (reference %v). Your orders are on their way."
)

type PaymentsService struct {
	db          *gorm.DB
	paymentRepo PaymentsRepository
	cartRepo    CartRepository
	orderRepo   OrdersRepository
	userRepo    UserRepository
	notifRepo   NotificationRepository
	converter   *checkout.Converter
}

func NewPaymentsService(
	db *gorm.DB,
	paymentRepo PaymentsRepository,
	cartRepo CartRepository,
	orderRepo OrdersRepository,
	userRepo UserRepository,
	notifRepo NotificationRepository,
	converter *checkout.Converter,
) *PaymentsService {
	return &PaymentsService{
		db:          db,
		paymentRepo: paymentRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		converter:   converter,
	}
}

// PaymentReceipt is returned to the client after a successful payment.
type PaymentReceipt struct {
	PaymentID     uint    `json:"payment_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	OrderIDs      []uint  `json:"order_ids"`
}

// ProcessPayment runs the payment state machine for one cart: validate
// the method, charge (mock), then persist the Payment and convert the
// cart to orders in a single transaction. A processor failure creates no
// records at all.
func (s *PaymentsService) ProcessPayment(ctx context.Context, userID uint, req PaymentRequest) (PaymentReceipt, error) {
	started := time.Now()

	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues(req.Method, "rejected").Inc()
		return PaymentReceipt{}, err
	}

	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return PaymentReceipt{}, err
	}
	if len(lines) == 0 {
		return PaymentReceipt{}, domain.ErrEmptyCart
	}

	var amount float64
	for _, line := range lines {
		amount += line.TotalPrice
	}

	result, err := processors[method].process(req)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues(method, domain.PaymentStatusFailed).Inc()
		return PaymentReceipt{}, err
	}

	orderStatus := domain.OrderStatusPending
	if result.Status == domain.PaymentStatusAwaitingDelivery {
		orderStatus = domain.OrderStatusAwaitingPayment
	}

	payment := domain.Payments{
		UserID:        userID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentStatus: result.Status,
		TransactionID: &result.TransactionID,
	}

	var orders []domain.Orders
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.Create(ctx, tx, &payment); err != nil {
			return err
		}

		orders, err = s.converter.Convert(ctx, tx, userID, req.DeliveryAddress, orderStatus)
		return err
	})
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrEmptyCart) {
			return PaymentReceipt{}, err
		}
		logger.Error("Payment transaction rolled back", err)
		return PaymentReceipt{}, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}

	metrics.CheckoutTotal.WithLabelValues("ok").Inc()
	metrics.CheckoutDuration.Observe(time.Since(started).Seconds())
	metrics.PaymentsTotal.WithLabelValues(method, result.Status).Inc()

	s.sendConfirmation(ctx, userID, payment)

	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	return PaymentReceipt{
		PaymentID:     payment.ID,
		TransactionID: result.TransactionID,
		Amount:        amount,
		Status:        payment.PaymentStatus,
		OrderIDs:      orderIDs,
	}, nil
}

func (s *PaymentsService) sendConfirmation(ctx context.Context, userID uint, payment domain.Payments) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("Failed to load user for confirmation email", err)
		return
	}

	txRef := ""
	if payment.TransactionID != nil {
		txRef = *payment.TransactionID
	}

	body := fmt.Sprintf(emailBodyOrderConfirmed, user.Name, payment.Amount, txRef)
	if err := s.notifRepo.SendEmail(user.Name, user.Email, subjectOrderConfirmed, body); err != nil {
		logger.Warn("Failed to send confirmation email", err)
	}
}

// GetPaymentStatus is an owner-only read of one payment.
func (s *PaymentsService) GetPaymentStatus(ctx context.Context, userID, paymentID uint) (domain.Payments, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return domain.Payments{}, err
	}

	if payment.UserID != userID {
		return domain.Payments{}, domain.ErrNotAuthorized
	}

	return payment, nil
}

// ConfirmDelivery completes a cash-on-delivery payment. Only payments of
// that method, currently awaiting delivery, may transition; the buyer's
// awaiting_payment orders flip to pending in the same transaction.
func (s *PaymentsService) ConfirmDelivery(ctx context.Context, userID, paymentID uint) error {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return err
	}

	if payment.UserID != userID {
		return domain.ErrNotAuthorized
	}

	if payment.PaymentMethod != domain.PaymentMethodCashOnDelivery {
		return domain.ErrInvalidPaymentState
	}
	if payment.PaymentStatus != domain.PaymentStatusAwaitingDelivery {
		return domain.ErrInvalidPaymentState
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, domain.PaymentStatusCompleted); err != nil {
			return err
		}

		return s.orderRepo.FlipAwaitingPayment(ctx, tx, payment.UserID)
	})
}
