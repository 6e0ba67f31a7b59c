package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"eswika/business/payments"
	"eswika/domain"
	"eswika/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PaymentsHandler struct {
		validate        *validator.Validate
		paymentsService PaymentsService
		timeout         time.Duration
	}

	PaymentsService interface {
		ProcessPayment(ctx context.Context, userID uint, req payments.PaymentRequest) (payments.PaymentReceipt, error)
		GetPaymentStatus(ctx context.Context, userID, paymentID uint) (domain.Payments, error)
		ConfirmDelivery(ctx context.Context, userID, paymentID uint) error
	}

	ProcessPaymentInput struct {
		PaymentMethod   string `json:"payment_method" validate:"required"`
		CardNumber      string `json:"card_number"`
		ExpiryMonth     string `json:"expiry_month"`
		ExpiryYear      string `json:"expiry_year"`
		CVV             string `json:"cvv"`
		PaypalToken     string `json:"paypal_token"`
		DeliveryAddress string `json:"delivery_address" validate:"required"`
	}
)

func NewPaymentsHandler(paymentsService PaymentsService) *PaymentsHandler {
	return &PaymentsHandler{
		validate:        validator.New(),
		paymentsService: paymentsService,
		timeout:         10 * time.Second,
	}
}

// ProcessPayment charges the cart and converts it to orders in one step.
func (h *PaymentsHandler) ProcessPayment(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request ProcessPaymentInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate payment request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	receipt, err := h.paymentsService.ProcessPayment(ctx, userID, payments.PaymentRequest{
		Method:          request.PaymentMethod,
		CardNumber:      request.CardNumber,
		ExpiryMonth:     request.ExpiryMonth,
		ExpiryYear:      request.ExpiryYear,
		CVV:             request.CVV,
		PaypalToken:     request.PaypalToken,
		DeliveryAddress: request.DeliveryAddress,
	})
	if err != nil {
		logger.Error("Failed to process payment", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(receipt))
}

func (h *PaymentsHandler) GetPaymentStatus(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid payment id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid payment ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	payment, err := h.paymentsService.GetPaymentStatus(ctx, userID, uint(paymentID))
	if err != nil {
		logger.Error("Failed to get payment status", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(payment))
}

// ConfirmDelivery settles a cash on delivery payment once the buyer has
// the goods in hand.
func (h *PaymentsHandler) ConfirmDelivery(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid payment id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid payment ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.paymentsService.ConfirmDelivery(ctx, userID, uint(paymentID)); err != nil {
		logger.Error("Failed to confirm delivery", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Your payment was successfull!"))
}
