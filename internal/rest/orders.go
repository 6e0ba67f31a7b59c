package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"eswika/domain"
	"eswika/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		Create(ctx context.Context, buyerID, productID uint, quantity int, peelingRequested bool, deliveryAddress string) (domain.Orders, error)
		ListForUser(ctx context.Context, userID uint) ([]domain.Orders, error)
		UpdateStatus(ctx context.Context, userID, orderID uint, status string) error
		Cancel(ctx context.Context, userID, orderID uint) error
	}

	OrdersInput struct {
		ProductID        uint   `json:"product_id" validate:"required"`
		Quantity         int    `json:"quantity" validate:"required,gt=0"`
		PeelingRequested bool   `json:"peeling_requested"`
		DeliveryAddress  string `json:"delivery_address" validate:"required"`
	}

	OrderStatusInput struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       10 * time.Second,
	}
}

// CreateOrder places a direct order for one product, bypassing the cart.
func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request OrdersInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate order request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.Create(ctx, userID, request.ProductID, request.Quantity, request.PeelingRequested, request.DeliveryAddress)
	if err != nil {
		logger.Error("Failed to create order", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(order))
}

// GetAllOrders lists sales for farmers and purchases for everyone else.
func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to get all orders", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

// UpdateOrderStatus lets the selling farmer move an order through the
// fulfilment statuses.
func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid order id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order ID"})
	}

	var request OrderStatusInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate order status request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ordersService.UpdateStatus(ctx, userID, uint(orderID), request.Status); err != nil {
		logger.Error("Failed to update order status", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Order updated successfully"))
}

// CancelOrder deletes a buyer's order and releases its stock.
func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid order id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.ordersService.Cancel(ctx, userID, uint(orderID)); err != nil {
		logger.Error("Failed to cancel order", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Order cancelled successfully"))
}
