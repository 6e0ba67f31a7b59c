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
	CartHandler struct {
		validate    *validator.Validate
		cartService CartService
		timeout     time.Duration
	}

	CartService interface {
		List(ctx context.Context, userID uint) ([]domain.CartLineView, error)
		Add(ctx context.Context, userID, productID uint, quantity int) error
		UpdateQuantity(ctx context.Context, userID, lineID uint, quantity int) error
		Remove(ctx context.Context, userID, lineID uint) error
		Checkout(ctx context.Context, userID uint, deliveryAddress string) ([]domain.Orders, error)
	}

	CartAddInput struct {
		ProductID uint `json:"product_id" validate:"required"`
		Quantity  int  `json:"quantity" validate:"required,gt=0"`
	}

	CartUpdateInput struct {
		Quantity int `json:"quantity" validate:"required,gt=0"`
	}

	CartCheckoutInput struct {
		DeliveryAddress string `json:"delivery_address" validate:"required"`
	}
)

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		validate:    validator.New(),
		cartService: cartService,
		timeout:     10 * time.Second,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	lines, err := h.cartService.List(ctx, userID)
	if err != nil {
		logger.Error("Failed to get cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(lines))
}

// AddToCart reserves stock for the requested quantity; the line only
// appears in the cart when the reservation succeeds.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request CartAddInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate cart add request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.Add(ctx, userID, request.ProductID, request.Quantity); err != nil {
		logger.Error("Failed to add to cart", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("Product added to cart"))
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid cart item id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cart item ID"})
	}

	var request CartUpdateInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate cart update request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.UpdateQuantity(ctx, userID, uint(lineID), request.Quantity); err != nil {
		logger.Error("Failed to update cart item", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Cart item updated"))
}

func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	lineID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid cart item id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cart item ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.Remove(ctx, userID, uint(lineID)); err != nil {
		logger.Error("Failed to remove cart item", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Cart item removed"))
}

// Checkout converts every cart line into an order without touching
// stock, quantities were already reserved when the lines were added.
func (h *CartHandler) Checkout(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	var request CartCheckoutInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate checkout request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.cartService.Checkout(ctx, userID, request.DeliveryAddress)
	if err != nil {
		logger.Error("Failed to checkout cart", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(orders))
}
