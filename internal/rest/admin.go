package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"eswika/business/admin"
	"eswika/domain"
	"eswika/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AdminService interface {
	Login(ctx context.Context, email, password string) (string, domain.Admin, error)
	Statistics(ctx context.Context) (admin.Statistics, error)
	ListUsers(ctx context.Context, userType string, page, perPage int) (admin.UserPage, error)
	UserDetails(ctx context.Context, id uint) (admin.UserDetails, error)
	PendingProducts(ctx context.Context, page, perPage int) (admin.ProductPage, error)
	ValidateProduct(ctx context.Context, productID uint) (domain.Product, error)
}

type AdminHandler struct {
	adminService AdminService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewAdminHandler(adminService AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func pageParams(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate admin login", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, adminUser, err := h.adminService.Login(ctx, req.Email, req.Password)
	if err != nil {
		logger.Error("Failed to login admin", err)
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"admin":   adminUser,
	})
}

func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.adminService.Statistics(ctx)
	if err != nil {
		logger.Error("Failed to get statistics", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}

func (h *AdminHandler) GetUsers(c echo.Context) error {
	page, perPage := pageParams(c)
	userType := c.QueryParam("user_type")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.adminService.ListUsers(ctx, userType, page, perPage)
	if err != nil {
		logger.Error("Failed to list users", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(users))
}

func (h *AdminHandler) GetUserDetails(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid user id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	details, err := h.adminService.UserDetails(ctx, uint(userID))
	if err != nil {
		logger.Error("Failed to get user details", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(details))
}

func (h *AdminHandler) GetPendingProducts(c echo.Context) error {
	page, perPage := pageParams(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.adminService.PendingProducts(ctx, page, perPage)
	if err != nil {
		logger.Error("Failed to list pending products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *AdminHandler) ValidateProduct(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.adminService.ValidateProduct(ctx, uint(productID))
	if err != nil {
		logger.Error("Failed to validate product", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(toProductResponse(product)))
}
