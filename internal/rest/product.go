package rest

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eswika/business/product"
	"eswika/domain"
	"eswika/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pobyzaarif/goshortcute"
)

type ProductService interface {
	ListPublic(ctx context.Context) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error)
	GetByID(ctx context.Context, id uint) (domain.Product, error)
	Create(ctx context.Context, sellerID uint, userType string, input product.CreateInput, imageData []byte) (domain.Product, error)
	Update(ctx context.Context, sellerID, productID uint, update domain.ProductUpdate) (domain.Product, error)
	Delete(ctx context.Context, sellerID, productID uint) error
}

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type CreateProductRequest struct {
	Name             string  `form:"name" validate:"required"`
	Description      string  `form:"description"`
	Price            float64 `form:"price" validate:"required,gt=0"`
	Quantity         int     `form:"quantity" validate:"required,gte=0"`
	Unit             string  `form:"unit" validate:"required"`
	PeelingAvailable bool    `form:"peeling_available"`
	PeelingPrice     float64 `form:"peeling_price" validate:"gte=0"`
}

// ProductResponse carries the stored image back as base64 so listings
// stay plain JSON.
type ProductResponse struct {
	domain.Product
	ImageData string `json:"image_data,omitempty"`
}

func toProductResponse(p domain.Product) ProductResponse {
	res := ProductResponse{Product: p}
	if len(p.ProductImage) > 0 {
		res.ImageData = goshortcute.StringtoBase64Encode(string(p.ProductImage))
	}
	return res
}

func toProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	return responses
}

func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListPublic(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get all products",
		"products": toProductResponses(products),
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	productIdStr := c.Param("id")

	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.GetByID(ctx, uint(productId))
	if err != nil {
		logger.Error("Failed to find product by id", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": toProductResponse(p),
	})
}

// GetMyProducts lists the calling farmer's own products, validated or not.
func (h *ProductHandler) GetMyProducts(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListBySeller(ctx, userID)
	if err != nil {
		logger.Error("Failed to find seller products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get seller products",
		"products": toProductResponses(products),
	})
}

// CreateProduct accepts multipart form data, the product fields plus an
// optional product_image file.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	userID := c.Get("user_id").(uint)
	role, _ := c.Get("role").(string)

	var req CreateProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var imageData []byte
	if fileHeader, err := c.FormFile("product_image"); err == nil {
		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "product_image must be an image"})
		}

		src, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded image", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		defer src.Close()

		imageData, err = io.ReadAll(src)
		if err != nil {
			logger.Error("Failed to read uploaded image", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.Create(ctx, userID, role, product.CreateInput{
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		PeelingAvailable: req.PeelingAvailable,
		PeelingPrice:     req.PeelingPrice,
	}, imageData)
	if err != nil {
		logger.Error("Failed to create product", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product created, pending validation",
		"product": toProductResponse(p),
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	productIdStr := c.Param("id")
	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var update domain.ProductUpdate
	if err := c.Bind(&update); err != nil {
		logger.Error("Failed to bind request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.Update(ctx, userID, uint(productId), update)
	if err != nil {
		logger.Error("Failed to update product", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": toProductResponse(p),
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	productIdStr := c.Param("id")
	productId, err := strconv.ParseUint(productIdStr, 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.Delete(ctx, userID, uint(productId)); err != nil {
		logger.Error("Failed to delete product", err)
		return c.JSON(statusForError(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}
