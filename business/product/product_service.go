package product

import (
	"context"
	"errors"

	"eswika/domain"
	"eswika/pkg/imaging"
	"eswika/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindValidated(ctx context.Context) ([]domain.Product, error)
	FindBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error)
	Update(ctx context.Context, id uint, update domain.ProductUpdate) error
	Delete(ctx context.Context, id uint) error
}

const maxImageSizeKB = 500

type CreateInput struct {
	Name             string
	Description      string
	Price            float64
	Quantity         int
	Unit             string
	PeelingAvailable bool
	PeelingPrice     float64
}

type ProductService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// ListPublic returns only products cleared by admin moderation.
func (s *ProductService) ListPublic(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.FindValidated(ctx)
}

// ListBySeller returns a farmer's own products, moderated or not.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uint) ([]domain.Product, error) {
	return s.productRepo.FindBySeller(ctx, sellerID)
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create registers a farmer's product, pending moderation. The uploaded
// image is recompressed before storage.
func (s *ProductService) Create(ctx context.Context, sellerID uint, userType string, input CreateInput, imageData []byte) (domain.Product, error) {
	if userType != domain.UserTypeFarmer {
		return domain.Product{}, domain.ErrNotAuthorized
	}

	if input.Price <= 0 {
		return domain.Product{}, errors.New("price must be positive")
	}
	if input.Quantity < 0 {
		return domain.Product{}, errors.New("quantity cannot be negative")
	}
	if input.Unit == "" {
		return domain.Product{}, errors.New("unit is required")
	}

	var compressed []byte
	if len(imageData) > 0 {
		var err error
		compressed, err = imaging.Compress(imageData, maxImageSizeKB)
		if err != nil {
			logger.Error("Failed to compress product image", err)
			return domain.Product{}, errors.New("invalid product image")
		}
	}

	product := domain.Product{
		Name:             input.Name,
		Description:      input.Description,
		Price:            input.Price,
		Quantity:         input.Quantity,
		Unit:             input.Unit,
		SellerID:         sellerID,
		PeelingAvailable: input.PeelingAvailable,
		PeelingPrice:     input.PeelingPrice,
		ProductImage:     compressed,
		ValidatedByAdmin: false,
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		logger.Error("Failed to create product", err)
		return domain.Product{}, err
	}

	return product, nil
}

// Update applies the allow-listed field changes, seller only.
func (s *ProductService) Update(ctx context.Context, sellerID, productID uint, update domain.ProductUpdate) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if product.SellerID != sellerID {
		return domain.Product{}, domain.ErrNotAuthorized
	}

	if update.Price != nil && *update.Price <= 0 {
		return domain.Product{}, errors.New("price must be positive")
	}
	if update.Quantity != nil && *update.Quantity < 0 {
		return domain.Product{}, errors.New("quantity cannot be negative")
	}

	if err := s.productRepo.Update(ctx, productID, update); err != nil {
		logger.Error("Failed to update product", err)
		return domain.Product{}, err
	}

	return s.productRepo.FindByID(ctx, productID)
}

func (s *ProductService) Delete(ctx context.Context, sellerID, productID uint) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return domain.ErrNotAuthorized
	}

	return s.productRepo.Delete(ctx, productID)
}
