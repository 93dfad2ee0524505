package usecase

import (
	"context"
	"time"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountInput is the loosely typed discount an admin submits.
type DiscountInput struct {
	Kind      string
	Value     float64
	ExpiresAt *time.Time
}

// ProductInput defines the fields of a product an admin creates or updates.
type ProductInput struct {
	Name                string
	Description         string
	CategoryID          *uuid.UUID
	Unit                string
	Brand               string
	BasePrice           decimal.Decimal
	Stock               int
	IsAvailable         bool
	IsPromotionEligible bool
	Discount            *DiscountInput
}

// ListProductsInput filters product listings.
type ListProductsInput struct {
	CategoryID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

// ProductView is a product with its live price resolved.
type ProductView struct {
	Product         *entity.Product
	DiscountedPrice decimal.Decimal
	HasDiscount     bool
}

// ProductUsecase covers the public catalog and the admin product back-office.
type ProductUsecase interface {
	// ListAvailable lists products that are for sale, outside inactive categories,
	// with their discounted price.
	ListAvailable(ctx context.Context, input ListProductsInput) ([]ProductView, error)
	Get(ctx context.Context, productID uuid.UUID) (*ProductView, error)

	Create(ctx context.Context, input ProductInput) (*entity.Product, error)
	Update(ctx context.Context, productID uuid.UUID, input ProductInput) (*entity.Product, error)
	SetAvailability(ctx context.Context, productID uuid.UUID, available bool) (*entity.Product, error)
	SetPromotionEligibility(ctx context.Context, productID uuid.UUID, eligible bool) (*entity.Product, error)
	// List lists every product, for sale or not.
	List(ctx context.Context, input ListProductsInput) ([]ProductView, error)
}
