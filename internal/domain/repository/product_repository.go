// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"basket/internal/domain/entity"
	"basket/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrStockNotDecremented is returned when a conditional stock decrement matched no row,
	// either because the product is gone or because stock is below the requested quantity.
	ErrStockNotDecremented = errors.New("stock not decremented")
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	OnlyAvailable        bool       // Restrict to products that are for sale.
	ActiveCategoriesOnly bool       // Drop products whose category is inactive.
	CategoryID           *uuid.UUID // Restrict to one category, nil for all.
	Search               string     // Case-insensitive substring of the name.
	Limit                int
	Offset               int
}

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update overwrites the mutable fields of an existing product, price history included.
	Update(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a product by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindByIDs retrieves every product whose ID is in ids. Missing IDs are simply absent
	// from the result; callers detect orphaned cart lines from the gap.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Product, error)

	// List retrieves products matching filter, newest first.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// DecrementStock atomically lowers stock by quantity if and only if stock >= quantity.
	// It returns ErrStockNotDecremented when no row matched the guard.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
