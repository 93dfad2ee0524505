package repository

import (
	"context"

	"basket/internal/domain/entity"
	"basket/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for category persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategoryName is returned when a name is already taken.
	ErrDuplicateCategoryName = errors.New("category name already exists")
)

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	// Create persists a new category. Returns ErrDuplicateCategoryName on a name clash.
	Create(ctx context.Context, category *entity.Category) error

	// Update overwrites name, image, description and status.
	Update(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// List retrieves categories ordered by name, only active ones when onlyActive is set.
	List(ctx context.Context, onlyActive bool) ([]*entity.Category, error)
}
