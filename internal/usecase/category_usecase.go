package usecase

import (
	"context"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
)

// CategoryInput defines the fields an admin supplies for a category.
type CategoryInput struct {
	Name        string
	Image       string
	Description string
}

// CategoryUsecase covers category browsing and the admin category back-office.
type CategoryUsecase interface {
	// List lists categories by name; inactive ones only when includeInactive is set.
	List(ctx context.Context, includeInactive bool) ([]*entity.Category, error)

	Create(ctx context.Context, input CategoryInput) (*entity.Category, error)
	Update(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*entity.Category, error)
	SetActive(ctx context.Context, categoryID uuid.UUID, active bool) (*entity.Category, error)
}
