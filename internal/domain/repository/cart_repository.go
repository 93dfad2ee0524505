package repository

import (
	"context"

	"basket/internal/domain/entity"
	"basket/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a user has no cart.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartVersionConflict is returned when the stored cart changed since it was loaded.
	ErrCartVersionConflict = errors.New("cart was modified concurrently")
	// ErrCartAlreadyExists is returned when creating a second cart for a user.
	ErrCartAlreadyExists = errors.New("cart already exists")
)

// CartRepository defines the interface for cart persistence. Lines are stored with the cart
// and always written as a whole.
type CartRepository interface {
	// Create persists a new, usually empty, cart.
	Create(ctx context.Context, cart *entity.Cart) error

	// FindByUserID retrieves the cart owned by userID together with its lines.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// Save replaces the cart and its lines if the stored version still equals cart.Version,
	// then increments cart.Version. It returns ErrCartVersionConflict otherwise.
	Save(ctx context.Context, cart *entity.Cart) error
}
