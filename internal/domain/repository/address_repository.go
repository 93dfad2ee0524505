package repository

import (
	"context"

	"basket/internal/domain/entity"
	"basket/internal/errors"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address is not found.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the interface for address-related database operations.
type AddressRepository interface {
	// Create persists a new address.
	Create(ctx context.Context, address *entity.Address) error

	// FindByID retrieves an address by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// ListByUser retrieves every address of a user, default first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// Update overwrites the fields of an address owned by address.UserID.
	Update(ctx context.Context, address *entity.Address) error

	// Delete removes an address owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// SetDefault marks id as the only default address of userID.
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
}
