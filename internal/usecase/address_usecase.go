package usecase

import (
	"context"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
)

// AddAddressInput defines a new saved address.
type AddAddressInput struct {
	Label      entity.AddressLabel
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// UpdateAddressInput carries a partial address edit. Nil fields keep their
// stored value; IsDefault true makes the address the only default.
type UpdateAddressInput struct {
	Label      *entity.AddressLabel
	Street     *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
	IsDefault  *bool
}

// AddressUsecase manages the saved delivery addresses of a customer.
type AddressUsecase interface {
	Add(ctx context.Context, userID uuid.UUID, input AddAddressInput) (*entity.Address, error)
	List(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input UpdateAddressInput) (*entity.Address, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}
