package repository

import (
	"context"

	"basket/internal/domain/entity"
	"basket/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStatusConflict is returned when the stored status no longer matches the expected one.
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID *uuid.UUID          // Restrict to one customer.
	Status *entity.OrderStatus // Restrict to one status.
	Limit  int
	Offset int
}

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// Create persists a new order with its line and promotion snapshots.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List retrieves orders matching filter, most recent first.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)

	// UpdateStatus writes the status, cancellation reason, payment status and UpdatedAt of
	// order, provided the stored status still equals from.
	UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus) error
}
