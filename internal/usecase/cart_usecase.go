package usecase

import (
	"context"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
)

// AddLineInput adds a product to the cart.
type AddLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CartView is a reconciled cart together with what reconciliation found.
type CartView struct {
	Cart          *entity.Cart
	Products      entity.ProductsByID
	Issues        []entity.LineIssue
	OrphanedLines []uuid.UUID
}

// CartUsecase defines the cart operations of a customer. Every operation
// works on the single cart owned by userID.
type CartUsecase interface {
	// GetCart loads and reconciles the cart, persisting changed drift flags.
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddLine(ctx context.Context, userID uuid.UUID, input AddLineInput) (*CartView, error)
	UpdateLine(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*CartView, error)
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error)
	AcceptPrice(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error)
	AcceptStock(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error)
	AcceptAll(ctx context.Context, userID, lineID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartView, error)
	// Validate reports stock and price issues without changing stored prices.
	Validate(ctx context.Context, userID uuid.UUID) (*CartView, error)
}
