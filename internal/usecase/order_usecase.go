package usecase

import (
	"context"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
)

// PlaceOrderInput carries the checkout form. Either AddressID or DeliveryAddress
// names where to deliver.
type PlaceOrderInput struct {
	AddressID       *uuid.UUID
	DeliveryAddress *entity.DeliveryAddress
	PaymentMethod   entity.PaymentMethod
	PromoCode       string
}

// ListOrdersInput filters order listings.
type ListOrdersInput struct {
	Status *entity.OrderStatus
	Limit  int
	Offset int
}

// UpdateOrderStatusInput moves an order along its lifecycle.
type UpdateOrderStatusInput struct {
	Status entity.OrderStatus
	Reason string
}

// OrderUsecase covers checkout and the order lifecycle.
type OrderUsecase interface {
	// PlaceOrder converts the customer's cart into an order.
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*entity.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, input ListOrdersInput) ([]*entity.Order, error)
	// GenerateDeliveryQR renders the doorstep QR code of an order owned by userID.
	GenerateDeliveryQR(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error)

	ListAll(ctx context.Context, input ListOrdersInput) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateOrderStatusInput) (*entity.Order, error)

	// ConfirmDelivery marks the order named by a scanned QR payload as delivered.
	ConfirmDelivery(ctx context.Context, qrPayload string) (*entity.Order, error)
}
