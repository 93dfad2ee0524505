package entity

import (
	"time"

	domainerrors "basket/internal/domain/errors"
)

// OrderStatus is a state of the order lifecycle.
type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPacked    OrderStatus = "packed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// happy path order; cancelled sits outside it
var statusRank = map[OrderStatus]int{
	OrderPlaced:    0,
	OrderConfirmed: 1,
	OrderPacked:    2,
	OrderShipped:   3,
	OrderDelivered: 4,
}

// IsValid checks if the status is a known value.
func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]

	return ok || s == OrderCancelled
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo allows forward moves along the happy path, skipping states
// included, and cancellation from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.IsValid() || s.IsTerminal() || s == next {
		return false
	}
	if next == OrderCancelled {
		return true
	}

	return statusRank[next] > statusRank[s]
}

// TransitionTo moves the order to next.
func (o *Order) TransitionTo(next OrderStatus, reason string, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return domainerrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": string(o.Status),
			"to":   string(next),
		})
	}

	o.Status = next
	if next == OrderCancelled {
		o.CancellationReason = reason
	}
	if next == OrderDelivered && o.Payment.Method == PaymentCOD {
		o.Payment.Status = PaymentCompleted
	}
	o.UpdatedAt = now

	return nil
}
