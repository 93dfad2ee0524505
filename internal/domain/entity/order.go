package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
)

// IsValid checks if the method is a known value.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCOD, PaymentCard, PaymentUPI, PaymentNetBanking:
		return true
	default:
		return false
	}
}

// PaymentStatus tracks the recorded outcome of a payment. No gateway is called.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// InitialPaymentStatus is pending for cash on delivery and completed otherwise.
func InitialPaymentStatus(method PaymentMethod) PaymentStatus {
	if method == PaymentCOD {
		return PaymentPending
	}

	return PaymentCompleted
}

// Payment is the payment record of an order.
type Payment struct {
	Method        PaymentMethod
	Status        PaymentStatus
	TransactionID string
}

// OrderLine is an immutable snapshot of a cart line at checkout.
type OrderLine struct {
	ProductID       uuid.UUID
	Name            string
	Quantity        int
	PriceAtPurchase decimal.Decimal // Discount-inclusive unit price.
	DiscountApplied *DiscountRule
}

// AppliedPromotion records the promotion redeemed by an order.
type AppliedPromotion struct {
	PromotionID    uuid.UUID
	Code           string
	Name           string
	DiscountKind   DiscountKind
	DiscountValue  decimal.Decimal
	DiscountAmount decimal.Decimal
}

// Order is a placed order. Only Status, CancellationReason, Payment.Status
// and UpdatedAt change after creation.
type Order struct {
	ID                 uuid.UUID          // The Global Unique Identifier (GUID) for the order.
	OrderNumber        string             // Human-facing unique number, e.g. ORD-20260101-0A1B2C3D4E5F.
	UserID             uuid.UUID          // Customer who placed the order.
	Lines              []OrderLine        // Snapshot of the cart lines.
	Subtotal           decimal.Decimal    // Cart subtotal at checkout.
	ProductDiscounts   decimal.Decimal    // Cart discounts at checkout.
	AppliedPromotions  []AppliedPromotion // At most one entry.
	DeliveryFee        decimal.Decimal    // Zero above the free delivery threshold.
	Total              decimal.Decimal    // Never negative.
	Payment            Payment            // Recorded payment.
	DeliveryAddress    DeliveryAddress    // Snapshot, not a live reference.
	Status             OrderStatus        // Lifecycle state.
	CancellationReason string             // Set when cancelled.
	PlacedAt           time.Time          // Immutable.
	UpdatedAt          time.Time          // Timestamp of the last status change.
}

// PromotionDiscount sums the discount amounts of applied promotions.
func (o *Order) PromotionDiscount() decimal.Decimal {
	sum := decimal.Zero
	for _, promo := range o.AppliedPromotions {
		sum = sum.Add(promo.DiscountAmount)
	}

	return sum
}

// OrderTotal is subtotal − productDiscounts − promoDiscount + deliveryFee,
// floored at zero and rounded to two places.
func OrderTotal(subtotal, productDiscounts, promoDiscount, deliveryFee decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(productDiscounts).Sub(promoDiscount).Add(deliveryFee)

	return RoundMoney(NonNegative(total))
}

// DeliveryPolicy decides the delivery fee from the cart subtotal.
type DeliveryPolicy struct {
	FreeThreshold decimal.Decimal // Subtotals at or above this ship free.
	Fee           decimal.Decimal // Charged below the threshold.
}

// DefaultDeliveryPolicy is free delivery from 500, otherwise 50.
func DefaultDeliveryPolicy() DeliveryPolicy {
	return DeliveryPolicy{
		FreeThreshold: decimal.NewFromInt(500),
		Fee:           decimal.NewFromInt(50),
	}
}

// FeeFor returns the delivery fee for subtotal.
func (p DeliveryPolicy) FeeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}

	return RoundMoney(p.Fee)
}
