package entity

import (
	"strings"
	"time"

	domainerrors "basket/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UsageType controls how often one user may redeem a promotion.
type UsageType string

const (
	// UsageGeneral places no per-user limit.
	UsageGeneral UsageType = "general"
	// UsageSingle allows one redemption per user ever.
	UsageSingle UsageType = "single-use"
	// UsageMulti allows up to MaxUsesPerUser redemptions per user.
	UsageMulti UsageType = "multi-use"
)

// IsValid checks if the usage type is a known value.
func (u UsageType) IsValid() bool {
	switch u {
	case UsageGeneral, UsageSingle, UsageMulti:
		return true
	default:
		return false
	}
}

// Reasons a promotion cannot be applied.
const (
	ReasonInactive         = "inactive"
	ReasonNotStarted       = "not_started"
	ReasonExpired          = "expired"
	ReasonBelowMinimum     = "below_minimum_order_value"
	ReasonGlobalCapReached = "usage_limit_reached"
	ReasonUserCapReached   = "user_usage_limit_reached"
)

// PromotionUsage counts the redemptions of one user.
type PromotionUsage struct {
	UserID     uuid.UUID
	Count      int
	LastUsedAt time.Time
}

// Promotion is an order-level discount redeemed with a code.
type Promotion struct {
	ID                uuid.UUID                    // The Global Unique Identifier (GUID) for the promotion.
	Code              string                       // Unique, upper-case.
	Name              string                       // Display name.
	Description       string                       // Free text.
	Discount          DiscountRule                 // Percentage or fixed; ExpiresAt is unused.
	MinOrderValue     decimal.Decimal              // Compared with the promotion-eligible total.
	MaxDiscountAmount *decimal.Decimal             // Cap for percentage promotions.
	ValidFrom         time.Time                    // Start of the redemption window.
	ValidTo           *time.Time                   // Optional end of the redemption window.
	UsageType         UsageType                    // Per-user redemption policy.
	MaxUsesPerUser    *int                         // Limit for multi-use promotions.
	MaxTotalUses      *int                         // Optional global cap.
	UsedCount         int                          // Global redemption counter.
	Usage             map[uuid.UUID]PromotionUsage // Per-user redemption records.
	IsActive          bool                         // Admin switch.
	CreatedBy         uuid.UUID                    // Admin who created it.
	CreatedAt         time.Time                    // Timestamp of when the promotion was created.
	UpdatedAt         time.Time                    // Timestamp of the last modification.
}

// NormalizeCode upper-cases and trims a promotion code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the fields an admin supplies.
func (p *Promotion) Validate() error {
	if p.Code == "" || strings.TrimSpace(p.Name) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("code and name are required")
	}
	if !p.Discount.Valid() {
		return domainerrors.ErrInvalidDiscountRule
	}
	if p.Discount.Kind == DiscountPercentage && p.Discount.Magnitude.GreaterThan(hundred) {
		return domainerrors.ErrInvalidDiscountRule.WithDetails("percentage cannot exceed 100")
	}
	if !p.UsageType.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown usage type")
	}
	if p.MinOrderValue.IsNegative() {
		return domainerrors.ErrValidationFailed.WithDetails("minimum order value cannot be negative")
	}
	if p.ValidTo != nil && p.ValidTo.Before(p.ValidFrom) {
		return domainerrors.ErrInvalidPromotionWindow
	}

	return nil
}

// UsesBy returns how often userID redeemed the promotion.
func (p *Promotion) UsesBy(userID uuid.UUID) int {
	return p.Usage[userID].Count
}

// PerUserLimit returns the per-user redemption cap, if any.
func (p *Promotion) PerUserLimit() (int, bool) {
	switch p.UsageType {
	case UsageSingle:
		return 1, true
	case UsageMulti:
		if p.MaxUsesPerUser != nil {
			return *p.MaxUsesPerUser, true
		}
	}

	return 0, false
}

// IneligibilityReason returns why userID cannot redeem the promotion for an
// order whose promotion-eligible total is eligibleTotal, or "" when it can.
func (p *Promotion) IneligibilityReason(userID uuid.UUID, eligibleTotal decimal.Decimal, now time.Time) string {
	switch {
	case !p.IsActive:
		return ReasonInactive
	case p.ValidFrom.After(now):
		return ReasonNotStarted
	case p.ValidTo != nil && p.ValidTo.Before(now):
		return ReasonExpired
	case p.MinOrderValue.GreaterThan(eligibleTotal):
		return ReasonBelowMinimum
	case p.MaxTotalUses != nil && p.UsedCount >= *p.MaxTotalUses:
		return ReasonGlobalCapReached
	}

	if limit, ok := p.PerUserLimit(); ok && p.UsesBy(userID) >= limit {
		return ReasonUserCapReached
	}

	return ""
}

// EligibleFor reports whether userID can redeem the promotion.
func (p *Promotion) EligibleFor(userID uuid.UUID, eligibleTotal decimal.Decimal, now time.Time) bool {
	return p.IneligibilityReason(userID, eligibleTotal, now) == ""
}

// DiscountFor computes the order-level discount for eligibleTotal.
// Percentage discounts honor MaxDiscountAmount; fixed discounts are flat and uncapped.
func (p *Promotion) DiscountFor(eligibleTotal decimal.Decimal) decimal.Decimal {
	if !p.Discount.Valid() {
		return decimal.Zero
	}

	switch p.Discount.Kind {
	case DiscountPercentage:
		amount := NonNegative(eligibleTotal).Mul(p.Discount.Magnitude).Div(hundred)
		if p.MaxDiscountAmount != nil && amount.GreaterThan(*p.MaxDiscountAmount) {
			amount = *p.MaxDiscountAmount
		}

		return RoundMoney(amount)
	case DiscountFixed:
		return RoundMoney(p.Discount.Magnitude)
	default:
		return decimal.Zero
	}
}

// RecordUse increments the global and per-user counters in memory.
func (p *Promotion) RecordUse(userID uuid.UUID, now time.Time) {
	if p.Usage == nil {
		p.Usage = make(map[uuid.UUID]PromotionUsage)
	}

	usage := p.Usage[userID]
	usage.UserID = userID
	usage.Count++
	usage.LastUsedAt = now
	p.Usage[userID] = usage
	p.UsedCount++
}

// Clone returns a deep copy.
func (p *Promotion) Clone() *Promotion {
	cloned := *p
	cloned.Discount = *p.Discount.Clone()
	cloned.Usage = make(map[uuid.UUID]PromotionUsage, len(p.Usage))
	for userID, usage := range p.Usage {
		cloned.Usage[userID] = usage
	}

	return &cloned
}
