package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind discriminates DiscountRule.
type DiscountKind string

const (
	// DiscountPercentage takes magnitude percent off the base price.
	DiscountPercentage DiscountKind = "percentage"
	// DiscountFixed takes a flat magnitude off the base price.
	DiscountFixed DiscountKind = "fixed"
)

// IsValid checks if the kind is a known value.
func (k DiscountKind) IsValid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

// DiscountRule is a percentage or fixed reduction with an optional expiry.
// Build it with NewPercentageDiscount, NewFixedDiscount or ParseDiscountRule;
// a rule that fails Valid is treated as no discount everywhere.
type DiscountRule struct {
	Kind      DiscountKind
	Magnitude decimal.Decimal
	ExpiresAt *time.Time
}

// NewPercentageDiscount builds a percentage rule.
func NewPercentageDiscount(percent decimal.Decimal, expiresAt *time.Time) *DiscountRule {
	return &DiscountRule{Kind: DiscountPercentage, Magnitude: percent, ExpiresAt: expiresAt}
}

// NewFixedDiscount builds a flat amount rule.
func NewFixedDiscount(amount decimal.Decimal, expiresAt *time.Time) *DiscountRule {
	return &DiscountRule{Kind: DiscountFixed, Magnitude: amount, ExpiresAt: expiresAt}
}

// ParseDiscountRule builds a rule from loosely typed input. Unknown kinds and
// NaN, infinite or negative magnitudes yield nil, meaning no discount.
func ParseDiscountRule(kind string, magnitude float64, expiresAt *time.Time) *DiscountRule {
	m, ok := MoneyFromFloat(magnitude)
	if !ok {
		return nil
	}

	rule := &DiscountRule{Kind: DiscountKind(kind), Magnitude: m, ExpiresAt: expiresAt}
	if !rule.Valid() {
		return nil
	}

	return rule
}

// Valid reports whether the rule has a known kind and a non-negative magnitude.
func (r *DiscountRule) Valid() bool {
	return r != nil && r.Kind.IsValid() && !r.Magnitude.IsNegative()
}

// ActiveAt reports whether the rule applies at now.
func (r *DiscountRule) ActiveAt(now time.Time) bool {
	if !r.Valid() {
		return false
	}

	return r.ExpiresAt == nil || r.ExpiresAt.After(now)
}

// Clone returns a deep copy, nil-safe.
func (r *DiscountRule) Clone() *DiscountRule {
	if r == nil {
		return nil
	}

	cloned := *r
	if r.ExpiresAt != nil {
		expiresAt := *r.ExpiresAt
		cloned.ExpiresAt = &expiresAt
	}

	return &cloned
}

// EffectivePrice applies rule to basePrice at now. The result is never
// negative, never above basePrice, and rounded to two places from basePrice.
func EffectivePrice(basePrice decimal.Decimal, rule *DiscountRule, now time.Time) decimal.Decimal {
	base := NonNegative(basePrice)
	if !rule.ActiveAt(now) {
		return RoundMoney(base)
	}

	var price decimal.Decimal
	switch rule.Kind {
	case DiscountPercentage:
		price = base.Mul(decimal.NewFromInt(1).Sub(rule.Magnitude.Div(hundred)))
	case DiscountFixed:
		price = base.Sub(rule.Magnitude)
	}

	return RoundMoney(NonNegative(price))
}
