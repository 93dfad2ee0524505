package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. The cart engine reads price, stock, discount and
// eligibility from it; order placement decrements its stock.
type Product struct {
	ID                  uuid.UUID       // The Global Unique Identifier (GUID) for the product.
	Name                string          // Display name, copied onto order lines.
	Description         string          // Free text.
	CategoryID          *uuid.UUID      // Browsing category, nil when uncategorized.
	Unit                string          // Selling unit, e.g. "kg", "pack".
	Brand               string          // Brand name.
	BasePrice           decimal.Decimal // Undiscounted unit price, never negative.
	Stock               int             // Units on hand, never negative.
	IsAvailable         bool            // Whether the product may be added to carts.
	IsPromotionEligible bool            // Whether lines count toward promotion totals.
	Discount            *DiscountRule   // Optional product-level discount.
	PriceHistory        []PricePoint    // Base price changes, oldest first.
	CreatedAt           time.Time       // Timestamp of when the product was created.
	UpdatedAt           time.Time       // Timestamp of the last modification.
}

// PricePoint records a base price and when it took effect.
type PricePoint struct {
	Price     decimal.Decimal `json:"price"`
	ChangedAt time.Time       `json:"changed_at"`
}

// EffectivePrice is the live unit price including any active discount.
func (p *Product) EffectivePrice(now time.Time) decimal.Decimal {
	return EffectivePrice(p.BasePrice, p.Discount, now)
}

// HasActiveDiscount reports whether a discount currently lowers the price.
func (p *Product) HasActiveDiscount(now time.Time) bool {
	return p.Discount.ActiveAt(now) && p.EffectivePrice(now).LessThan(RoundMoney(p.BasePrice))
}

// ActiveDiscount returns a copy of the discount if it applies at now.
func (p *Product) ActiveDiscount(now time.Time) *DiscountRule {
	if !p.Discount.ActiveAt(now) {
		return nil
	}

	return p.Discount.Clone()
}

// ChangeBasePrice sets a new base price and appends to the history when it differs.
func (p *Product) ChangeBasePrice(price decimal.Decimal, now time.Time) bool {
	price = RoundMoney(price)
	if price.Equal(p.BasePrice) && len(p.PriceHistory) > 0 {
		return false
	}

	p.BasePrice = price
	p.PriceHistory = append(p.PriceHistory, PricePoint{Price: price, ChangedAt: now})

	return true
}

// ProductsByID indexes products for reconciliation lookups.
type ProductsByID map[uuid.UUID]*Product

// IndexProducts builds a ProductsByID from a slice.
func IndexProducts(products []*Product) ProductsByID {
	index := make(ProductsByID, len(products))
	for _, p := range products {
		index[p.ID] = p
	}

	return index
}
