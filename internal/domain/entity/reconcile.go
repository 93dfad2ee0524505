package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineIssueKind names a way a cart line disagrees with its live product.
type LineIssueKind string

const (
	IssuePriceChanged      LineIssueKind = "price_changed"
	IssueInsufficientStock LineIssueKind = "insufficient_stock"
	IssueProductMissing    LineIssueKind = "product_missing"
	IssueUnavailable       LineIssueKind = "product_unavailable"
)

// LineIssue describes one drift found by Reconcile.
type LineIssue struct {
	LineID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Kind        LineIssueKind
	Available   int             // insufficient_stock only
	Requested   int             // insufficient_stock only
	OldPrice    decimal.Decimal // price_changed only
	NewPrice    decimal.Decimal // price_changed only
}

// ReconcileResult is the outcome of comparing a cart with live products.
type ReconcileResult struct {
	Cart    *Cart
	Issues  []LineIssue
	Changed bool // a persisted drift flag flipped; the cart should be saved
}

// OrphanedLines lists lines whose product no longer exists.
func (r ReconcileResult) OrphanedLines() []uuid.UUID {
	var ids []uuid.UUID
	for _, issue := range r.Issues {
		if issue.Kind == IssueProductMissing {
			ids = append(ids, issue.LineID)
		}
	}

	return ids
}

// HasIssues reports whether anything blocks checkout.
func (r ReconcileResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// Reconcile flags price and stock drift on every line of cart against
// products, then recomputes the aggregates from the stored prices. Stored
// prices are never overwritten here; the customer accepts changes explicitly.
func Reconcile(cart *Cart, products ProductsByID, now time.Time) ReconcileResult {
	result := ReconcileResult{Cart: cart}

	for _, line := range cart.Lines {
		product, ok := products[line.ProductID]
		if !ok {
			line.Orphaned = true
			result.Issues = append(result.Issues, LineIssue{
				LineID:    line.ID,
				ProductID: line.ProductID,
				Kind:      IssueProductMissing,
			})

			continue
		}
		line.Orphaned = false

		live := product.EffectivePrice(now)
		priceDrift := PricesDiffer(live, line.CurrentPrice)
		stockDrift := line.Quantity > product.Stock

		if priceDrift != line.PriceDrift || stockDrift != line.StockDrift {
			result.Changed = true
		}
		line.PriceDrift = priceDrift
		line.StockDrift = stockDrift

		if stockDrift {
			result.Issues = append(result.Issues, LineIssue{
				LineID:      line.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Kind:        IssueInsufficientStock,
				Available:   product.Stock,
				Requested:   line.Quantity,
			})
		}
		if priceDrift {
			result.Issues = append(result.Issues, LineIssue{
				LineID:      line.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Kind:        IssuePriceChanged,
				OldPrice:    line.CurrentPrice,
				NewPrice:    live,
			})
		}
		if !product.IsAvailable {
			result.Issues = append(result.Issues, LineIssue{
				LineID:      line.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Kind:        IssueUnavailable,
			})
		}
	}

	cart.Recalculate()
	cart.LastReconciledAt = &now

	return result
}

// PromoEligibleTotal sums CurrentPrice × Quantity over lines whose product
// allows promotions. Orphaned lines and lines on ineligible products are skipped.
func PromoEligibleTotal(cart *Cart, products ProductsByID) decimal.Decimal {
	total := decimal.Zero
	for _, line := range cart.Lines {
		product, ok := products[line.ProductID]
		if !ok || line.Orphaned || !product.IsPromotionEligible {
			continue
		}
		total = total.Add(LineAmount(line.CurrentPrice, line.Quantity))
	}

	return RoundMoney(total)
}
