package entity

import (
	"slices"
	"time"

	domainerrors "basket/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMaxLineQuantity caps the quantity of a single cart line.
const DefaultMaxLineQuantity = 100

// CartLine is one product-quantity entry in a cart.
type CartLine struct {
	ID              uuid.UUID       // Line identifier used by the mutation API.
	ProductID       uuid.UUID       // At most one line per product.
	Quantity        int             // 1..max line quantity.
	PriceAtAddition decimal.Decimal // Unit price accepted by the customer.
	CurrentPrice    decimal.Decimal // Last-accepted discounted unit price.
	DiscountApplied *DiscountRule   // Discount snapshot taken with the price, or nil.
	PriceDrift      bool            // Live price differs from CurrentPrice.
	StockDrift      bool            // Quantity exceeds live stock.
	Orphaned        bool            // Product no longer exists; set by Reconcile, not persisted.
	AddedAt         time.Time       // When the line was first created.
}

// Cart is the single shopping cart of a user.
type Cart struct {
	ID               uuid.UUID       // The Global Unique Identifier (GUID) for the cart.
	UserID           uuid.UUID       // Owner; one cart per user.
	Lines            []*CartLine     // Unordered, unique per product.
	Subtotal         decimal.Decimal // Σ PriceAtAddition × Quantity.
	Total            decimal.Decimal // Σ CurrentPrice × Quantity.
	Discounts        decimal.Decimal // Subtotal − Total.
	LastReconciledAt *time.Time      // Last time the cart was compared with live products.
	Version          int64           // Optimistic concurrency counter, bumped on every save.
	CreatedAt        time.Time       // Timestamp of when the cart was created.
	UpdatedAt        time.Time       // Timestamp of the last modification.
}

// NewCart returns an empty cart for userID.
func NewCart(id, userID uuid.UUID, now time.Time) *Cart {
	return &Cart{
		ID:        id,
		UserID:    userID,
		Lines:     []*CartLine{},
		Subtotal:  decimal.Zero,
		Total:     decimal.Zero,
		Discounts: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line finds a line by id.
func (c *Cart) Line(lineID uuid.UUID) (*CartLine, bool) {
	for _, line := range c.Lines {
		if line.ID == lineID {
			return line, true
		}
	}

	return nil, false
}

// LineForProduct finds the line referencing productID.
func (c *Cart) LineForProduct(productID uuid.UUID) (*CartLine, bool) {
	for _, line := range c.Lines {
		if line.ProductID == productID {
			return line, true
		}
	}

	return nil, false
}

// ProductIDs lists the distinct products referenced by the cart.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.ProductID)
	}

	return ids
}

// Recalculate recomputes the aggregates from the line set. Orphaned lines
// are excluded. Sums are rounded once, after summation.
func (c *Cart) Recalculate() {
	subtotal := decimal.Zero
	total := decimal.Zero
	for _, line := range c.Lines {
		if line.Orphaned {
			continue
		}
		subtotal = subtotal.Add(LineAmount(line.PriceAtAddition, line.Quantity))
		total = total.Add(LineAmount(line.CurrentPrice, line.Quantity))
	}

	c.Subtotal = RoundMoney(subtotal)
	c.Total = RoundMoney(total)
	c.Discounts = c.Subtotal.Sub(c.Total)
}

// Add puts quantity units of product into the cart. An existing line for the
// product is incremented and re-priced from the live product.
func (c *Cart) Add(product *Product, quantity, maxQuantity int, lineID uuid.UUID, now time.Time) (*CartLine, error) {
	if quantity < 1 {
		return nil, domainerrors.ErrInvalidQuantity
	}
	if quantity > maxQuantity {
		return nil, domainerrors.ErrQuantityLimitExceeded
	}
	if product == nil {
		return nil, domainerrors.ErrProductNotFound
	}
	if !product.IsAvailable {
		return nil, domainerrors.ErrProductUnavailable
	}

	line, exists := c.LineForProduct(product.ID)
	if exists {
		if line.Quantity+quantity > maxQuantity {
			return nil, domainerrors.ErrQuantityLimitExceeded.WithDetails(map[string]int{
				"current":   line.Quantity,
				"requested": quantity,
				"limit":     maxQuantity,
			})
		}
		line.Quantity += quantity
	} else {
		line = &CartLine{
			ID:        lineID,
			ProductID: product.ID,
			Quantity:  quantity,
			AddedAt:   now,
		}
		c.Lines = append(c.Lines, line)
	}

	line.Orphaned = false
	repriceLine(line, product, now)
	line.StockDrift = line.Quantity > product.Stock
	c.touch(now)

	return line, nil
}

// UpdateQuantity sets the quantity of a line without touching its prices.
func (c *Cart) UpdateQuantity(lineID uuid.UUID, quantity, maxQuantity int, now time.Time) (*CartLine, error) {
	if quantity < 1 || quantity > maxQuantity {
		return nil, domainerrors.ErrInvalidQuantity.WithDetails(map[string]int{
			"requested": quantity,
			"limit":     maxQuantity,
		})
	}

	line, ok := c.Line(lineID)
	if !ok {
		return nil, domainerrors.ErrLineNotFound
	}

	line.Quantity = quantity
	c.touch(now)

	return line, nil
}

// Remove deletes a line. Orphaned lines can always be removed.
func (c *Cart) Remove(lineID uuid.UUID, now time.Time) error {
	idx := slices.IndexFunc(c.Lines, func(line *CartLine) bool { return line.ID == lineID })
	if idx < 0 {
		return domainerrors.ErrLineNotFound
	}

	c.Lines = slices.Delete(c.Lines, idx, idx+1)
	c.touch(now)

	return nil
}

// AcceptPrice adopts the live price of the line's product as its new baseline.
func (c *Cart) AcceptPrice(lineID uuid.UUID, product *Product, now time.Time) error {
	line, err := c.acceptTarget(lineID, product)
	if err != nil {
		return err
	}

	repriceLine(line, product, now)
	c.touch(now)

	return nil
}

// AcceptStock clamps the line to live stock, removing it when stock is zero.
func (c *Cart) AcceptStock(lineID uuid.UUID, product *Product, now time.Time) error {
	line, err := c.acceptTarget(lineID, product)
	if err != nil {
		return err
	}

	c.clampToStock(line, product)
	c.touch(now)

	return nil
}

// AcceptAll applies AcceptPrice and AcceptStock together. Both preconditions
// are checked before either change is applied.
func (c *Cart) AcceptAll(lineID uuid.UUID, product *Product, now time.Time) error {
	line, err := c.acceptTarget(lineID, product)
	if err != nil {
		return err
	}

	repriceLine(line, product, now)
	c.clampToStock(line, product)
	c.touch(now)

	return nil
}

// Clear empties the cart.
func (c *Cart) Clear(now time.Time) {
	c.Lines = []*CartLine{}
	c.touch(now)
}

// HasPriceDrift reports whether any line carries an unaccepted price change.
func (c *Cart) HasPriceDrift() bool {
	return slices.ContainsFunc(c.Lines, func(line *CartLine) bool { return line.PriceDrift })
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	cloned := *c
	cloned.Lines = make([]*CartLine, len(c.Lines))
	for i, line := range c.Lines {
		l := *line
		l.DiscountApplied = line.DiscountApplied.Clone()
		cloned.Lines[i] = &l
	}
	if c.LastReconciledAt != nil {
		at := *c.LastReconciledAt
		cloned.LastReconciledAt = &at
	}

	return &cloned
}

func (c *Cart) acceptTarget(lineID uuid.UUID, product *Product) (*CartLine, error) {
	line, ok := c.Line(lineID)
	if !ok {
		return nil, domainerrors.ErrLineNotFound
	}
	if product == nil || product.ID != line.ProductID {
		return nil, domainerrors.ErrInvalidProductReference
	}

	return line, nil
}

func (c *Cart) clampToStock(line *CartLine, product *Product) {
	if product.Stock <= 0 {
		c.Lines = slices.DeleteFunc(c.Lines, func(l *CartLine) bool { return l.ID == line.ID })

		return
	}
	if line.Quantity > product.Stock {
		line.Quantity = product.Stock
	}
	line.StockDrift = false
}

func (c *Cart) touch(now time.Time) {
	c.Recalculate()
	c.UpdatedAt = now
}

func repriceLine(line *CartLine, product *Product, now time.Time) {
	live := product.EffectivePrice(now)
	line.PriceAtAddition = live
	line.CurrentPrice = live
	line.DiscountApplied = product.ActiveDiscount(now)
	line.PriceDrift = false
}
