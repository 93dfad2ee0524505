package handler

import (
	"time"

	"basket/internal/domain/entity"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amounts are rendered as fixed two-decimal strings.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type discountResponse struct {
	Kind      entity.DiscountKind `json:"kind"`
	Value     string              `json:"value"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
}

func toDiscountResponse(rule *entity.DiscountRule) *discountResponse {
	if rule == nil {
		return nil
	}

	return &discountResponse{Kind: rule.Kind, Value: rule.Magnitude.String(), ExpiresAt: rule.ExpiresAt}
}

type userResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone,omitempty"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role, CreatedAt: u.CreatedAt}
}

type addressResponse struct {
	ID         uuid.UUID           `json:"id"`
	Label      entity.AddressLabel `json:"label"`
	Street     string              `json:"street"`
	City       string              `json:"city"`
	State      string              `json:"state"`
	PostalCode string              `json:"postal_code"`
	Country    string              `json:"country"`
	IsDefault  bool                `json:"is_default"`
}

func toAddressResponse(a *entity.Address) addressResponse {
	return addressResponse{
		ID:         a.ID,
		Label:      a.Label,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
	}
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
}

func toCategoryResponse(c *entity.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Image:       c.Image,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}

type productResponse struct {
	ID                  uuid.UUID           `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	CategoryID          *uuid.UUID          `json:"category_id,omitempty"`
	Unit                string              `json:"unit,omitempty"`
	Brand               string              `json:"brand,omitempty"`
	BasePrice           string              `json:"base_price"`
	DiscountedPrice     string              `json:"discounted_price"`
	HasDiscount         bool                `json:"has_discount"`
	Discount            *discountResponse   `json:"discount,omitempty"`
	Stock               int                 `json:"stock"`
	IsAvailable         bool                `json:"is_available"`
	IsPromotionEligible bool                `json:"is_promotion_eligible"`
	PriceHistory        []entity.PricePoint `json:"price_history,omitempty"`
}

func toProductResponse(view usecase.ProductView) productResponse {
	p := view.Product

	return productResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		CategoryID:          p.CategoryID,
		Unit:                p.Unit,
		Brand:               p.Brand,
		BasePrice:           amount(p.BasePrice),
		DiscountedPrice:     amount(view.DiscountedPrice),
		HasDiscount:         view.HasDiscount,
		Discount:            toDiscountResponse(p.Discount),
		Stock:               p.Stock,
		IsAvailable:         p.IsAvailable,
		IsPromotionEligible: p.IsPromotionEligible,
	}
}

// toAdminProductResponse adds the price history for the back-office.
func toAdminProductResponse(p *entity.Product, now time.Time) productResponse {
	resp := toProductResponse(usecase.ProductView{
		Product:         p,
		DiscountedPrice: p.EffectivePrice(now),
		HasDiscount:     p.HasActiveDiscount(now),
	})
	resp.PriceHistory = p.PriceHistory

	return resp
}

type cartLineResponse struct {
	ID              uuid.UUID         `json:"id"`
	ProductID       uuid.UUID         `json:"product_id"`
	ProductName     string            `json:"product_name,omitempty"`
	Quantity        int               `json:"quantity"`
	PriceAtAddition string            `json:"price_at_addition"`
	CurrentPrice    string            `json:"current_price"`
	Discount        *discountResponse `json:"discount,omitempty"`
	PriceDrift      bool              `json:"price_drift"`
	StockDrift      bool              `json:"stock_drift"`
	Orphaned        bool              `json:"orphaned"`
	AddedAt         time.Time         `json:"added_at"`
}

type lineIssueResponse struct {
	LineID      uuid.UUID            `json:"line_id"`
	ProductID   uuid.UUID            `json:"product_id"`
	ProductName string               `json:"product_name,omitempty"`
	Kind        entity.LineIssueKind `json:"kind"`
	Available   *int                 `json:"available,omitempty"`
	Requested   *int                 `json:"requested,omitempty"`
	OldPrice    string               `json:"old_price,omitempty"`
	NewPrice    string               `json:"new_price,omitempty"`
}

type cartResponse struct {
	ID               uuid.UUID           `json:"id"`
	Lines            []cartLineResponse  `json:"lines"`
	Subtotal         string              `json:"subtotal"`
	Discounts        string              `json:"discounts"`
	Total            string              `json:"total"`
	Issues           []lineIssueResponse `json:"issues"`
	OrphanedLines    []uuid.UUID         `json:"orphaned_lines,omitempty"`
	LastReconciledAt *time.Time          `json:"last_reconciled_at,omitempty"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

func toCartResponse(view *usecase.CartView) cartResponse {
	cart := view.Cart
	resp := cartResponse{
		ID:               cart.ID,
		Lines:            make([]cartLineResponse, 0, len(cart.Lines)),
		Subtotal:         amount(cart.Subtotal),
		Discounts:        amount(cart.Discounts),
		Total:            amount(cart.Total),
		Issues:           make([]lineIssueResponse, 0, len(view.Issues)),
		OrphanedLines:    view.OrphanedLines,
		LastReconciledAt: cart.LastReconciledAt,
		UpdatedAt:        cart.UpdatedAt,
	}

	for _, line := range cart.Lines {
		lr := cartLineResponse{
			ID:              line.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			PriceAtAddition: amount(line.PriceAtAddition),
			CurrentPrice:    amount(line.CurrentPrice),
			Discount:        toDiscountResponse(line.DiscountApplied),
			PriceDrift:      line.PriceDrift,
			StockDrift:      line.StockDrift,
			Orphaned:        line.Orphaned,
			AddedAt:         line.AddedAt,
		}
		if product, ok := view.Products[line.ProductID]; ok {
			lr.ProductName = product.Name
		}
		resp.Lines = append(resp.Lines, lr)
	}

	for _, issue := range view.Issues {
		ir := lineIssueResponse{
			LineID:      issue.LineID,
			ProductID:   issue.ProductID,
			ProductName: issue.ProductName,
			Kind:        issue.Kind,
		}
		switch issue.Kind {
		case entity.IssueInsufficientStock:
			ir.Available = &issue.Available
			ir.Requested = &issue.Requested
		case entity.IssuePriceChanged:
			ir.OldPrice = amount(issue.OldPrice)
			ir.NewPrice = amount(issue.NewPrice)
		}
		resp.Issues = append(resp.Issues, ir)
	}

	return resp
}

type promotionResponse struct {
	ID                uuid.UUID           `json:"id"`
	Code              string              `json:"code"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	DiscountKind      entity.DiscountKind `json:"discount_kind"`
	DiscountValue     string              `json:"discount_value"`
	MinOrderValue     string              `json:"min_order_value"`
	MaxDiscountAmount *string             `json:"max_discount_amount,omitempty"`
	ValidFrom         time.Time           `json:"valid_from"`
	ValidTo           *time.Time          `json:"valid_to,omitempty"`
	UsageType         entity.UsageType    `json:"usage_type"`
	MaxUsesPerUser    *int                `json:"max_uses_per_user,omitempty"`
	MaxTotalUses      *int                `json:"max_total_uses,omitempty"`
	UsedCount         *int                `json:"used_count,omitempty"`
	IsActive          bool                `json:"is_active"`
	EstimatedDiscount string              `json:"estimated_discount,omitempty"`
}

func toPromotionResponse(p *entity.Promotion, withCounters bool) promotionResponse {
	resp := promotionResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		DiscountKind:   p.Discount.Kind,
		DiscountValue:  p.Discount.Magnitude.String(),
		MinOrderValue:  amount(p.MinOrderValue),
		ValidFrom:      p.ValidFrom,
		ValidTo:        p.ValidTo,
		UsageType:      p.UsageType,
		MaxUsesPerUser: p.MaxUsesPerUser,
		MaxTotalUses:   p.MaxTotalUses,
		IsActive:       p.IsActive,
	}
	if p.MaxDiscountAmount != nil {
		capAmount := amount(*p.MaxDiscountAmount)
		resp.MaxDiscountAmount = &capAmount
	}
	if withCounters {
		used := p.UsedCount
		resp.UsedCount = &used
	}

	return resp
}

type orderLineResponse struct {
	ProductID       uuid.UUID         `json:"product_id"`
	Name            string            `json:"name"`
	Quantity        int               `json:"quantity"`
	PriceAtPurchase string            `json:"price_at_purchase"`
	LineTotal       string            `json:"line_total"`
	Discount        *discountResponse `json:"discount,omitempty"`
}

type appliedPromotionResponse struct {
	Code           string              `json:"code"`
	Name           string              `json:"name"`
	DiscountKind   entity.DiscountKind `json:"discount_kind"`
	DiscountValue  string              `json:"discount_value"`
	DiscountAmount string              `json:"discount_amount"`
}

type paymentResponse struct {
	Method        entity.PaymentMethod `json:"method"`
	Status        entity.PaymentStatus `json:"status"`
	TransactionID string               `json:"transaction_id,omitempty"`
}

type orderResponse struct {
	ID                 uuid.UUID                  `json:"id"`
	OrderNumber        string                     `json:"order_number"`
	UserID             uuid.UUID                  `json:"user_id"`
	Lines              []orderLineResponse        `json:"lines"`
	Subtotal           string                     `json:"subtotal"`
	ProductDiscounts   string                     `json:"product_discounts"`
	PromotionDiscount  string                     `json:"promotion_discount"`
	AppliedPromotions  []appliedPromotionResponse `json:"applied_promotions"`
	DeliveryFee        string                     `json:"delivery_fee"`
	Total              string                     `json:"total"`
	Payment            paymentResponse            `json:"payment"`
	DeliveryAddress    entity.DeliveryAddress     `json:"delivery_address"`
	Status             entity.OrderStatus         `json:"status"`
	CancellationReason string                     `json:"cancellation_reason,omitempty"`
	PlacedAt           time.Time                  `json:"placed_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

func toOrderResponse(o *entity.Order) orderResponse {
	resp := orderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		Lines:              make([]orderLineResponse, 0, len(o.Lines)),
		Subtotal:           amount(o.Subtotal),
		ProductDiscounts:   amount(o.ProductDiscounts),
		PromotionDiscount:  amount(o.PromotionDiscount()),
		AppliedPromotions:  make([]appliedPromotionResponse, 0, len(o.AppliedPromotions)),
		DeliveryFee:        amount(o.DeliveryFee),
		Total:              amount(o.Total),
		Payment:            paymentResponse(o.Payment),
		DeliveryAddress:    o.DeliveryAddress,
		Status:             o.Status,
		CancellationReason: o.CancellationReason,
		PlacedAt:           o.PlacedAt,
		UpdatedAt:          o.UpdatedAt,
	}

	for _, line := range o.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ProductID:       line.ProductID,
			Name:            line.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: amount(line.PriceAtPurchase),
			LineTotal:       amount(line.PriceAtPurchase.Mul(decimal.NewFromInt(int64(line.Quantity)))),
			Discount:        toDiscountResponse(line.DiscountApplied),
		})
	}
	for _, promo := range o.AppliedPromotions {
		resp.AppliedPromotions = append(resp.AppliedPromotions, appliedPromotionResponse{
			Code:           promo.Code,
			Name:           promo.Name,
			DiscountKind:   promo.DiscountKind,
			DiscountValue:  promo.DiscountValue.String(),
			DiscountAmount: amount(promo.DiscountAmount),
		})
	}

	return resp
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}

	return out
}
