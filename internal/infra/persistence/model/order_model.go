package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DeliveryAddressJSON is the delivery_address column.
type DeliveryAddressJSON struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// AppliedPromotionJSON is one entry of the applied_promotions column.
type AppliedPromotionJSON struct {
	PromotionID    uuid.UUID       `json:"promotion_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	DiscountKind   string          `json:"discount_kind"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID                 uuid.UUID                                 `gorm:"type:uuid;primary_key"`
	OrderNumber        string                                    `gorm:"type:varchar(32);uniqueIndex;not null"`
	UserID             uuid.UUID                                 `gorm:"type:uuid;not null;index"`
	Subtotal           decimal.Decimal                           `gorm:"type:numeric(12,2);not null"`
	ProductDiscounts   decimal.Decimal                           `gorm:"type:numeric(12,2);not null"`
	DeliveryFee        decimal.Decimal                           `gorm:"type:numeric(12,2);not null"`
	Total              decimal.Decimal                           `gorm:"type:numeric(12,2);not null;check:total >= 0"`
	AppliedPromotions  datatypes.JSONSlice[AppliedPromotionJSON] `gorm:"type:jsonb"`
	PaymentMethod      string                                    `gorm:"type:varchar(20);not null"`
	PaymentStatus      string                                    `gorm:"type:varchar(20);not null"`
	TransactionID      string                                    `gorm:"type:varchar(100)"`
	DeliveryAddress    datatypes.JSONType[DeliveryAddressJSON]   `gorm:"type:jsonb;not null"`
	Status             string                                    `gorm:"type:varchar(20);not null;index"`
	CancellationReason string                                    `gorm:"type:text"`
	Lines              []OrderLineModel                          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt           time.Time                                 `gorm:"not null;index"`
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel mirrors the 'order_lines' table.
type OrderLineModel struct {
	ID                uint             `gorm:"primaryKey;autoIncrement"`
	OrderID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	Position          int              `gorm:"not null"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Quantity          int              `gorm:"not null"`
	PriceAtPurchase   decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DiscountKind      *string          `gorm:"type:varchar(20)"`
	DiscountValue     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountExpiresAt *time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&AddressModel{},
		&CategoryModel{},
		&ProductModel{},
		&CartModel{},
		&CartLineModel{},
		&PromotionModel{},
		&PromotionUsageModel{},
		&OrderModel{},
		&OrderLineModel{},
	}
}
