package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartModel mirrors the 'carts' table. One row per user.
type CartModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Subtotal         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discounts        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LastReconciledAt *time.Time
	Version          int64           `gorm:"not null;default:0"`
	Lines            []CartLineModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartLineModel mirrors the 'cart_lines' table. ProductID carries no foreign
// key; a line whose product is gone is reported as orphaned.
type CartLineModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key"`
	CartID            uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_product"`
	ProductID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_product"`
	Quantity          int              `gorm:"not null;check:quantity > 0"`
	PriceAtAddition   decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	CurrentPrice      decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DiscountKind      *string          `gorm:"type:varchar(20)"`
	DiscountValue     *decimal.Decimal `gorm:"type:numeric(12,2)"`
	DiscountExpiresAt *time.Time
	PriceDrift        bool `gorm:"not null;default:false"`
	StockDrift        bool `gorm:"not null;default:false"`
	AddedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartLineModel) TableName() string {
	return "cart_lines"
}
