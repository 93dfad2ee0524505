package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PricePointJSON is one entry of the price_history column.
type PricePointJSON struct {
	Price     decimal.Decimal `json:"price"`
	ChangedAt time.Time       `json:"changed_at"`
}

// ProductModel mirrors the 'products' table. The discount rule is flattened
// into nullable columns; a null kind means no discount.
type ProductModel struct {
	ID                  uuid.UUID                           `gorm:"type:uuid;primary_key"`
	Name                string                              `gorm:"type:varchar(200);not null"`
	Description         string                              `gorm:"type:text"`
	CategoryID          *uuid.UUID                          `gorm:"type:uuid;index"`
	Unit                string                              `gorm:"type:varchar(20)"`
	Brand               string                              `gorm:"type:varchar(100)"`
	BasePrice           decimal.Decimal                     `gorm:"type:numeric(12,2);not null"`
	Stock               int                                 `gorm:"not null;check:stock >= 0"`
	IsAvailable         bool                                `gorm:"not null;default:true;index"`
	IsPromotionEligible bool                                `gorm:"not null;default:true"`
	DiscountKind        *string                             `gorm:"type:varchar(20)"`
	DiscountValue       *decimal.Decimal                    `gorm:"type:numeric(12,2)"`
	DiscountExpiresAt   *time.Time                          ``
	PriceHistory        datatypes.JSONSlice[PricePointJSON] `gorm:"type:jsonb"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
