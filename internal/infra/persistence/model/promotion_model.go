package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionModel mirrors the 'promotions' table.
type PromotionModel struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key"`
	Code              string           `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name              string           `gorm:"type:varchar(200);not null"`
	Description       string           `gorm:"type:text"`
	DiscountKind      string           `gorm:"type:varchar(20);not null"`
	DiscountValue     decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	MinOrderValue     decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	MaxDiscountAmount *decimal.Decimal `gorm:"type:numeric(12,2)"`
	ValidFrom         time.Time        `gorm:"not null"`
	ValidTo           *time.Time
	UsageType         string `gorm:"type:varchar(20);not null"`
	MaxUsesPerUser    *int
	MaxTotalUses      *int
	UsedCount         int       `gorm:"not null;default:0"`
	IsActive          bool      `gorm:"not null;default:true;index"`
	CreatedBy         uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (PromotionModel) TableName() string {
	return "promotions"
}

// PromotionUsageModel mirrors the 'promotion_usages' table, one row per
// promotion and user.
type PromotionUsageModel struct {
	PromotionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Count       int       `gorm:"not null;default:0"`
	LastUsedAt  time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (PromotionUsageModel) TableName() string {
	return "promotion_usages"
}
