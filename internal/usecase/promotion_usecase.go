package usecase

import (
	"context"
	"time"

	"basket/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromotionInput defines the fields an admin supplies for a promotion.
type PromotionInput struct {
	Code              string
	Name              string
	Description       string
	DiscountKind      string
	DiscountValue     decimal.Decimal
	MinOrderValue     decimal.Decimal
	MaxDiscountAmount *decimal.Decimal
	ValidFrom         time.Time
	ValidTo           *time.Time
	UsageType         entity.UsageType
	MaxUsesPerUser    *int
	MaxTotalUses      *int
	IsActive          bool
}

// EligiblePromotion is a promotion the customer can redeem on the current cart.
type EligiblePromotion struct {
	Promotion         *entity.Promotion
	EstimatedDiscount decimal.Decimal
}

// PromotionUsecase covers promotion discovery for customers and management for admins.
type PromotionUsecase interface {
	// ListEligible lists promotions the customer could apply to the current cart.
	ListEligible(ctx context.Context, userID uuid.UUID) ([]EligiblePromotion, error)

	Create(ctx context.Context, adminID uuid.UUID, input PromotionInput) (*entity.Promotion, error)
	Update(ctx context.Context, promotionID uuid.UUID, input PromotionInput) (*entity.Promotion, error)
	SetActive(ctx context.Context, promotionID uuid.UUID, active bool) (*entity.Promotion, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Promotion, error)
}
