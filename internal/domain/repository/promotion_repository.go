package repository

import (
	"context"
	"time"

	"basket/internal/domain/entity"
	"basket/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for promotion persistence.
var (
	// ErrPromotionNotFound is returned when a promotion is not found.
	ErrPromotionNotFound = errors.New("promotion not found")
	// ErrDuplicatePromotionCode is returned when a code is already taken.
	ErrDuplicatePromotionCode = errors.New("promotion code already exists")
	// ErrPromotionUsageRejected is returned when a guarded usage increment matched no row.
	ErrPromotionUsageRejected = errors.New("promotion usage limit reached")
)

// PromotionFilter narrows promotion listings.
type PromotionFilter struct {
	ActiveAt *time.Time // Only active promotions whose window contains this instant.
	Limit    int
	Offset   int
}

// PromotionRepository defines the interface for promotion persistence.
// Promotions are returned without per-user usage; load it with UsagesByUser.
type PromotionRepository interface {
	// Create persists a new promotion. Returns ErrDuplicatePromotionCode on a code clash.
	Create(ctx context.Context, promotion *entity.Promotion) error

	// Update overwrites the admin-editable fields. Counters are left untouched.
	Update(ctx context.Context, promotion *entity.Promotion) error

	// FindByID retrieves a promotion by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error)

	// FindByCode retrieves a promotion by its normalized code.
	FindByCode(ctx context.Context, code string) (*entity.Promotion, error)

	// List retrieves promotions matching filter, newest first.
	List(ctx context.Context, filter PromotionFilter) ([]*entity.Promotion, error)

	// UsagesByUser returns the usage records of userID keyed by promotion ID.
	UsagesByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]entity.PromotionUsage, error)

	// RecordUsage atomically increments the global counter, guarded by the global cap, and the
	// per-user counter, guarded by perUserLimit when it is non-nil. Returns
	// ErrPromotionUsageRejected when either guard fails.
	RecordUsage(ctx context.Context, promotionID, userID uuid.UUID, perUserLimit *int, now time.Time) error
}
