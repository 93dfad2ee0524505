package postgres

import (
	"context"
	"time"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/errors"
	"basket/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// promotionRepository implements the domain.PromotionRepository interface.
type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository is the constructor for promotionRepository.
func NewPromotionRepository(db *gorm.DB) repository.PromotionRepository {
	return &promotionRepository{db: db}
}

// Create persists a new promotion.
func (repo *promotionRepository) Create(ctx context.Context, promotion *entity.Promotion) error {
	if err := repo.db.WithContext(ctx).Create(fromPromotionDomain(promotion)).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePromotionCode
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create promotion")
	}

	return nil
}

// Update overwrites the admin-editable fields. used_count is never written here.
func (repo *promotionRepository) Update(ctx context.Context, promotion *entity.Promotion) error {
	promotionM := fromPromotionDomain(promotion)

	result := repo.db.WithContext(ctx).
		Model(&model.PromotionModel{}).
		Where("id = ?", promotion.ID).
		Select("*").
		Omit("id", "used_count", "created_by", "created_at").
		Updates(promotionM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicatePromotionCode
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update promotion")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPromotionNotFound
	}

	return nil
}

// FindByID retrieves a promotion by its unique ID.
func (repo *promotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByCode retrieves a promotion by its normalized code.
func (repo *promotionRepository) FindByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	return repo.findOne(ctx, "code = ?", code)
}

func (repo *promotionRepository) findOne(ctx context.Context, query string, arg any) (*entity.Promotion, error) {
	var promotionM model.PromotionModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&promotionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPromotionNotFound
		}

		return nil, errors.Wrap(err, "failed to find promotion")
	}

	return toPromotionDomain(&promotionM), nil
}

// List retrieves promotions matching filter, newest first.
func (repo *promotionRepository) List(ctx context.Context, filter repository.PromotionFilter) ([]*entity.Promotion, error) {
	query := repo.db.WithContext(ctx).Scopes(page(filter.Limit, filter.Offset)).Order("created_at DESC")
	if at := filter.ActiveAt; at != nil {
		query = query.Where("is_active AND valid_from <= ? AND (valid_to IS NULL OR valid_to >= ?)", *at, *at)
	}

	var promotionModels []model.PromotionModel
	if err := query.Find(&promotionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list promotions")
	}

	promotions := make([]*entity.Promotion, 0, len(promotionModels))
	for i := range promotionModels {
		promotions = append(promotions, toPromotionDomain(&promotionModels[i]))
	}

	return promotions, nil
}

// UsagesByUser returns the usage records of userID keyed by promotion ID.
func (repo *promotionRepository) UsagesByUser(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]entity.PromotionUsage, error) {
	var usageModels []model.PromotionUsageModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Find(&usageModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load promotion usage")
	}

	usages := make(map[uuid.UUID]entity.PromotionUsage, len(usageModels))
	for _, usageM := range usageModels {
		usages[usageM.PromotionID] = entity.PromotionUsage{
			UserID:     usageM.UserID,
			Count:      usageM.Count,
			LastUsedAt: usageM.LastUsedAt,
		}
	}

	return usages, nil
}

// RecordUsage increments both counters with their caps in the WHERE clauses,
// so two racing checkouts cannot both take the last redemption.
func (repo *promotionRepository) RecordUsage(ctx context.Context, promotionID, userID uuid.UUID, perUserLimit *int, now time.Time) error {
	db := repo.db.WithContext(ctx)

	result := db.Model(&model.PromotionModel{}).
		Where("id = ? AND (max_total_uses IS NULL OR used_count < max_total_uses)", promotionID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment promotion usage")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPromotionUsageRejected
	}

	onConflict := clause.OnConflict{
		Columns: []clause.Column{{Name: "promotion_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count":        gorm.Expr("promotion_usages.count + 1"),
			"last_used_at": now,
		}),
	}
	if perUserLimit != nil {
		onConflict.Where = clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "promotion_usages.count < ?", Vars: []any{*perUserLimit}},
		}}
	}

	result = db.Clauses(onConflict).Create(&model.PromotionUsageModel{
		PromotionID: promotionID,
		UserID:      userID,
		Count:       1,
		LastUsedAt:  now,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to record promotion usage")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPromotionUsageRejected
	}

	return nil
}

// toPromotionDomain converts a GORM PromotionModel to a domain Promotion entity.
func toPromotionDomain(data *model.PromotionModel) *entity.Promotion {
	return &entity.Promotion{
		ID:          data.ID,
		Code:        data.Code,
		Name:        data.Name,
		Description: data.Description,
		Discount: entity.DiscountRule{
			Kind:      entity.DiscountKind(data.DiscountKind),
			Magnitude: data.DiscountValue,
		},
		MinOrderValue:     data.MinOrderValue,
		MaxDiscountAmount: data.MaxDiscountAmount,
		ValidFrom:         data.ValidFrom,
		ValidTo:           data.ValidTo,
		UsageType:         entity.UsageType(data.UsageType),
		MaxUsesPerUser:    data.MaxUsesPerUser,
		MaxTotalUses:      data.MaxTotalUses,
		UsedCount:         data.UsedCount,
		Usage:             map[uuid.UUID]entity.PromotionUsage{},
		IsActive:          data.IsActive,
		CreatedBy:         data.CreatedBy,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromPromotionDomain converts a domain Promotion entity to a GORM PromotionModel.
func fromPromotionDomain(data *entity.Promotion) *model.PromotionModel {
	return &model.PromotionModel{
		ID:                data.ID,
		Code:              data.Code,
		Name:              data.Name,
		Description:       data.Description,
		DiscountKind:      string(data.Discount.Kind),
		DiscountValue:     data.Discount.Magnitude,
		MinOrderValue:     data.MinOrderValue,
		MaxDiscountAmount: data.MaxDiscountAmount,
		ValidFrom:         data.ValidFrom,
		ValidTo:           data.ValidTo,
		UsageType:         string(data.UsageType),
		MaxUsesPerUser:    data.MaxUsesPerUser,
		MaxTotalUses:      data.MaxTotalUses,
		UsedCount:         data.UsedCount,
		IsActive:          data.IsActive,
		CreatedBy:         data.CreatedBy,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
