package postgres

import (
	"context"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/errors"
	"basket/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// cartRepository implements the domain.CartRepository interface.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// Create persists a new cart with its lines.
func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)

	if err := repo.db.WithContext(ctx).Create(cartM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrCartAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	return nil
}

// FindByUserID retrieves the cart owned by userID together with its lines.
func (repo *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel
	err := repo.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") }).
		Where("user_id = ?", userID).
		First(&cartM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by user")
	}

	return toCartDomain(&cartM), nil
}

// Save bumps the version guarded by the loaded one, then replaces the lines.
func (repo *cartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	cartM := fromCartDomain(cart)
	nextVersion := cart.Version + 1

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.CartModel{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]any{
				"subtotal":           cartM.Subtotal,
				"total":              cartM.Total,
				"discounts":          cartM.Discounts,
				"last_reconciled_at": cartM.LastReconciledAt,
				"version":            nextVersion,
				"updated_at":         cartM.UpdatedAt,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to update cart")
		}
		if result.RowsAffected == 0 {
			return repository.ErrCartVersionConflict
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartLineModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete cart lines")
		}
		if len(cartM.Lines) == 0 {
			return nil
		}

		return errors.Wrap(tx.Create(&cartM.Lines).Error, "failed to insert cart lines")
	})
	if err != nil {
		return err
	}

	cart.Version = nextVersion

	return nil
}

// toCartDomain converts a GORM CartModel to a domain Cart entity.
func toCartDomain(data *model.CartModel) *entity.Cart {
	lines := make([]*entity.CartLine, 0, len(data.Lines))
	for _, lineM := range data.Lines {
		lines = append(lines, &entity.CartLine{
			ID:              lineM.ID,
			ProductID:       lineM.ProductID,
			Quantity:        lineM.Quantity,
			PriceAtAddition: lineM.PriceAtAddition,
			CurrentPrice:    lineM.CurrentPrice,
			DiscountApplied: discountFromColumns(lineM.DiscountKind, lineM.DiscountValue, lineM.DiscountExpiresAt),
			PriceDrift:      lineM.PriceDrift,
			StockDrift:      lineM.StockDrift,
			AddedAt:         lineM.AddedAt,
		})
	}

	return &entity.Cart{
		ID:               data.ID,
		UserID:           data.UserID,
		Lines:            lines,
		Subtotal:         data.Subtotal,
		Total:            data.Total,
		Discounts:        data.Discounts,
		LastReconciledAt: data.LastReconciledAt,
		Version:          data.Version,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromCartDomain converts a domain Cart entity to a GORM CartModel.
func fromCartDomain(data *entity.Cart) *model.CartModel {
	lines := make([]model.CartLineModel, 0, len(data.Lines))
	for _, line := range data.Lines {
		kind, value, expiresAt := discountColumns(line.DiscountApplied)
		lines = append(lines, model.CartLineModel{
			ID:                line.ID,
			CartID:            data.ID,
			ProductID:         line.ProductID,
			Quantity:          line.Quantity,
			PriceAtAddition:   line.PriceAtAddition,
			CurrentPrice:      line.CurrentPrice,
			DiscountKind:      kind,
			DiscountValue:     value,
			DiscountExpiresAt: expiresAt,
			PriceDrift:        line.PriceDrift,
			StockDrift:        line.StockDrift,
			AddedAt:           line.AddedAt,
		})
	}

	return &model.CartModel{
		ID:               data.ID,
		UserID:           data.UserID,
		Subtotal:         data.Subtotal,
		Total:            data.Total,
		Discounts:        data.Discounts,
		LastReconciledAt: data.LastReconciledAt,
		Version:          data.Version,
		Lines:            lines,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
