package postgres

import (
	"context"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/errors"
	"basket/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// orderRepository implements the domain.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order together with its lines.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	if err := repo.db.WithContext(ctx).Create(fromOrderDomain(order)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	return nil
}

// FindByID retrieves an order by its unique ID.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&orderM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

// List retrieves orders matching filter, most recent first.
func (repo *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	query := repo.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Scopes(page(filter.Limit, filter.Offset)).
		Order("placed_at DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var orderModels []model.OrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for i := range orderModels {
		orders = append(orders, toOrderDomain(&orderModels[i]))
	}

	return orders, nil
}

// UpdateStatus writes the lifecycle fields guarded by the expected status.
func (repo *orderRepository) UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", order.ID, string(from)).
		Updates(map[string]any{
			"status":              string(order.Status),
			"cancellation_reason": order.CancellationReason,
			"payment_status":      string(order.Payment.Status),
			"updated_at":          order.UpdatedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := repo.db.WithContext(ctx).Model(&model.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check order existence")
		}
		if count == 0 {
			return repository.ErrOrderNotFound
		}

		return repository.ErrOrderStatusConflict
	}

	return nil
}

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	lines := make([]entity.OrderLine, 0, len(data.Lines))
	for _, lineM := range data.Lines {
		lines = append(lines, entity.OrderLine{
			ProductID:       lineM.ProductID,
			Name:            lineM.Name,
			Quantity:        lineM.Quantity,
			PriceAtPurchase: lineM.PriceAtPurchase,
			DiscountApplied: discountFromColumns(lineM.DiscountKind, lineM.DiscountValue, lineM.DiscountExpiresAt),
		})
	}

	promotions := make([]entity.AppliedPromotion, 0, len(data.AppliedPromotions))
	for _, promo := range data.AppliedPromotions {
		promotions = append(promotions, entity.AppliedPromotion{
			PromotionID:    promo.PromotionID,
			Code:           promo.Code,
			Name:           promo.Name,
			DiscountKind:   entity.DiscountKind(promo.DiscountKind),
			DiscountValue:  promo.DiscountValue,
			DiscountAmount: promo.DiscountAmount,
		})
	}

	address := data.DeliveryAddress.Data()

	return &entity.Order{
		ID:                data.ID,
		OrderNumber:       data.OrderNumber,
		UserID:            data.UserID,
		Lines:             lines,
		Subtotal:          data.Subtotal,
		ProductDiscounts:  data.ProductDiscounts,
		AppliedPromotions: promotions,
		DeliveryFee:       data.DeliveryFee,
		Total:             data.Total,
		Payment: entity.Payment{
			Method:        entity.PaymentMethod(data.PaymentMethod),
			Status:        entity.PaymentStatus(data.PaymentStatus),
			TransactionID: data.TransactionID,
		},
		DeliveryAddress: entity.DeliveryAddress{
			Street:     address.Street,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		},
		Status:             entity.OrderStatus(data.Status),
		CancellationReason: data.CancellationReason,
		PlacedAt:           data.PlacedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	lines := make([]model.OrderLineModel, 0, len(data.Lines))
	for i, line := range data.Lines {
		kind, value, expiresAt := discountColumns(line.DiscountApplied)
		lines = append(lines, model.OrderLineModel{
			OrderID:           data.ID,
			Position:          i,
			ProductID:         line.ProductID,
			Name:              line.Name,
			Quantity:          line.Quantity,
			PriceAtPurchase:   line.PriceAtPurchase,
			DiscountKind:      kind,
			DiscountValue:     value,
			DiscountExpiresAt: expiresAt,
		})
	}

	promotions := make([]model.AppliedPromotionJSON, 0, len(data.AppliedPromotions))
	for _, promo := range data.AppliedPromotions {
		promotions = append(promotions, model.AppliedPromotionJSON{
			PromotionID:    promo.PromotionID,
			Code:           promo.Code,
			Name:           promo.Name,
			DiscountKind:   string(promo.DiscountKind),
			DiscountValue:  promo.DiscountValue,
			DiscountAmount: promo.DiscountAmount,
		})
	}

	address := data.DeliveryAddress

	return &model.OrderModel{
		ID:                data.ID,
		OrderNumber:       data.OrderNumber,
		UserID:            data.UserID,
		Subtotal:          data.Subtotal,
		ProductDiscounts:  data.ProductDiscounts,
		DeliveryFee:       data.DeliveryFee,
		Total:             data.Total,
		AppliedPromotions: promotions,
		PaymentMethod:     string(data.Payment.Method),
		PaymentStatus:     string(data.Payment.Status),
		TransactionID:     data.Payment.TransactionID,
		DeliveryAddress: datatypes.NewJSONType(model.DeliveryAddressJSON{
			Street:     address.Street,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		}),
		Status:             string(data.Status),
		CancellationReason: data.CancellationReason,
		Lines:              lines,
		PlacedAt:           data.PlacedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}
