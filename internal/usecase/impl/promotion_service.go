package impl

import (
	"context"
	"log/slog"
	"sort"

	deliverycontext "basket/internal/delivery/context"
	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/domain/service"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const defaultListLimit = 50

// promotionService implements the PromotionUsecase interface.
type promotionService struct {
	promotionRepo repository.PromotionRepository
	cartRepo      repository.CartRepository
	productRepo   repository.ProductRepository
	clock         service.Clock
	ids           service.IDGenerator
	logger        *slog.Logger
}

// PromotionServiceParams holds dependencies for PromotionService, injected by Fx.
type PromotionServiceParams struct {
	fx.In

	PromotionRepo repository.PromotionRepository
	CartRepo      repository.CartRepository
	ProductRepo   repository.ProductRepository
	Clock         service.Clock
	IDs           service.IDGenerator
	Logger        *slog.Logger
}

// NewPromotionService is the constructor for promotionService.
func NewPromotionService(params PromotionServiceParams) usecase.PromotionUsecase {
	return &promotionService{
		promotionRepo: params.PromotionRepo,
		cartRepo:      params.CartRepo,
		productRepo:   params.ProductRepo,
		clock:         params.Clock,
		ids:           params.IDs,
		logger:        params.Logger,
	}
}

func (srv *promotionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListEligible lists the promotions the user could apply to the current cart,
// largest estimated discount first.
func (srv *promotionService) ListEligible(ctx context.Context, userID uuid.UUID) ([]usecase.EligiblePromotion, error) {
	now := srv.clock.Now()

	cart, products, err := loadCart(ctx, srv.cartRepo, srv.productRepo, userID)
	if err != nil {
		return nil, err
	}
	entity.Reconcile(cart, products, now)
	eligibleTotal := entity.PromoEligibleTotal(cart, products)

	candidates, err := srv.promotionRepo.List(ctx, repository.PromotionFilter{ActiveAt: &now})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active promotions")
	}

	usages, err := srv.promotionRepo.UsagesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load promotion usage")
	}

	eligible := make([]usecase.EligiblePromotion, 0, len(candidates))
	for _, promo := range candidates {
		attachUsage(promo, userID, usages)
		if !promo.EligibleFor(userID, eligibleTotal, now) {
			continue
		}
		eligible = append(eligible, usecase.EligiblePromotion{
			Promotion:         promo,
			EstimatedDiscount: promo.DiscountFor(eligibleTotal),
		})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].EstimatedDiscount.GreaterThan(eligible[j].EstimatedDiscount)
	})

	srv.log(ctx).Debug("Listed eligible promotions",
		slog.Any("userID", userID),
		slog.String("eligibleTotal", eligibleTotal.StringFixed(entity.MoneyPlaces)),
		slog.Int("count", len(eligible)),
	)

	return eligible, nil
}

// Create stores a new promotion with an upper-cased code.
func (srv *promotionService) Create(ctx context.Context, adminID uuid.UUID, input usecase.PromotionInput) (*entity.Promotion, error) {
	now := srv.clock.Now()
	promo := &entity.Promotion{
		ID:        srv.ids.NewID(),
		CreatedBy: adminID,
		Usage:     map[uuid.UUID]entity.PromotionUsage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyPromotionInput(promo, input); err != nil {
		return nil, err
	}

	if err := srv.promotionRepo.Create(ctx, promo); err != nil {
		if errors.Is(err, repository.ErrDuplicatePromotionCode) {
			return nil, errors.Wrap(domainerrors.ErrPromotionCodeExists, "promotion code already in use")
		}

		return nil, errors.Wrap(err, "failed to create promotion")
	}

	srv.log(ctx).Info("Promotion created", slog.String("code", promo.Code), slog.Any("adminID", adminID))

	return promo, nil
}

// Update replaces the editable fields of a promotion. Usage counters are kept.
func (srv *promotionService) Update(ctx context.Context, promotionID uuid.UUID, input usecase.PromotionInput) (*entity.Promotion, error) {
	promo, err := srv.find(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	if err := applyPromotionInput(promo, input); err != nil {
		return nil, err
	}
	promo.UpdatedAt = srv.clock.Now()

	if err := srv.promotionRepo.Update(ctx, promo); err != nil {
		if errors.Is(err, repository.ErrDuplicatePromotionCode) {
			return nil, errors.Wrap(domainerrors.ErrPromotionCodeExists, "promotion code already in use")
		}

		return nil, errors.Wrap(err, "failed to update promotion")
	}

	return promo, nil
}

// SetActive switches a promotion on or off.
func (srv *promotionService) SetActive(ctx context.Context, promotionID uuid.UUID, active bool) (*entity.Promotion, error) {
	promo, err := srv.find(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	promo.IsActive = active
	promo.UpdatedAt = srv.clock.Now()
	if err := srv.promotionRepo.Update(ctx, promo); err != nil {
		return nil, errors.Wrap(err, "failed to update promotion status")
	}

	srv.log(ctx).Info("Promotion status changed", slog.String("code", promo.Code), slog.Bool("active", active))

	return promo, nil
}

// List lists every promotion, newest first.
func (srv *promotionService) List(ctx context.Context, limit, offset int) ([]*entity.Promotion, error) {
	promos, err := srv.promotionRepo.List(ctx, repository.PromotionFilter{Limit: normalizeLimit(limit), Offset: offset})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list promotions")
	}

	return promos, nil
}

func (srv *promotionService) find(ctx context.Context, promotionID uuid.UUID) (*entity.Promotion, error) {
	promo, err := srv.promotionRepo.FindByID(ctx, promotionID)
	if err != nil {
		if errors.Is(err, repository.ErrPromotionNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPromotionNotFound, "promotion not found")
		}

		return nil, errors.Wrap(err, "failed to find promotion")
	}

	return promo, nil
}

func applyPromotionInput(promo *entity.Promotion, input usecase.PromotionInput) error {
	kind := entity.DiscountKind(input.DiscountKind)
	if !kind.IsValid() {
		return errors.Wrap(domainerrors.ErrInvalidDiscountRule, "unknown discount kind")
	}

	promo.Code = entity.NormalizeCode(input.Code)
	promo.Name = input.Name
	promo.Description = input.Description
	promo.Discount = entity.DiscountRule{Kind: kind, Magnitude: input.DiscountValue}
	promo.MinOrderValue = entity.RoundMoney(input.MinOrderValue)
	promo.MaxDiscountAmount = nil
	if input.MaxDiscountAmount != nil && kind == entity.DiscountPercentage {
		capped := entity.RoundMoney(*input.MaxDiscountAmount)
		promo.MaxDiscountAmount = &capped
	}
	promo.ValidFrom = input.ValidFrom
	promo.ValidTo = input.ValidTo
	promo.UsageType = input.UsageType
	if promo.UsageType == "" {
		promo.UsageType = entity.UsageGeneral
	}
	promo.MaxUsesPerUser = input.MaxUsesPerUser
	promo.MaxTotalUses = input.MaxTotalUses
	promo.IsActive = input.IsActive

	return promo.Validate()
}

// attachUsage merges the user's usage record into promo.
func attachUsage(promo *entity.Promotion, userID uuid.UUID, usages map[uuid.UUID]entity.PromotionUsage) {
	usage, ok := usages[promo.ID]
	if !ok {
		return
	}
	if promo.Usage == nil {
		promo.Usage = make(map[uuid.UUID]entity.PromotionUsage)
	}
	promo.Usage[userID] = usage
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultListLimit
	}

	return limit
}
