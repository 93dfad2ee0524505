package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

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

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	clock        service.Clock
	ids          service.IDGenerator
	logger       *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Clock        service.Clock
	IDs          service.IDGenerator
	Logger       *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		clock:        params.Clock,
		ids:          params.IDs,
		logger:       params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListAvailable lists products that are for sale.
func (srv *productService) ListAvailable(ctx context.Context, input usecase.ListProductsInput) ([]usecase.ProductView, error) {
	return srv.list(ctx, input, true)
}

// List lists every product.
func (srv *productService) List(ctx context.Context, input usecase.ListProductsInput) ([]usecase.ProductView, error) {
	return srv.list(ctx, input, false)
}

// Get returns one product with its live price.
func (srv *productService) Get(ctx context.Context, productID uuid.UUID) (*usecase.ProductView, error) {
	product, err := srv.find(ctx, productID)
	if err != nil {
		return nil, err
	}

	view := srv.view(product)

	return &view, nil
}

// Create adds a product to the catalog and starts its price history.
func (srv *productService) Create(ctx context.Context, input usecase.ProductInput) (*entity.Product, error) {
	now := srv.clock.Now()
	product := &entity.Product{
		ID:        srv.ids.NewID(),
		CreatedAt: now,
	}
	if err := applyProductInput(product, input, now); err != nil {
		return nil, err
	}
	if err := srv.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return product, nil
}

// Update replaces the editable fields of a product. A base price change is
// appended to the price history.
func (srv *productService) Update(ctx context.Context, productID uuid.UUID, input usecase.ProductInput) (*entity.Product, error) {
	product, err := srv.find(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := applyProductInput(product, input, srv.clock.Now()); err != nil {
		return nil, err
	}
	if err := srv.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// SetAvailability toggles whether the product can be added to carts.
func (srv *productService) SetAvailability(ctx context.Context, productID uuid.UUID, available bool) (*entity.Product, error) {
	return srv.toggle(ctx, productID, func(p *entity.Product) { p.IsAvailable = available })
}

// SetPromotionEligibility toggles whether the product counts toward promotion totals.
func (srv *productService) SetPromotionEligibility(ctx context.Context, productID uuid.UUID, eligible bool) (*entity.Product, error) {
	return srv.toggle(ctx, productID, func(p *entity.Product) { p.IsPromotionEligible = eligible })
}

func (srv *productService) toggle(ctx context.Context, productID uuid.UUID, apply func(*entity.Product)) (*entity.Product, error) {
	product, err := srv.find(ctx, productID)
	if err != nil {
		return nil, err
	}

	apply(product)
	product.UpdatedAt = srv.clock.Now()
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

func (srv *productService) list(ctx context.Context, input usecase.ListProductsInput, onlyAvailable bool) ([]usecase.ProductView, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{
		OnlyAvailable:        onlyAvailable,
		ActiveCategoriesOnly: onlyAvailable,
		CategoryID:           input.CategoryID,
		Search:               strings.TrimSpace(input.Search),
		Limit:                normalizeLimit(input.Limit),
		Offset:               input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	views := make([]usecase.ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, srv.view(product))
	}

	return views, nil
}

func (srv *productService) view(product *entity.Product) usecase.ProductView {
	now := srv.clock.Now()

	return usecase.ProductView{
		Product:         product,
		DiscountedPrice: product.EffectivePrice(now),
		HasDiscount:     product.HasActiveDiscount(now),
	}
}

func (srv *productService) find(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// checkCategory rejects a reference to a category that does not exist.
func (srv *productService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}

	if _, err := srv.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return errors.Wrap(domainerrors.ErrCategoryNotFound, "product category not found")
		}

		return errors.Wrap(err, "failed to find product category")
	}

	return nil
}

func applyProductInput(product *entity.Product, input usecase.ProductInput, now time.Time) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	}
	if input.BasePrice.IsNegative() || input.Stock < 0 {
		return domainerrors.ErrValidationFailed.WithDetails("price and stock cannot be negative")
	}

	var discount *entity.DiscountRule
	if input.Discount != nil && input.Discount.Kind != "" {
		discount = entity.ParseDiscountRule(input.Discount.Kind, input.Discount.Value, input.Discount.ExpiresAt)
		if discount == nil {
			return errors.Wrap(domainerrors.ErrInvalidDiscountRule, "product discount rejected")
		}
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.Unit = input.Unit
	product.Brand = input.Brand
	product.Stock = input.Stock
	product.IsAvailable = input.IsAvailable
	product.IsPromotionEligible = input.IsPromotionEligible
	product.Discount = discount
	product.ChangeBasePrice(input.BasePrice, now)
	product.UpdatedAt = now

	return nil
}
