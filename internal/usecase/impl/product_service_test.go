package impl

import (
	"context"
	"testing"
	"time"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	mockRepo "basket/internal/mocks/repository"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productServiceFixtures struct {
	service      usecase.ProductUsecase
	productRepo  *mockRepo.MockProductRepository
	categoryRepo *mockRepo.MockCategoryRepository
	clock        *fakeClock
}

func createTestProductService(t *testing.T) productServiceFixtures {
	productRepo := mockRepo.NewMockProductRepository(t)
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	clock := newFakeClock()

	service := NewProductService(ProductServiceParams{
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		Clock:        clock,
		IDs:          &sequentialIDs{},
		Logger:       newDiscardLogger(),
	})

	return productServiceFixtures{service: service, productRepo: productRepo, categoryRepo: categoryRepo, clock: clock}
}

func TestProductService_Create_StartsPriceHistory(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()

	fx.productRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Product")).
		Return(nil)

	product, err := fx.service.Create(ctx, usecase.ProductInput{
		Name:        "Paneer",
		BasePrice:   money("90.00"),
		Stock:       20,
		IsAvailable: true,
		Discount:    &usecase.DiscountInput{Kind: "fixed", Value: 10},
	})
	require.NoError(t, err)
	require.Len(t, product.PriceHistory, 1)
	assert.True(t, money("90.00").Equal(product.PriceHistory[0].Price))
	assert.True(t, money("80.00").Equal(product.EffectivePrice(fx.clock.Now())))
}

func TestProductService_Create_Invalid(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()

	_, err := fx.service.Create(ctx, usecase.ProductInput{Name: "", BasePrice: money("1.00")})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.Create(ctx, usecase.ProductInput{Name: "Neg", BasePrice: money("-1.00")})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = fx.service.Create(ctx, usecase.ProductInput{Name: "Bad", BasePrice: money("1.00"), Discount: &usecase.DiscountInput{Kind: "bogo", Value: 1}})
	require.ErrorIs(t, err, domainerrors.ErrInvalidDiscountRule)
}

func TestProductService_Create_ChecksCategory(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	dairy := &entity.Category{ID: uuid.New(), Name: "Dairy", IsActive: true}
	missing := uuid.New()

	fx.categoryRepo.EXPECT().FindByID(ctx, dairy.ID).Return(dairy, nil)
	fx.categoryRepo.EXPECT().FindByID(ctx, missing).Return(nil, repository.ErrCategoryNotFound)
	fx.productRepo.EXPECT().
		Create(ctx, mock.MatchedBy(func(p *entity.Product) bool { return p.CategoryID != nil && *p.CategoryID == dairy.ID })).
		Return(nil)

	product, err := fx.service.Create(ctx, usecase.ProductInput{Name: "Curd", BasePrice: money("40.00"), CategoryID: &dairy.ID})
	require.NoError(t, err)
	assert.Equal(t, dairy.ID, *product.CategoryID)

	_, err = fx.service.Create(ctx, usecase.ProductInput{Name: "Ghost", BasePrice: money("1.00"), CategoryID: &missing})
	require.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
}

func TestProductService_Update_AppendsPriceChange(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	created := fx.clock.Now().Add(-24 * time.Hour)
	product := &entity.Product{
		ID:           uuid.New(),
		Name:         "Paneer",
		BasePrice:    money("90.00"),
		PriceHistory: []entity.PricePoint{{Price: money("90.00"), ChangedAt: created}},
		CreatedAt:    created,
	}

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.productRepo.EXPECT().
		Update(ctx, mock.MatchedBy(func(p *entity.Product) bool { return len(p.PriceHistory) == 2 })).
		Return(nil)

	updated, err := fx.service.Update(ctx, product.ID, usecase.ProductInput{Name: "Paneer", BasePrice: money("95.00"), Stock: 3})
	require.NoError(t, err)
	assert.True(t, money("95.00").Equal(updated.BasePrice))
}

func TestProductService_Get(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	product := &entity.Product{
		ID:        uuid.New(),
		Name:      "Ghee",
		BasePrice: money("500.00"),
		Discount:  entity.NewPercentageDiscount(decimal.NewFromInt(10), nil),
	}

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)

	view, err := fx.service.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, view.HasDiscount)
	assert.True(t, money("450.00").Equal(view.DiscountedPrice))

	missing := uuid.New()
	fx.productRepo.EXPECT().FindByID(ctx, missing).Return(nil, repository.ErrProductNotFound)
	_, err = fx.service.Get(ctx, missing)
	require.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_ListAvailable_FiltersForSale(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()

	dairyID := uuid.New()

	fx.productRepo.EXPECT().
		List(ctx, repository.ProductFilter{OnlyAvailable: true, ActiveCategoriesOnly: true, CategoryID: &dairyID, Search: "curd", Limit: 20}).
		Return([]*entity.Product{{ID: uuid.New(), Name: "Curd", BasePrice: money("40.00")}}, nil)

	views, err := fx.service.ListAvailable(ctx, usecase.ListProductsInput{CategoryID: &dairyID, Search: " curd ", Limit: 20})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].HasDiscount)
}

func TestProductService_SetAvailability(t *testing.T) {
	fx := createTestProductService(t)
	ctx := context.Background()
	product := &entity.Product{ID: uuid.New(), Name: "Curd", IsAvailable: true}

	fx.productRepo.EXPECT().FindByID(ctx, product.ID).Return(product, nil)
	fx.productRepo.EXPECT().
		Update(ctx, mock.MatchedBy(func(p *entity.Product) bool { return !p.IsAvailable })).
		Return(nil)

	updated, err := fx.service.SetAvailability(ctx, product.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
}
