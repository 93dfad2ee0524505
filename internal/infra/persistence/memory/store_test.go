package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func seedProduct(t *testing.T, store *Store, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		ID:          uuid.New(),
		Name:        "Basmati Rice",
		BasePrice:   decimal.RequireFromString("120.00"),
		Stock:       stock,
		IsAvailable: true,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}
	require.NoError(t, NewProductRepository(store).Create(context.Background(), product))

	return product
}

func TestTransactionManager_Execute_RollsBackOnError(t *testing.T) {
	store := NewStore()
	product := seedProduct(t, store, 5)
	tm := NewTransactionManager(store)
	errBoom := errors.New("boom")

	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		require.NoError(t, f.NewProductRepository().DecrementStock(context.Background(), product.ID, 3))

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	stored, err := NewProductRepository(store).FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
}

func TestTransactionManager_Execute_Commits(t *testing.T) {
	store := NewStore()
	product := seedProduct(t, store, 5)
	tm := NewTransactionManager(store)

	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		return f.NewProductRepository().DecrementStock(context.Background(), product.ID, 5)
	})
	require.NoError(t, err)

	stored, err := NewProductRepository(store).FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)
}

func TestProductRepository_DecrementStock_Guarded(t *testing.T) {
	store := NewStore()
	product := seedProduct(t, store, 2)
	repo := NewProductRepository(store)

	require.ErrorIs(t, repo.DecrementStock(context.Background(), product.ID, 3), repository.ErrStockNotDecremented)
	require.ErrorIs(t, repo.DecrementStock(context.Background(), uuid.New(), 1), repository.ErrStockNotDecremented)
	require.NoError(t, repo.DecrementStock(context.Background(), product.ID, 2))
}

func TestProductRepository_DecrementStock_ConcurrentNeverNegative(t *testing.T) {
	store := NewStore()
	product := seedProduct(t, store, 10)
	repo := NewProductRepository(store)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.DecrementStock(context.Background(), product.ID, 1) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, stored.Stock)
}

func TestProductRepository_List_Filters(t *testing.T) {
	store := NewStore()
	repo := NewProductRepository(store)
	rice := seedProduct(t, store, 1)
	hidden := &entity.Product{ID: uuid.New(), Name: "Brown Rice", CreatedAt: testNow.Add(time.Minute)}
	require.NoError(t, repo.Create(context.Background(), hidden))

	all, err := repo.List(context.Background(), repository.ProductFilter{Search: "RICE"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, hidden.ID, all[0].ID)

	available, err := repo.List(context.Background(), repository.ProductFilter{OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, rice.ID, available[0].ID)

	paged, err := repo.List(context.Background(), repository.ProductFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, rice.ID, paged[0].ID)
}

func TestProductRepository_List_CategoryFilters(t *testing.T) {
	store := NewStore()
	categories := NewCategoryRepository(store)
	products := NewProductRepository(store)
	grains := &entity.Category{ID: uuid.New(), Name: "Grains", Image: "grains.png", IsActive: true, CreatedAt: testNow}
	snacks := &entity.Category{ID: uuid.New(), Name: "Snacks", Image: "snacks.png", CreatedAt: testNow}
	require.NoError(t, categories.Create(context.Background(), grains))
	require.NoError(t, categories.Create(context.Background(), snacks))

	rice := seedProduct(t, store, 5)
	rice.CategoryID = &grains.ID
	require.NoError(t, products.Update(context.Background(), rice))
	chips := &entity.Product{ID: uuid.New(), Name: "Chips", CategoryID: &snacks.ID, IsAvailable: true, CreatedAt: testNow.Add(time.Minute)}
	loose := &entity.Product{ID: uuid.New(), Name: "Salt", IsAvailable: true, CreatedAt: testNow.Add(2 * time.Minute)}
	require.NoError(t, products.Create(context.Background(), chips))
	require.NoError(t, products.Create(context.Background(), loose))

	visible, err := products.List(context.Background(), repository.ProductFilter{OnlyAvailable: true, ActiveCategoriesOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, loose.ID, visible[0].ID)
	assert.Equal(t, rice.ID, visible[1].ID)

	inGrains, err := products.List(context.Background(), repository.ProductFilter{CategoryID: &grains.ID})
	require.NoError(t, err)
	require.Len(t, inGrains, 1)
	assert.Equal(t, rice.ID, inGrains[0].ID)
}

func TestCategoryRepository_UniqueNames(t *testing.T) {
	store := NewStore()
	repo := NewCategoryRepository(store)
	dairy := &entity.Category{ID: uuid.New(), Name: "Dairy", Image: "dairy.png", IsActive: true, CreatedAt: testNow}
	bakery := &entity.Category{ID: uuid.New(), Name: "Bakery", Image: "bakery.png", CreatedAt: testNow}
	require.NoError(t, repo.Create(context.Background(), dairy))
	require.NoError(t, repo.Create(context.Background(), bakery))

	clash := &entity.Category{ID: uuid.New(), Name: "Dairy", Image: "x.png"}
	require.ErrorIs(t, repo.Create(context.Background(), clash), repository.ErrDuplicateCategoryName)

	renamed := *bakery
	renamed.Name = "Dairy"
	require.ErrorIs(t, repo.Update(context.Background(), &renamed), repository.ErrDuplicateCategoryName)

	dairy.Description = "milk and curd"
	require.NoError(t, repo.Update(context.Background(), dairy))

	active, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "milk and curd", active[0].Description)

	all, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bakery", all[0].Name)
}

func TestCartRepository_Save_VersionGuard(t *testing.T) {
	store := NewStore()
	repo := NewCartRepository(store)
	userID := uuid.New()
	require.NoError(t, repo.Create(context.Background(), entity.NewCart(uuid.New(), userID, testNow)))
	require.ErrorIs(t, repo.Create(context.Background(), entity.NewCart(uuid.New(), userID, testNow)), repository.ErrCartAlreadyExists)

	first, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	second, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), first))
	assert.Equal(t, int64(1), first.Version)
	require.ErrorIs(t, repo.Save(context.Background(), second), repository.ErrCartVersionConflict)
}

func TestCartRepository_Save_DropsOrphanMarker(t *testing.T) {
	store := NewStore()
	repo := NewCartRepository(store)
	userID := uuid.New()
	cart := entity.NewCart(uuid.New(), userID, testNow)
	cart.Lines = append(cart.Lines, &entity.CartLine{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, Orphaned: true})
	require.NoError(t, repo.Create(context.Background(), cart))

	stored, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.False(t, stored.Lines[0].Orphaned)

	stored.Lines[0].Quantity = 9
	again, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Lines[0].Quantity)
}

func TestPromotionRepository_RecordUsage_Caps(t *testing.T) {
	store := NewStore()
	repo := NewPromotionRepository(store)
	total := 2
	promotion := &entity.Promotion{
		ID:           uuid.New(),
		Code:         "FRESH10",
		Name:         "Fresh",
		UsageType:    entity.UsageSingle,
		MaxTotalUses: &total,
		IsActive:     true,
		ValidFrom:    testNow.Add(-time.Hour),
		CreatedAt:    testNow,
	}
	require.NoError(t, repo.Create(context.Background(), promotion))
	require.ErrorIs(t, repo.Create(context.Background(), promotion), repository.ErrDuplicatePromotionCode)

	one := 1
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, repo.RecordUsage(context.Background(), promotion.ID, alice, &one, testNow))
	require.ErrorIs(t, repo.RecordUsage(context.Background(), promotion.ID, alice, &one, testNow), repository.ErrPromotionUsageRejected)
	require.NoError(t, repo.RecordUsage(context.Background(), promotion.ID, bob, &one, testNow))
	require.ErrorIs(t, repo.RecordUsage(context.Background(), promotion.ID, carol, &one, testNow), repository.ErrPromotionUsageRejected)

	stored, err := repo.FindByCode(context.Background(), "FRESH10")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.UsedCount)
	assert.Empty(t, stored.Usage)

	usages, err := repo.UsagesByUser(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, 1, usages[promotion.ID].Count)
}

func TestPromotionRepository_Update_KeepsCounters(t *testing.T) {
	store := NewStore()
	repo := NewPromotionRepository(store)
	promotion := &entity.Promotion{ID: uuid.New(), Code: "OLD", Name: "Old", UsageType: entity.UsageGeneral, IsActive: true, CreatedAt: testNow}
	require.NoError(t, repo.Create(context.Background(), promotion))
	require.NoError(t, repo.RecordUsage(context.Background(), promotion.ID, uuid.New(), nil, testNow))

	promotion.Code = "NEW"
	promotion.UsedCount = 0
	require.NoError(t, repo.Update(context.Background(), promotion))

	_, err := repo.FindByCode(context.Background(), "OLD")
	require.ErrorIs(t, err, repository.ErrPromotionNotFound)
	stored, err := repo.FindByCode(context.Background(), "NEW")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestPromotionRepository_List_ActiveAt(t *testing.T) {
	store := NewStore()
	repo := NewPromotionRepository(store)
	past := testNow.Add(-time.Hour)
	active := &entity.Promotion{ID: uuid.New(), Code: "A", IsActive: true, ValidFrom: past, CreatedAt: testNow}
	expired := &entity.Promotion{ID: uuid.New(), Code: "B", IsActive: true, ValidFrom: past.Add(-time.Hour), ValidTo: &past, CreatedAt: testNow}
	disabled := &entity.Promotion{ID: uuid.New(), Code: "C", ValidFrom: past, CreatedAt: testNow}
	for _, p := range []*entity.Promotion{active, expired, disabled} {
		require.NoError(t, repo.Create(context.Background(), p))
	}

	listed, err := repo.List(context.Background(), repository.PromotionFilter{ActiveAt: &testNow})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, active.ID, listed[0].ID)
}

func TestOrderRepository_UpdateStatus_Guarded(t *testing.T) {
	store := NewStore()
	repo := NewOrderRepository(store)
	order := &entity.Order{ID: uuid.New(), UserID: uuid.New(), Status: entity.OrderPlaced, PlacedAt: testNow}
	require.NoError(t, repo.Create(context.Background(), order))

	order.Status = entity.OrderConfirmed
	require.NoError(t, repo.UpdateStatus(context.Background(), order, entity.OrderPlaced))
	require.ErrorIs(t, repo.UpdateStatus(context.Background(), order, entity.OrderPlaced), repository.ErrOrderStatusConflict)

	order.ID = uuid.New()
	require.ErrorIs(t, repo.UpdateStatus(context.Background(), order, entity.OrderPlaced), repository.ErrOrderNotFound)
}

func TestAddressRepository_SetDefault_SingleDefault(t *testing.T) {
	store := NewStore()
	repo := NewAddressRepository(store)
	userID := uuid.New()
	home := &entity.Address{ID: uuid.New(), UserID: userID, IsDefault: true, CreatedAt: testNow}
	work := &entity.Address{ID: uuid.New(), UserID: userID, CreatedAt: testNow.Add(time.Minute)}
	require.NoError(t, repo.Create(context.Background(), home))
	require.NoError(t, repo.Create(context.Background(), work))

	require.NoError(t, repo.SetDefault(context.Background(), userID, work.ID))
	require.ErrorIs(t, repo.SetDefault(context.Background(), uuid.New(), work.ID), repository.ErrAddressNotFound)

	listed, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, work.ID, listed[0].ID)
	assert.True(t, listed[0].IsDefault)
	assert.False(t, listed[1].IsDefault)
}

func TestAddressRepository_Update_OwnerOnly(t *testing.T) {
	store := NewStore()
	repo := NewAddressRepository(store)
	userID := uuid.New()
	home := &entity.Address{ID: uuid.New(), UserID: userID, Street: "1 Old St", IsDefault: true, CreatedAt: testNow}
	require.NoError(t, repo.Create(context.Background(), home))

	edited := *home
	edited.Street = "2 New St"
	edited.IsDefault = false
	require.NoError(t, repo.Update(context.Background(), &edited))

	foreign := edited
	foreign.UserID = uuid.New()
	require.ErrorIs(t, repo.Update(context.Background(), &foreign), repository.ErrAddressNotFound)

	stored, err := repo.FindByID(context.Background(), home.ID)
	require.NoError(t, err)
	assert.Equal(t, "2 New St", stored.Street)
	assert.True(t, stored.IsDefault)
	assert.Equal(t, userID, stored.UserID)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	store := NewStore()
	repo := NewUserRepository(store)
	user := &entity.User{ID: uuid.New(), Email: "a@example.com", Role: entity.RoleCustomer, CreatedAt: testNow}
	require.NoError(t, repo.Create(context.Background(), user))

	dup := &entity.User{ID: uuid.New(), Email: "a@example.com"}
	require.ErrorIs(t, repo.Create(context.Background(), dup), repository.ErrDuplicateEmail)

	found, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}
