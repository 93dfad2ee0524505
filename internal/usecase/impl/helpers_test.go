package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"basket/config"
	"basket/internal/domain/entity"
	"basket/internal/domain/repository"
	"basket/internal/domain/service"
	"basket/internal/infra/lock"
	"basket/internal/infra/persistence/memory"
	"basket/internal/infra/pubsub"
	"basket/internal/infra/qrcode"
	"basket/internal/infra/system"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Checkout: &config.CheckoutConfig{
			FreeDeliveryThreshold: 500,
			DeliveryFee:           50,
			DefaultCountry:        "India",
		},
		Cart: &config.CartConfig{MaxLineQuantity: 100},
	}
}

// fakeClock is a settable clock shared by a test and the services under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// storeFixture wires the cart, order and promotion services to one in-memory store.
type storeFixture struct {
	clock       *fakeClock
	store       *memory.Store
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	promoRepo   repository.PromotionRepository
	orderRepo   repository.OrderRepository
	ids         service.IDGenerator

	carts      *cartService
	orders     *orderService
	promotions *promotionService
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	store := memory.NewStore()
	f := &storeFixture{
		clock:       newFakeClock(),
		store:       store,
		txManager:   memory.NewTransactionManager(store),
		userRepo:    memory.NewUserRepository(store),
		addressRepo: memory.NewAddressRepository(store),
		productRepo: memory.NewProductRepository(store),
		cartRepo:    memory.NewCartRepository(store),
		promoRepo:   memory.NewPromotionRepository(store),
		orderRepo:   memory.NewOrderRepository(store),
		ids:         system.NewIDGenerator(),
	}

	cfg := newTestConfig()
	logger := newDiscardLogger()
	locker := lock.NewMemoryLocker(2 * time.Second)

	f.carts = NewCartService(CartServiceParams{
		CartRepo:    f.cartRepo,
		ProductRepo: f.productRepo,
		Locker:      locker,
		Clock:       f.clock,
		IDs:         f.ids,
		Config:      cfg,
		Logger:      logger,
	}).(*cartService)
	f.orders = NewOrderService(OrderServiceParams{
		TxManager:     f.txManager,
		CartRepo:      f.cartRepo,
		ProductRepo:   f.productRepo,
		PromotionRepo: f.promoRepo,
		OrderRepo:     f.orderRepo,
		AddressRepo:   f.addressRepo,
		Locker:        locker,
		Publisher:     pubsub.NewNoopPublisher(logger),
		QRService:     qrcode.NewQRCodeService(128, "M"),
		Clock:         f.clock,
		IDs:           f.ids,
		Config:        cfg,
		Logger:        logger,
	}).(*orderService)
	f.promotions = NewPromotionService(PromotionServiceParams{
		PromotionRepo: f.promoRepo,
		CartRepo:      f.cartRepo,
		ProductRepo:   f.productRepo,
		Clock:         f.clock,
		IDs:           f.ids,
		Logger:        logger,
	}).(*promotionService)

	return f
}

// newCustomer stores a customer with an empty cart.
func (f *storeFixture) newCustomer(t *testing.T) uuid.UUID {
	t.Helper()

	now := f.clock.Now()
	user := &entity.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Name: "Asha", Role: entity.RoleCustomer, CreatedAt: now}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	require.NoError(t, f.cartRepo.Create(context.Background(), entity.NewCart(uuid.New(), user.ID, now)))

	return user.ID
}

type productOption func(*entity.Product)

func withDiscount(rule *entity.DiscountRule) productOption {
	return func(p *entity.Product) { p.Discount = rule }
}

func notPromotionEligible() productOption {
	return func(p *entity.Product) { p.IsPromotionEligible = false }
}

func (f *storeFixture) newProduct(t *testing.T, name, price string, stock int, opts ...productOption) *entity.Product {
	t.Helper()

	now := f.clock.Now()
	product := &entity.Product{
		ID:                  uuid.New(),
		Name:                name,
		BasePrice:           decimal.RequireFromString(price),
		Stock:               stock,
		IsAvailable:         true,
		IsPromotionEligible: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, f.productRepo.Create(context.Background(), product))

	return product
}

// updateProduct edits the stored product the way an admin would.
func (f *storeFixture) updateProduct(t *testing.T, id uuid.UUID, edit func(*entity.Product)) {
	t.Helper()

	product, err := f.productRepo.FindByID(context.Background(), id)
	require.NoError(t, err)
	edit(product)
	require.NoError(t, f.productRepo.Update(context.Background(), product))
}

func (f *storeFixture) newPromotion(t *testing.T, code string, edit func(*entity.Promotion)) *entity.Promotion {
	t.Helper()

	now := f.clock.Now()
	promo := &entity.Promotion{
		ID:        uuid.New(),
		Code:      code,
		Name:      code,
		Discount:  *entity.NewPercentageDiscount(decimal.NewFromInt(10), nil),
		ValidFrom: now.Add(-time.Hour),
		UsageType: entity.UsageGeneral,
		Usage:     map[uuid.UUID]entity.PromotionUsage{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if edit != nil {
		edit(promo)
	}
	require.NoError(t, f.promoRepo.Create(context.Background(), promo))

	return promo
}

func testAddress() *entity.DeliveryAddress {
	return &entity.DeliveryAddress{
		Street:     "12 MG Road",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

// sequentialIDs hands out predictable identifiers.
type sequentialIDs struct {
	mu sync.Mutex
	n  uint32
}

func (g *sequentialIDs) NewID() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	var id uuid.UUID
	id[12], id[13], id[14], id[15] = byte(g.n>>24), byte(g.n>>16), byte(g.n>>8), byte(g.n)

	return id
}

func (g *sequentialIDs) NewOrderNumber(now time.Time) string {
	return "ORD-" + now.Format("20060102") + "-000000000001"
}
