// Package memory keeps every aggregate in process memory. It backs the
// "memory" storage driver and the usecase tests.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"basket/internal/domain/entity"
	"basket/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Module provides the in-memory persistence layer.
var Module = fx.Module("memory",
	fx.Provide(
		NewStore,
		NewTransactionManager,
		NewUserRepository,
		NewAddressRepository,
		NewCategoryRepository,
		NewProductRepository,
		NewCartRepository,
		NewPromotionRepository,
		NewOrderRepository,
	),
)

// state is one consistent version of the data. Values are owned by the
// store and never handed out; repositories copy on the way in and out.
type state struct {
	users      map[uuid.UUID]*entity.User
	emails     map[string]uuid.UUID
	addresses  map[uuid.UUID]*entity.Address
	categories map[uuid.UUID]*entity.Category
	products   map[uuid.UUID]*entity.Product
	carts      map[uuid.UUID]*entity.Cart // keyed by user
	promotions map[uuid.UUID]*entity.Promotion
	codes      map[string]uuid.UUID
	orders     map[uuid.UUID]*entity.Order
}

func newState() *state {
	return &state{
		users:      map[uuid.UUID]*entity.User{},
		emails:     map[string]uuid.UUID{},
		addresses:  map[uuid.UUID]*entity.Address{},
		categories: map[uuid.UUID]*entity.Category{},
		products:   map[uuid.UUID]*entity.Product{},
		carts:      map[uuid.UUID]*entity.Cart{},
		promotions: map[uuid.UUID]*entity.Promotion{},
		codes:      map[string]uuid.UUID{},
		orders:     map[uuid.UUID]*entity.Order{},
	}
}

func (s *state) clone() *state {
	cloned := newState()
	for id, user := range s.users {
		cloned.users[id] = cloneUser(user)
	}
	for email, id := range s.emails {
		cloned.emails[email] = id
	}
	for id, address := range s.addresses {
		cloned.addresses[id] = cloneAddress(address)
	}
	for id, category := range s.categories {
		cloned.categories[id] = cloneCategory(category)
	}
	for id, product := range s.products {
		cloned.products[id] = cloneProduct(product)
	}
	for userID, cart := range s.carts {
		cloned.carts[userID] = cart.Clone()
	}
	for id, promotion := range s.promotions {
		cloned.promotions[id] = promotion.Clone()
	}
	for code, id := range s.codes {
		cloned.codes[code] = id
	}
	for id, order := range s.orders {
		cloned.orders[id] = cloneOrder(order)
	}

	return cloned
}

// accessor runs fn against the state a repository is bound to.
type accessor interface {
	do(fn func(st *state) error) error
}

// Store is a mutex-guarded in-memory database.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) do(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.state)
}

// txAccessor works on the private copy of a running transaction. The store
// mutex is already held by Execute.
type txAccessor struct {
	st *state
}

func (a txAccessor) do(fn func(st *state) error) error {
	return fn(a.st)
}

// transactionManager serializes transactions on the store mutex.
type transactionManager struct {
	store *Store
}

// NewTransactionManager is the constructor for the in-memory TransactionManager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute runs fn on a copy of the state and publishes the copy only when fn
// succeeds. Repositories obtained outside fn must not be used inside it.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	working := tm.store.state.clone()
	if err := fn(&repositoryFactory{acc: txAccessor{st: working}}); err != nil {
		return err
	}
	tm.store.state = working

	return nil
}

// repositoryFactory hands out repositories bound to one transaction.
type repositoryFactory struct {
	acc accessor
}

func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return &userRepository{acc: f.acc}
}

func (f *repositoryFactory) NewAddressRepository() repository.AddressRepository {
	return &addressRepository{acc: f.acc}
}

func (f *repositoryFactory) NewProductRepository() repository.ProductRepository {
	return &productRepository{acc: f.acc}
}

func (f *repositoryFactory) NewCartRepository() repository.CartRepository {
	return &cartRepository{acc: f.acc}
}

func (f *repositoryFactory) NewPromotionRepository() repository.PromotionRepository {
	return &promotionRepository{acc: f.acc}
}

func (f *repositoryFactory) NewOrderRepository() repository.OrderRepository {
	return &orderRepository{acc: f.acc}
}

// page applies offset and limit to an already sorted slice.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}

// newestFirst orders by creation time descending, then by ID for stable pages.
func newestFirst(aAt, bAt time.Time, aID, bID uuid.UUID) int {
	if c := bAt.Compare(aAt); c != 0 {
		return c
	}

	return strings.Compare(aID.String(), bID.String())
}

func cloneUser(user *entity.User) *entity.User {
	cloned := *user

	return &cloned
}

func cloneAddress(address *entity.Address) *entity.Address {
	cloned := *address

	return &cloned
}

func cloneCategory(category *entity.Category) *entity.Category {
	cloned := *category

	return &cloned
}

func cloneProduct(product *entity.Product) *entity.Product {
	cloned := *product
	cloned.Discount = product.Discount.Clone()
	cloned.PriceHistory = slices.Clone(product.PriceHistory)
	if product.CategoryID != nil {
		categoryID := *product.CategoryID
		cloned.CategoryID = &categoryID
	}

	return &cloned
}

func cloneOrder(order *entity.Order) *entity.Order {
	cloned := *order
	cloned.Lines = make([]entity.OrderLine, len(order.Lines))
	for i, line := range order.Lines {
		line.DiscountApplied = line.DiscountApplied.Clone()
		cloned.Lines[i] = line
	}
	cloned.AppliedPromotions = slices.Clone(order.AppliedPromotions)

	return &cloned
}
