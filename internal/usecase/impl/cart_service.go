package impl

import (
	"context"
	"log/slog"

	"basket/config"
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

// cartService implements the CartUsecase interface.
type cartService struct {
	cartRepo        repository.CartRepository
	productRepo     repository.ProductRepository
	locker          service.CartLocker
	clock           service.Clock
	ids             service.IDGenerator
	maxLineQuantity int
	logger          *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Locker      service.CartLocker
	Clock       service.Clock
	IDs         service.IDGenerator
	Config      *config.Config
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		cartRepo:        params.CartRepo,
		productRepo:     params.ProductRepo,
		locker:          params.Locker,
		clock:           params.Clock,
		ids:             params.IDs,
		maxLineQuantity: params.Config.MaxLineQuantity(),
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// cartMutation changes a working copy of the cart. products holds the live
// products of every line that existed before the mutation.
type cartMutation func(ctx context.Context, cart *entity.Cart, products entity.ProductsByID) error

// GetCart loads and reconciles the cart, persisting changed drift flags.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	return srv.reconcile(ctx, userID)
}

// Validate reports stock and price issues of the cart.
func (srv *cartService) Validate(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	view, err := srv.reconcile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(view.Issues) > 0 {
		srv.log(ctx).Debug("Cart validation found issues", slog.Any("userID", userID), slog.Int("issues", len(view.Issues)))
	}

	return view, nil
}

// AddLine puts a product into the cart or increments its existing line.
func (srv *cartService) AddLine(ctx context.Context, userID uuid.UUID, input usecase.AddLineInput) (*usecase.CartView, error) {
	if input.Quantity < 1 {
		return nil, errors.Wrap(domainerrors.ErrInvalidQuantity, "quantity must be positive")
	}

	return srv.mutate(ctx, userID, func(ctx context.Context, cart *entity.Cart, products entity.ProductsByID) error {
		product, err := srv.productRepo.FindByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product to add not found")
			}

			return errors.Wrap(err, "failed to find product")
		}
		products[product.ID] = product

		if _, err := cart.Add(product, input.Quantity, srv.maxLineQuantity, srv.ids.NewID(), srv.clock.Now()); err != nil {
			return errors.Wrap(err, "failed to add line")
		}

		return nil
	})
}

// UpdateLine sets the quantity of a line.
func (srv *cartService) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, quantity int) (*usecase.CartView, error) {
	return srv.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart, _ entity.ProductsByID) error {
		_, err := cart.UpdateQuantity(lineID, quantity, srv.maxLineQuantity, srv.clock.Now())

		return errors.Wrap(err, "failed to update line")
	})
}

// RemoveLine deletes a line, orphaned or not.
func (srv *cartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) (*usecase.CartView, error) {
	return srv.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart, _ entity.ProductsByID) error {
		return errors.Wrap(cart.Remove(lineID, srv.clock.Now()), "failed to remove line")
	})
}

// AcceptPrice adopts the live price of a line.
func (srv *cartService) AcceptPrice(ctx context.Context, userID, lineID uuid.UUID) (*usecase.CartView, error) {
	return srv.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart, products entity.ProductsByID) error {
		err := cart.AcceptPrice(lineID, productForLine(cart, products, lineID), srv.clock.Now())

		return errors.Wrap(err, "failed to accept price")
	})
}

// AcceptStock clamps a line to live stock.
func (srv *cartService) AcceptStock(ctx context.Context, userID, lineID uuid.UUID) (*usecase.CartView, error) {
	return srv.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart, products entity.ProductsByID) error {
		err := cart.AcceptStock(lineID, productForLine(cart, products, lineID), srv.clock.Now())

		return errors.Wrap(err, "failed to accept stock")
	})
}

// AcceptAll adopts the live price and clamps to live stock in one step.
func (srv *cartService) AcceptAll(ctx context.Context, userID, lineID uuid.UUID) (*usecase.CartView, error) {
	return srv.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart, products entity.ProductsByID) error {
		err := cart.AcceptAll(lineID, productForLine(cart, products, lineID), srv.clock.Now())

		return errors.Wrap(err, "failed to accept price and stock")
	})
}

// Clear empties the cart.
func (srv *cartService) Clear(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	return srv.mutate(ctx, userID, func(_ context.Context, cart *entity.Cart, _ entity.ProductsByID) error {
		cart.Clear(srv.clock.Now())

		return nil
	})
}

func (srv *cartService) reconcile(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	cart, products, err := srv.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := entity.Reconcile(cart, products, srv.clock.Now())
	if result.Changed {
		// A concurrent mutation already reconciled and saved; its flags win.
		if err := srv.cartRepo.Save(ctx, cart); err != nil && !errors.Is(err, repository.ErrCartVersionConflict) {
			return nil, errors.Wrap(err, "failed to save reconciled cart")
		}
	}

	return newCartView(result, products), nil
}

// mutate runs fn on a reconciled copy of the user's cart under the cart lock and
// saves the copy only when fn succeeds. The stored cart is untouched on failure.
func (srv *cartService) mutate(ctx context.Context, userID uuid.UUID, fn cartMutation) (*usecase.CartView, error) {
	release, err := srv.lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			srv.log(ctx).Warn("Failed to release cart lock", slog.Any("userID", userID), slog.Any("error", err))
		}
	}()

	stored, products, err := srv.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := srv.clock.Now()
	entity.Reconcile(stored, products, now)

	working := stored.Clone()
	if err := fn(ctx, working, products); err != nil {
		srv.log(ctx).Debug("Cart mutation rejected", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	result := entity.Reconcile(working, products, now)
	if err := srv.cartRepo.Save(ctx, working); err != nil {
		if errors.Is(err, repository.ErrCartVersionConflict) {
			return nil, errors.Wrap(domainerrors.ErrConflict, "cart changed while it was being updated")
		}

		return nil, errors.Wrap(err, "failed to save cart")
	}

	return newCartView(result, products), nil
}

func (srv *cartService) lock(ctx context.Context, userID uuid.UUID) (service.ReleaseFunc, error) {
	release, err := srv.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			return nil, errors.Wrap(domainerrors.ErrCartBusy, "cart is locked by another request")
		}

		return nil, errors.Wrap(err, "failed to lock cart")
	}

	return release, nil
}

func (srv *cartService) load(ctx context.Context, userID uuid.UUID) (*entity.Cart, entity.ProductsByID, error) {
	return loadCart(ctx, srv.cartRepo, srv.productRepo, userID)
}

// loadCart fetches the user's cart and the live products its lines reference.
func loadCart(
	ctx context.Context,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userID uuid.UUID,
) (*entity.Cart, entity.ProductsByID, error) {
	cart, err := cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrCartNotFound, "user has no cart")
		}

		return nil, nil, errors.Wrap(err, "failed to find cart")
	}

	products := entity.ProductsByID{}
	if cart.IsEmpty() {
		return cart, products, nil
	}

	found, err := productRepo.FindByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to find cart products")
	}

	return cart, entity.IndexProducts(found), nil
}

func productForLine(cart *entity.Cart, products entity.ProductsByID, lineID uuid.UUID) *entity.Product {
	line, ok := cart.Line(lineID)
	if !ok {
		return nil
	}

	return products[line.ProductID]
}

func newCartView(result entity.ReconcileResult, products entity.ProductsByID) *usecase.CartView {
	return &usecase.CartView{
		Cart:          result.Cart,
		Products:      products,
		Issues:        result.Issues,
		OrphanedLines: result.OrphanedLines(),
	}
}

func cartLockKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}
