package impl

import (
	"context"
	"log/slog"
	"time"

	"basket/config"
	deliverycontext "basket/internal/delivery/context"
	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/domain/repository"
	"basket/internal/domain/service"
	"basket/internal/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager      repository.TransactionManager
	cartRepo       repository.CartRepository
	productRepo    repository.ProductRepository
	promotionRepo  repository.PromotionRepository
	orderRepo      repository.OrderRepository
	addressRepo    repository.AddressRepository
	locker         service.CartLocker
	publisher      service.EventPublisher
	qrService      service.QRCodeService
	clock          service.Clock
	ids            service.IDGenerator
	deliveryPolicy entity.DeliveryPolicy
	defaultCountry string
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	CartRepo      repository.CartRepository
	ProductRepo   repository.ProductRepository
	PromotionRepo repository.PromotionRepository
	OrderRepo     repository.OrderRepository
	AddressRepo   repository.AddressRepository
	Locker        service.CartLocker
	Publisher     service.EventPublisher
	QRService     service.QRCodeService
	Clock         service.Clock
	IDs           service.IDGenerator
	Config        *config.Config
	Logger        *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	policy := entity.DefaultDeliveryPolicy()
	defaultCountry := ""
	if checkout := params.Config.Checkout; checkout != nil {
		policy = entity.DeliveryPolicy{
			FreeThreshold: decimal.NewFromFloat(checkout.FreeDeliveryThreshold),
			Fee:           decimal.NewFromFloat(checkout.DeliveryFee),
		}
		defaultCountry = checkout.DefaultCountry
	}

	return &orderService{
		txManager:      params.TxManager,
		cartRepo:       params.CartRepo,
		productRepo:    params.ProductRepo,
		promotionRepo:  params.PromotionRepo,
		orderRepo:      params.OrderRepo,
		addressRepo:    params.AddressRepo,
		locker:         params.Locker,
		publisher:      params.Publisher,
		qrService:      params.QRService,
		clock:          params.Clock,
		ids:            params.IDs,
		deliveryPolicy: policy,
		defaultCountry: defaultCountry,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// checkoutQuote is the priced order before it is committed.
type checkoutQuote struct {
	order        *entity.Order
	cart         *entity.Cart
	promotion    *entity.Promotion
	perUserLimit *int
}

// PlaceOrder converts the user's cart into an order. Every precondition is
// checked before anything is written; the commit is a single transaction.
func (srv *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, input usecase.PlaceOrderInput) (*entity.Order, error) {
	address, err := srv.resolveAddress(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	release, err := srv.locker.Lock(ctx, cartLockKey(userID))
	if err != nil {
		if errors.Is(err, service.ErrLockNotAcquired) {
			return nil, errors.Wrap(domainerrors.ErrCartBusy, "checkout already in progress")
		}

		return nil, errors.Wrap(err, "failed to lock cart")
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			srv.log(ctx).Warn("Failed to release cart lock", slog.Any("userID", userID), slog.Any("error", err))
		}
	}()

	quote, err := srv.quote(ctx, userID, address, input)
	if err != nil {
		srv.log(ctx).Info("Checkout rejected", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	if err := srv.commit(ctx, userID, quote); err != nil {
		srv.log(ctx).Warn("Failed to commit order", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	order := quote.order
	srv.log(ctx).Info("Order placed",
		slog.Any("userID", userID),
		slog.String("orderNumber", order.OrderNumber),
		slog.String("total", order.Total.StringFixed(entity.MoneyPlaces)),
	)
	srv.publish(ctx, service.EventOrderPlaced, order)

	return order, nil
}

func (srv *orderService) resolveAddress(ctx context.Context, userID uuid.UUID, input usecase.PlaceOrderInput) (entity.DeliveryAddress, error) {
	var address entity.DeliveryAddress

	switch {
	case input.AddressID != nil:
		saved, err := srv.addressRepo.FindByID(ctx, *input.AddressID)
		if err != nil && !errors.Is(err, repository.ErrAddressNotFound) {
			return address, errors.Wrap(err, "failed to find delivery address")
		}
		if err != nil || saved.UserID != userID {
			return address, errors.Wrap(domainerrors.ErrAddressNotFound, "delivery address not found")
		}
		address = saved.Snapshot()
	case input.DeliveryAddress != nil:
		address = *input.DeliveryAddress
	}

	address = address.WithDefaultCountry(srv.defaultCountry)
	if !address.IsComplete() || !input.PaymentMethod.IsValid() {
		return address, errors.Wrap(domainerrors.ErrMissingCheckoutFields, "checkout form incomplete")
	}

	return address, nil
}

// quote runs the read-side checks in their fixed order and prices the order.
func (srv *orderService) quote(
	ctx context.Context,
	userID uuid.UUID,
	address entity.DeliveryAddress,
	input usecase.PlaceOrderInput,
) (*checkoutQuote, error) {
	now := srv.clock.Now()

	cart, products, err := loadCart(ctx, srv.cartRepo, srv.productRepo, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCartNotFound) {
			return nil, errors.Wrap(domainerrors.ErrEmptyCart, "user has no cart")
		}

		return nil, err
	}
	if cart.IsEmpty() {
		return nil, errors.Wrap(domainerrors.ErrEmptyCart, "nothing to order")
	}

	result := entity.Reconcile(cart, products, now)
	if orphaned := result.OrphanedLines(); len(orphaned) > 0 {
		return nil, domainerrors.ErrOrphanedLine.WithDetails(map[string]any{"line_ids": orphaned})
	}
	if err := checkStock(cart, products); err != nil {
		srv.keepDriftFlags(ctx, result)

		return nil, err
	}
	if cart.HasPriceDrift() {
		srv.keepDriftFlags(ctx, result)

		return nil, domainerrors.ErrPriceDrift.WithDetails(map[string]any{"issues": len(result.Issues)})
	}

	quote := &checkoutQuote{cart: cart}
	promoDiscount := decimal.Zero
	var applied []entity.AppliedPromotion

	if code := entity.NormalizeCode(input.PromoCode); code != "" {
		eligibleTotal := entity.PromoEligibleTotal(cart, products)
		promo, err := srv.validatePromotion(ctx, userID, code, eligibleTotal, now)
		if err != nil {
			return nil, err
		}

		promoDiscount = promo.DiscountFor(eligibleTotal)
		applied = []entity.AppliedPromotion{{
			PromotionID:    promo.ID,
			Code:           promo.Code,
			Name:           promo.Name,
			DiscountKind:   promo.Discount.Kind,
			DiscountValue:  promo.Discount.Magnitude,
			DiscountAmount: promoDiscount,
		}}
		quote.promotion = promo
		if limit, ok := promo.PerUserLimit(); ok {
			quote.perUserLimit = &limit
		}
	}

	deliveryFee := srv.deliveryPolicy.FeeFor(cart.Subtotal)
	quote.order = &entity.Order{
		ID:                srv.ids.NewID(),
		OrderNumber:       srv.ids.NewOrderNumber(now),
		UserID:            userID,
		Lines:             snapshotLines(cart, products),
		Subtotal:          cart.Subtotal,
		ProductDiscounts:  cart.Discounts,
		AppliedPromotions: applied,
		DeliveryFee:       deliveryFee,
		Total:             entity.OrderTotal(cart.Subtotal, cart.Discounts, promoDiscount, deliveryFee),
		Payment: entity.Payment{
			Method: input.PaymentMethod,
			Status: entity.InitialPaymentStatus(input.PaymentMethod),
		},
		DeliveryAddress: address,
		Status:          entity.OrderPlaced,
		PlacedAt:        now,
		UpdatedAt:       now,
	}

	return quote, nil
}

// checkStock fails on the first line whose quantity exceeds live stock, then
// on the first line whose product is no longer for sale.
func checkStock(cart *entity.Cart, products entity.ProductsByID) error {
	for _, line := range cart.Lines {
		product := products[line.ProductID]
		if line.Quantity > product.Stock {
			return domainerrors.NewInsufficientStockError(product.ID.String(), product.Stock, line.Quantity)
		}
	}
	for _, line := range cart.Lines {
		if product := products[line.ProductID]; !product.IsAvailable {
			return domainerrors.ErrProductUnavailable.WithDetails(map[string]string{"product_id": product.ID.String()})
		}
	}

	return nil
}

// keepDriftFlags saves the flags a rejected checkout reported, so the stored
// cart matches the rejection.
func (srv *orderService) keepDriftFlags(ctx context.Context, result entity.ReconcileResult) {
	if !result.Changed {
		return
	}

	if err := srv.cartRepo.Save(ctx, result.Cart); err != nil && !errors.Is(err, repository.ErrCartVersionConflict) {
		srv.log(ctx).Warn("Failed to save cart drift flags", slog.Any("userID", result.Cart.UserID), slog.Any("error", err))
	}
}

func (srv *orderService) validatePromotion(
	ctx context.Context,
	userID uuid.UUID,
	code string,
	eligibleTotal decimal.Decimal,
	now time.Time,
) (*entity.Promotion, error) {
	promo, err := srv.promotionRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrPromotionNotFound) {
			return nil, domainerrors.ErrPromotionInvalid.WithDetails(map[string]string{"code": code, "reason": "unknown_code"})
		}

		return nil, errors.Wrap(err, "failed to find promotion")
	}

	usages, err := srv.promotionRepo.UsagesByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load promotion usage")
	}
	attachUsage(promo, userID, usages)

	if reason := promo.IneligibilityReason(userID, eligibleTotal, now); reason != "" {
		return nil, domainerrors.ErrPromotionInvalid.WithDetails(map[string]string{"code": code, "reason": reason})
	}

	return promo, nil
}

// commit writes the order, decrements stock, clears the cart and records the
// promotion usage in one transaction. Any guard failure rolls everything back.
func (srv *orderService) commit(ctx context.Context, userID uuid.UUID, quote *checkoutQuote) error {
	order := quote.order

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()
		productRepo := repoFactory.NewProductRepository()
		cartRepo := repoFactory.NewCartRepository()
		promotionRepo := repoFactory.NewPromotionRepository()

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		for _, line := range order.Lines {
			err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if errors.Is(err, repository.ErrStockNotDecremented) {
				return srv.stockShortage(ctx, productRepo, line)
			}
			if err != nil {
				return errors.Wrap(err, "failed to decrement stock")
			}
		}

		cart := quote.cart
		cart.Clear(order.PlacedAt)
		if err := cartRepo.Save(ctx, cart); err != nil {
			if errors.Is(err, repository.ErrCartVersionConflict) {
				return errors.Wrap(domainerrors.ErrConflict, "cart changed during checkout")
			}

			return errors.Wrap(err, "failed to clear cart")
		}

		if quote.promotion == nil {
			return nil
		}

		err := promotionRepo.RecordUsage(ctx, quote.promotion.ID, userID, quote.perUserLimit, order.PlacedAt)
		if errors.Is(err, repository.ErrPromotionUsageRejected) {
			return domainerrors.ErrPromotionInvalid.WithDetails(map[string]string{
				"code":   quote.promotion.Code,
				"reason": entity.ReasonGlobalCapReached,
			})
		}

		return errors.Wrap(err, "failed to record promotion usage")
	})
}

func (srv *orderService) stockShortage(ctx context.Context, productRepo repository.ProductRepository, line entity.OrderLine) error {
	available := 0
	if product, err := productRepo.FindByID(ctx, line.ProductID); err == nil {
		available = product.Stock
	}

	return domainerrors.NewInsufficientStockError(line.ProductID.String(), available, line.Quantity)
}

func snapshotLines(cart *entity.Cart, products entity.ProductsByID) []entity.OrderLine {
	lines := make([]entity.OrderLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, entity.OrderLine{
			ProductID:       line.ProductID,
			Name:            products[line.ProductID].Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.CurrentPrice,
			DiscountApplied: line.DiscountApplied.Clone(),
		})
	}

	return lines
}

// GetOrder returns an order owned by userID.
func (srv *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	return order, nil
}

// ListOrders lists the user's orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID, input usecase.ListOrdersInput) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		UserID: &userID,
		Status: input.Status,
		Limit:  normalizeLimit(input.Limit),
		Offset: input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// ListAll lists orders of every user.
func (srv *orderService) ListAll(ctx context.Context, input usecase.ListOrdersInput) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.List(ctx, repository.OrderFilter{
		Status: input.Status,
		Limit:  normalizeLimit(input.Limit),
		Offset: input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// UpdateStatus moves an order along its lifecycle.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, input usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	order, err := srv.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return srv.transition(ctx, order, input.Status, input.Reason)
}

// GenerateDeliveryQR renders the doorstep QR code of an order.
func (srv *orderService) GenerateDeliveryQR(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, errors.Wrap(domainerrors.ErrInvalidStatusTransition, "order is already closed")
	}

	png, err := srv.qrService.GenerateDeliveryQR(order.ID, order.OrderNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate delivery QR code")
	}

	return png, nil
}

// ConfirmDelivery marks the order encoded in a scanned QR payload as delivered.
func (srv *orderService) ConfirmDelivery(ctx context.Context, qrPayload string) (*entity.Order, error) {
	orderID, err := srv.qrService.ParseDeliveryQR(qrPayload)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidQRCode, err.Error())
	}

	order, err := srv.find(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return srv.transition(ctx, order, entity.OrderDelivered, "")
}

func (srv *orderService) transition(ctx context.Context, order *entity.Order, next entity.OrderStatus, reason string) (*entity.Order, error) {
	from := order.Status
	if err := order.TransitionTo(next, reason, srv.clock.Now()); err != nil {
		return nil, err
	}

	if err := srv.orderRepo.UpdateStatus(ctx, order, from); err != nil {
		if errors.Is(err, repository.ErrOrderStatusConflict) {
			return nil, errors.Wrap(domainerrors.ErrInvalidStatusTransition, "order status changed concurrently")
		}

		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status changed",
		slog.String("orderNumber", order.OrderNumber),
		slog.String("from", string(from)),
		slog.String("to", string(next)),
	)
	srv.publish(ctx, service.EventOrderStatusChanged, order)

	return order, nil
}

func (srv *orderService) find(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// publish emits an order event after the fact. Failures are logged and dropped.
func (srv *orderService) publish(ctx context.Context, eventType string, order *entity.Order) {
	event := &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Type:        eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID.String(),
		Status:      string(order.Status),
		Total:       order.Total.StringFixed(entity.MoneyPlaces),
		OccurredAt:  order.UpdatedAt,
	}
	if len(order.AppliedPromotions) > 0 {
		event.PromotionCode = order.AppliedPromotions[0].Code
	}

	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("type", eventType),
			slog.String("orderNumber", order.OrderNumber),
			slog.Any("error", err),
		)
	}
}
