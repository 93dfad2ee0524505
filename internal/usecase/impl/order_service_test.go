package impl

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/infra/qrcode"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *storeFixture) fillCart(t *testing.T, userID uuid.UUID, lines map[*entity.Product]int) {
	t.Helper()

	for product, quantity := range lines {
		_, err := f.carts.AddLine(context.Background(), userID, usecase.AddLineInput{ProductID: product.ID, Quantity: quantity})
		require.NoError(t, err)
	}
}

func codInput(code string) usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		DeliveryAddress: testAddress(),
		PaymentMethod:   entity.PaymentCOD,
		PromoCode:       code,
	}
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	bread := f.newProduct(t, "Bread", "45.00", 4)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 2, bread: 1})

	order, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
	require.NoError(t, err)

	assert.True(t, money("105.00").Equal(order.Subtotal))
	assert.True(t, money("50.00").Equal(order.DeliveryFee))
	assert.True(t, money("155.00").Equal(order.Total))
	assert.Equal(t, entity.OrderPlaced, order.Status)
	assert.Equal(t, entity.PaymentPending, order.Payment.Status)
	assert.Equal(t, "India", order.DeliveryAddress.Country)
	assert.Len(t, order.Lines, 2)
	assert.Regexp(t, `^ORD-20260310-[0-9A-F]{12}$`, order.OrderNumber)

	storedMilk, err := f.productRepo.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, storedMilk.Stock)
	storedBread, err := f.productRepo.FindByID(ctx, bread.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, storedBread.Stock)

	cart, err := f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	stored, err := f.orders.GetOrder(ctx, userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
}

func TestOrderService_PlaceOrder_FreeDeliveryAtThreshold(t *testing.T) {
	f := newStoreFixture(t)
	userID := f.newCustomer(t)
	oil := f.newProduct(t, "Olive Oil", "250.00", 5)
	f.fillCart(t, userID, map[*entity.Product]int{oil: 2})

	order, err := f.orders.PlaceOrder(context.Background(), userID, usecase.PlaceOrderInput{
		DeliveryAddress: testAddress(),
		PaymentMethod:   entity.PaymentUPI,
	})
	require.NoError(t, err)
	assert.True(t, order.DeliveryFee.IsZero())
	assert.True(t, money("500.00").Equal(order.Total))
	assert.Equal(t, entity.PaymentCompleted, order.Payment.Status)
}

func TestOrderService_PlaceOrder_SavedAddress(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 1})

	address := &entity.Address{ID: uuid.New(), UserID: userID, Label: entity.AddressLabelHome, Street: "4 Lake View", City: "Pune", State: "MH", PostalCode: "411002", Country: "India"}
	require.NoError(t, f.addressRepo.Create(ctx, address))

	foreign := uuid.New()
	_, err := f.orders.PlaceOrder(ctx, userID, usecase.PlaceOrderInput{AddressID: &foreign, PaymentMethod: entity.PaymentCOD})
	require.ErrorIs(t, err, domainerrors.ErrAddressNotFound)

	order, err := f.orders.PlaceOrder(ctx, userID, usecase.PlaceOrderInput{AddressID: &address.ID, PaymentMethod: entity.PaymentCOD})
	require.NoError(t, err)
	assert.Equal(t, "4 Lake View", order.DeliveryAddress.Street)
}

func TestOrderService_PlaceOrder_WithPromotion(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	bread := f.newProduct(t, "Bread", "45.00", 10, notPromotionEligible())
	promo := f.newPromotion(t, "SAVE10", nil)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 2, bread: 1})

	order, err := f.orders.PlaceOrder(ctx, userID, codInput(" save10 "))
	require.NoError(t, err)

	require.Len(t, order.AppliedPromotions, 1)
	assert.Equal(t, "SAVE10", order.AppliedPromotions[0].Code)
	assert.True(t, money("6.00").Equal(order.AppliedPromotions[0].DiscountAmount))
	assert.True(t, money("149.00").Equal(order.Total))

	stored, err := f.promoRepo.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
	usages, err := f.promoRepo.UsagesByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, usages[promo.ID].Count)
}

func TestOrderService_PlaceOrder_FixedPromotionClampsTotal(t *testing.T) {
	f := newStoreFixture(t)
	userID := f.newCustomer(t)
	gum := f.newProduct(t, "Gum", "10.00", 10)
	f.newPromotion(t, "BIG", func(p *entity.Promotion) {
		p.Discount = *entity.NewFixedDiscount(decimal.NewFromInt(100), nil)
	})
	f.fillCart(t, userID, map[*entity.Product]int{gum: 1})

	order, err := f.orders.PlaceOrder(context.Background(), userID, codInput("BIG"))
	require.NoError(t, err)
	assert.True(t, order.Total.IsZero())
}

func TestOrderService_PlaceOrder_SingleUsePromotion(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	f.newPromotion(t, "WELCOME", func(p *entity.Promotion) { p.UsageType = entity.UsageSingle })

	f.fillCart(t, userID, map[*entity.Product]int{milk: 1})
	_, err := f.orders.PlaceOrder(ctx, userID, codInput("WELCOME"))
	require.NoError(t, err)

	f.fillCart(t, userID, map[*entity.Product]int{milk: 1})
	_, err = f.orders.PlaceOrder(ctx, userID, codInput("WELCOME"))
	require.ErrorIs(t, err, domainerrors.ErrPromotionInvalid)

	var appErr *domainerrors.BaseError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, map[string]string{"code": "WELCOME", "reason": entity.ReasonUserCapReached}, appErr.Details())
}

func TestOrderService_PlaceOrder_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput
		wantErr error
	}{
		{
			name: "empty cart",
			arrange: func(_ *testing.T, _ *storeFixture, _ uuid.UUID) usecase.PlaceOrderInput {
				return codInput("")
			},
			wantErr: domainerrors.ErrEmptyCart,
		},
		{
			name: "missing address",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				f.fillCart(t, userID, map[*entity.Product]int{f.newProduct(t, "Milk", "30.00", 10): 1})

				return usecase.PlaceOrderInput{PaymentMethod: entity.PaymentCOD}
			},
			wantErr: domainerrors.ErrMissingCheckoutFields,
		},
		{
			name: "unknown payment method",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				f.fillCart(t, userID, map[*entity.Product]int{f.newProduct(t, "Milk", "30.00", 10): 1})

				return usecase.PlaceOrderInput{DeliveryAddress: testAddress(), PaymentMethod: "cheque"}
			},
			wantErr: domainerrors.ErrMissingCheckoutFields,
		},
		{
			name: "stock shortage",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				milk := f.newProduct(t, "Milk", "30.00", 10)
				f.fillCart(t, userID, map[*entity.Product]int{milk: 5})
				f.updateProduct(t, milk.ID, func(p *entity.Product) { p.Stock = 2 })

				return codInput("")
			},
			wantErr: domainerrors.ErrInsufficientStock,
		},
		{
			name: "price drift",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				milk := f.newProduct(t, "Milk", "30.00", 10)
				f.fillCart(t, userID, map[*entity.Product]int{milk: 1})
				f.updateProduct(t, milk.ID, func(p *entity.Product) { p.ChangeBasePrice(money("32.00"), f.clock.Now()) })

				return codInput("")
			},
			wantErr: domainerrors.ErrPriceDrift,
		},
		{
			name: "unavailable product",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				milk := f.newProduct(t, "Milk", "30.00", 10)
				f.fillCart(t, userID, map[*entity.Product]int{milk: 1})
				f.updateProduct(t, milk.ID, func(p *entity.Product) { p.IsAvailable = false })

				return codInput("")
			},
			wantErr: domainerrors.ErrProductUnavailable,
		},
		{
			name: "unknown promotion code",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				f.fillCart(t, userID, map[*entity.Product]int{f.newProduct(t, "Milk", "30.00", 10): 1})

				return codInput("NOPE")
			},
			wantErr: domainerrors.ErrPromotionInvalid,
		},
		{
			name: "below minimum order value",
			arrange: func(t *testing.T, f *storeFixture, userID uuid.UUID) usecase.PlaceOrderInput {
				f.fillCart(t, userID, map[*entity.Product]int{f.newProduct(t, "Milk", "30.00", 10): 1})
				f.newPromotion(t, "BULK", func(p *entity.Promotion) { p.MinOrderValue = money("1000.00") })

				return codInput("BULK")
			},
			wantErr: domainerrors.ErrPromotionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStoreFixture(t)
			ctx := context.Background()
			userID := f.newCustomer(t)
			input := tt.arrange(t, f, userID)
			before, err := f.cartRepo.FindByUserID(ctx, userID)
			require.NoError(t, err)

			_, err = f.orders.PlaceOrder(ctx, userID, input)
			require.ErrorIs(t, err, tt.wantErr)

			after, err := f.cartRepo.FindByUserID(ctx, userID)
			require.NoError(t, err)
			assert.Len(t, after.Lines, len(before.Lines))

			orders, err := f.orders.ListOrders(ctx, userID, usecase.ListOrdersInput{})
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestOrderService_PlaceOrder_DriftRejectionStoresFlags(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	bread := f.newProduct(t, "Bread", "45.00", 10)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 1, bread: 3})
	f.updateProduct(t, milk.ID, func(p *entity.Product) { p.ChangeBasePrice(money("32.00"), f.clock.Now()) })

	_, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
	require.ErrorIs(t, err, domainerrors.ErrPriceDrift)

	stored, err := f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	for _, line := range stored.Lines {
		assert.Equal(t, line.ProductID == milk.ID, line.PriceDrift, line.ProductID)
		assert.False(t, line.StockDrift)
	}

	f.updateProduct(t, bread.ID, func(p *entity.Product) { p.Stock = 2 })

	_, err = f.orders.PlaceOrder(ctx, userID, codInput(""))
	require.ErrorIs(t, err, domainerrors.ErrInsufficientStock)

	stored, err = f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	for _, line := range stored.Lines {
		assert.Equal(t, line.ProductID == bread.ID, line.StockDrift, line.ProductID)
	}
}

func TestOrderService_PlaceOrder_StockShortageLeavesStockUntouched(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	bread := f.newProduct(t, "Bread", "45.00", 10)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 2, bread: 3})
	f.updateProduct(t, bread.ID, func(p *entity.Product) { p.Stock = 1 })

	_, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
	var appErr *domainerrors.BaseError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, domainerrors.ErrInsufficientStock.ErrorCode(), appErr.ErrorCode())

	storedMilk, err := f.productRepo.FindByID(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, storedMilk.Stock)
}

func TestOrderService_PlaceOrder_ConcurrentStockNeverOversold(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	const stock, customers = 5, 12
	eggs := f.newProduct(t, "Eggs", "60.00", stock)

	users := make([]uuid.UUID, customers)
	for i := range users {
		users[i] = f.newCustomer(t)
		f.fillCart(t, users[i], map[*entity.Product]int{eggs: 1})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for _, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
			if err == nil {
				mu.Lock()
				placed++
				mu.Unlock()

				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	stored, err := f.productRepo.FindByID(ctx, eggs.ID)
	require.NoError(t, err)
	assert.Equal(t, stock, placed)
	assert.Equal(t, 0, stored.Stock)
}

func TestOrderService_PlaceOrder_ConcurrentPromotionCap(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	const limit, customers = 3, 10
	tea := f.newProduct(t, "Tea", "120.00", 100)
	promo := f.newPromotion(t, "FIRST3", func(p *entity.Promotion) { p.MaxTotalUses = intPtr(limit) })

	users := make([]uuid.UUID, customers)
	for i := range users {
		users[i] = f.newCustomer(t)
		f.fillCart(t, users[i], map[*entity.Product]int{tea: 1})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	placed := 0
	for _, userID := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.PlaceOrder(ctx, userID, codInput("FIRST3"))
			if err == nil {
				mu.Lock()
				placed++
				mu.Unlock()

				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrPromotionInvalid)
		}()
	}
	wg.Wait()

	stored, err := f.promoRepo.FindByID(ctx, promo.ID)
	require.NoError(t, err)
	assert.Equal(t, limit, placed)
	assert.Equal(t, limit, stored.UsedCount)

	storedTea, err := f.productRepo.FindByID(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, 100-limit, storedTea.Stock)
}

func TestOrderService_StatusLifecycle(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 1})

	order, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
	require.NoError(t, err)

	order, err = f.orders.UpdateStatus(ctx, order.ID, usecase.UpdateOrderStatusInput{Status: entity.OrderConfirmed})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, order.Status)

	_, err = f.orders.UpdateStatus(ctx, order.ID, usecase.UpdateOrderStatusInput{Status: entity.OrderPlaced})
	require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	order, err = f.orders.UpdateStatus(ctx, order.ID, usecase.UpdateOrderStatusInput{Status: entity.OrderShipped})
	require.NoError(t, err)

	order, err = f.orders.UpdateStatus(ctx, order.ID, usecase.UpdateOrderStatusInput{Status: entity.OrderDelivered})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, order.Payment.Status)

	_, err = f.orders.UpdateStatus(ctx, order.ID, usecase.UpdateOrderStatusInput{Status: entity.OrderCancelled, Reason: "late"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	stored, err := f.orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, stored.Status)
	assert.Equal(t, entity.PaymentCompleted, stored.Payment.Status)
}

func TestOrderService_Cancel(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 1})

	order, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
	require.NoError(t, err)

	order, err = f.orders.UpdateStatus(ctx, order.ID, usecase.UpdateOrderStatusInput{Status: entity.OrderCancelled, Reason: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, "changed my mind", order.CancellationReason)

	_, err = f.orders.UpdateStatus(ctx, uuid.New(), usecase.UpdateOrderStatusInput{Status: entity.OrderConfirmed})
	require.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_GetOrder_OtherUserForbidden(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	owner := f.newCustomer(t)
	other := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	f.fillCart(t, owner, map[*entity.Product]int{milk: 1})

	order, err := f.orders.PlaceOrder(ctx, owner, codInput(""))
	require.NoError(t, err)

	_, err = f.orders.GetOrder(ctx, other, order.ID)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = f.orders.GetOrder(ctx, owner, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrOrderNotFound)

	mine, err := f.orders.ListOrders(ctx, owner, usecase.ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.orders.ListAll(ctx, usecase.ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOrderService_DeliveryQR_RoundTrip(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	f.fillCart(t, userID, map[*entity.Product]int{milk: 1})

	order, err := f.orders.PlaceOrder(ctx, userID, codInput(""))
	require.NoError(t, err)

	png, err := f.orders.GenerateDeliveryQR(ctx, userID, order.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	payload, err := json.Marshal(qrcode.DeliveryCode{OrderID: order.ID.String(), OrderNumber: order.OrderNumber, Type: "delivery"})
	require.NoError(t, err)

	delivered, err := f.orders.ConfirmDelivery(ctx, string(payload))
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, delivered.Status)

	_, err = f.orders.GenerateDeliveryQR(ctx, userID, order.ID)
	require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = f.orders.ConfirmDelivery(ctx, "not json")
	require.ErrorIs(t, err, domainerrors.ErrInvalidQRCode)
}
