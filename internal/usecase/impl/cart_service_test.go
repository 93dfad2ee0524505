package impl

import (
	"context"
	"testing"
	"time"

	"basket/internal/domain/entity"
	domainerrors "basket/internal/domain/errors"
	"basket/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddLine_NewAndExisting(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	view, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.True(t, money("60.00").Equal(view.Cart.Total))

	view, err = f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 5, view.Cart.Lines[0].Quantity)
	assert.True(t, money("150.00").Equal(view.Cart.Subtotal))

	stored, err := f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Lines[0].Quantity)
}

func TestCartService_AddLine_DiscountedProduct(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	rice := f.newProduct(t, "Rice", "100.00", 10, withDiscount(entity.NewPercentageDiscount(decimal.NewFromInt(20), nil)))

	view, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: rice.ID, Quantity: 1})
	require.NoError(t, err)

	line := view.Cart.Lines[0]
	assert.True(t, money("80.00").Equal(line.CurrentPrice))
	require.NotNil(t, line.DiscountApplied)
	assert.Equal(t, entity.DiscountPercentage, line.DiscountApplied.Kind)
}

func TestCartService_AddLine_Rejections(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 500)
	hidden := f.newProduct(t, "Seasonal", "10.00", 5, func(p *entity.Product) { p.IsAvailable = false })

	_, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 0})
	require.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)

	_, err = f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: uuid.New(), Quantity: 1})
	require.ErrorIs(t, err, domainerrors.ErrProductNotFound)

	_, err = f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: hidden.ID, Quantity: 1})
	require.ErrorIs(t, err, domainerrors.ErrProductUnavailable)

	_, err = f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 60})
	require.NoError(t, err)
	_, err = f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 41})
	require.ErrorIs(t, err, domainerrors.ErrQuantityLimitExceeded)

	stored, err := f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 60, stored.Lines[0].Quantity)
}

func TestCartService_AddLine_UnknownUser(t *testing.T) {
	f := newStoreFixture(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	_, err := f.carts.AddLine(context.Background(), uuid.New(), usecase.AddLineInput{ProductID: milk.ID, Quantity: 1})
	require.ErrorIs(t, err, domainerrors.ErrCartNotFound)
}

func TestCartService_UpdateLine(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	view, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 1})
	require.NoError(t, err)
	lineID := view.Cart.Lines[0].ID

	view, err = f.carts.UpdateLine(ctx, userID, lineID, 4)
	require.NoError(t, err)
	assert.True(t, money("120.00").Equal(view.Cart.Total))

	_, err = f.carts.UpdateLine(ctx, userID, lineID, 0)
	require.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)

	_, err = f.carts.UpdateLine(ctx, userID, lineID, 101)
	require.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)

	_, err = f.carts.UpdateLine(ctx, userID, uuid.New(), 2)
	require.ErrorIs(t, err, domainerrors.ErrLineNotFound)
}

func TestCartService_GetCart_FlagsPriceDriftWithoutRepricing(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	_, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 2})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	f.updateProduct(t, milk.ID, func(p *entity.Product) { p.ChangeBasePrice(money("35.00"), f.clock.Now()) })

	view, err := f.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Issues, 1)
	assert.Equal(t, entity.IssuePriceChanged, view.Issues[0].Kind)
	assert.True(t, money("35.00").Equal(view.Issues[0].NewPrice))
	assert.True(t, money("60.00").Equal(view.Cart.Total))

	stored, err := f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, stored.Lines[0].PriceDrift)
	assert.True(t, money("30.00").Equal(stored.Lines[0].CurrentPrice))
}

func TestCartService_AcceptPrice(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	view, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 2})
	require.NoError(t, err)
	lineID := view.Cart.Lines[0].ID

	f.updateProduct(t, milk.ID, func(p *entity.Product) { p.ChangeBasePrice(money("25.00"), f.clock.Now()) })

	view, err = f.carts.AcceptPrice(ctx, userID, lineID)
	require.NoError(t, err)
	assert.Empty(t, view.Issues)
	assert.False(t, view.Cart.Lines[0].PriceDrift)
	assert.True(t, money("50.00").Equal(view.Cart.Total))
}

func TestCartService_AcceptStock(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)
	bread := f.newProduct(t, "Bread", "45.00", 10)

	view, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 5})
	require.NoError(t, err)
	milkLine := view.Cart.Lines[0].ID
	view, err = f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: bread.ID, Quantity: 2})
	require.NoError(t, err)
	breadLine := view.Cart.Lines[1].ID

	f.updateProduct(t, milk.ID, func(p *entity.Product) { p.Stock = 3 })
	f.updateProduct(t, bread.ID, func(p *entity.Product) { p.Stock = 0 })

	view, err = f.carts.Validate(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, view.Issues, 2)

	view, err = f.carts.AcceptStock(ctx, userID, milkLine)
	require.NoError(t, err)
	line, ok := view.Cart.Line(milkLine)
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity)
	assert.False(t, line.StockDrift)

	view, err = f.carts.AcceptStock(ctx, userID, breadLine)
	require.NoError(t, err)
	_, ok = view.Cart.Line(breadLine)
	assert.False(t, ok)
	assert.Empty(t, view.Issues)
}

func TestCartService_OrphanedLine(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	_, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 1})
	require.NoError(t, err)

	cart, err := f.cartRepo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	orphan := &entity.CartLine{
		ID:              uuid.New(),
		ProductID:       uuid.New(),
		Quantity:        2,
		PriceAtAddition: money("99.00"),
		CurrentPrice:    money("99.00"),
		AddedAt:         f.clock.Now(),
	}
	cart.Lines = append(cart.Lines, orphan)
	require.NoError(t, f.cartRepo.Save(ctx, cart))

	view, err := f.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{orphan.ID}, view.OrphanedLines)
	assert.True(t, money("30.00").Equal(view.Cart.Total))

	_, err = f.carts.AcceptPrice(ctx, userID, orphan.ID)
	require.ErrorIs(t, err, domainerrors.ErrInvalidProductReference)

	view, err = f.carts.RemoveLine(ctx, userID, orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, view.OrphanedLines)
	assert.Len(t, view.Cart.Lines, 1)
}

func TestCartService_Clear(t *testing.T) {
	f := newStoreFixture(t)
	ctx := context.Background()
	userID := f.newCustomer(t)
	milk := f.newProduct(t, "Milk", "30.00", 10)

	_, err := f.carts.AddLine(ctx, userID, usecase.AddLineInput{ProductID: milk.ID, Quantity: 1})
	require.NoError(t, err)

	view, err := f.carts.Clear(ctx, userID)
	require.NoError(t, err)
	assert.True(t, view.Cart.IsEmpty())
	assert.True(t, view.Cart.Total.IsZero())
}
