package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_FlagsDriftWithoutRepricing(t *testing.T) {
	cart := newTestCart()
	cheap := newTestProduct("10", 10)
	scarce := newTestProduct("25", 10)

	cheapLine, err := cart.Add(cheap, 2, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)
	scarceLine, err := cart.Add(scarce, 4, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)

	cheap.BasePrice = dec("12")
	scarce.Stock = 1

	result := Reconcile(cart, IndexProducts([]*Product{cheap, scarce}), testNow)

	assert.True(t, result.Changed)
	assert.True(t, cheapLine.PriceDrift)
	assert.False(t, cheapLine.StockDrift)
	assert.True(t, scarceLine.StockDrift)
	assert.False(t, scarceLine.PriceDrift)
	assert.True(t, dec("10").Equal(cheapLine.CurrentPrice))
	assert.True(t, dec("120").Equal(cart.Total))
	require.NotNil(t, cart.LastReconciledAt)
	assert.Equal(t, testNow, *cart.LastReconciledAt)

	require.Len(t, result.Issues, 2)
	kinds := []LineIssueKind{result.Issues[0].Kind, result.Issues[1].Kind}
	assert.ElementsMatch(t, []LineIssueKind{IssuePriceChanged, IssueInsufficientStock}, kinds)
	for _, issue := range result.Issues {
		if issue.Kind == IssueInsufficientStock {
			assert.Equal(t, 1, issue.Available)
			assert.Equal(t, 4, issue.Requested)
		}
		if issue.Kind == IssuePriceChanged {
			assert.True(t, dec("10").Equal(issue.OldPrice))
			assert.True(t, dec("12").Equal(issue.NewPrice))
		}
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	cart := newTestCart()
	product := newTestProduct("10", 1)
	_, err := cart.Add(product, 3, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)
	product.BasePrice = dec("9")
	products := IndexProducts([]*Product{product})

	first := Reconcile(cart, products, testNow)
	snapshot := cart.Clone()
	second := Reconcile(cart, products, testNow)

	assert.True(t, first.Changed)
	assert.False(t, second.Changed)
	assert.Equal(t, snapshot, cart)
	assert.Equal(t, first.Issues, second.Issues)
}

func TestReconcile_SubEpsilonDifferenceIsNotDrift(t *testing.T) {
	cart := newTestCart()
	product := newTestProduct("10.00", 5)
	line, err := cart.Add(product, 1, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)

	product.BasePrice = dec("10.01")
	result := Reconcile(cart, IndexProducts([]*Product{product}), testNow)

	assert.False(t, line.PriceDrift)
	assert.False(t, result.Changed)
	assert.False(t, result.HasIssues())
}

func TestReconcile_OrphanedLinesAreExcluded(t *testing.T) {
	cart := newTestCart()
	kept := newTestProduct("10", 5)
	gone := newTestProduct("30", 5)

	_, err := cart.Add(kept, 1, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)
	goneLine, err := cart.Add(gone, 2, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)

	result := Reconcile(cart, IndexProducts([]*Product{kept}), testNow)

	assert.Len(t, cart.Lines, 2)
	assert.True(t, goneLine.Orphaned)
	assert.Equal(t, []uuid.UUID{goneLine.ID}, result.OrphanedLines())
	assert.True(t, dec("10").Equal(cart.Total))
	assert.True(t, dec("10").Equal(cart.Subtotal))

	require.NoError(t, cart.Remove(goneLine.ID, testNow))
	result = Reconcile(cart, IndexProducts([]*Product{kept}), testNow)
	assert.Empty(t, result.OrphanedLines())
	assert.False(t, result.HasIssues())
}

func TestReconcile_ReportsUnavailableProducts(t *testing.T) {
	cart := newTestCart()
	product := newTestProduct("10", 5)
	_, err := cart.Add(product, 1, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)

	product.IsAvailable = false
	result := Reconcile(cart, IndexProducts([]*Product{product}), testNow)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueUnavailable, result.Issues[0].Kind)
	assert.False(t, result.Changed)
}

func TestPromoEligibleTotal(t *testing.T) {
	cart := newTestCart()
	eligible := newTestProduct("40", 10)
	excluded := newTestProduct("60", 10)
	excluded.IsPromotionEligible = false

	_, err := cart.Add(eligible, 2, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)
	_, err = cart.Add(excluded, 1, DefaultMaxLineQuantity, uuid.New(), testNow)
	require.NoError(t, err)

	products := IndexProducts([]*Product{eligible, excluded})
	assert.True(t, dec("80").Equal(PromoEligibleTotal(cart, products)))
	assert.True(t, dec("140").Equal(cart.Total))
}
