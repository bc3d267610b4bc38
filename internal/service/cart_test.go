package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesOnceAndReuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.carts.Ensure(ctx, "s1")
	require.NoError(t, err)
	second, err := f.carts.Ensure(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsOpen())

	_, err = f.carts.Ensure(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestEnsureConcurrentCreatesOneCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart, err := f.carts.Ensure(ctx, "s1")
			if assert.NoError(t, err) {
				ids <- cart.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 1)
}

func TestEnsureOpensNewCartAfterCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, "s1", apply("m1", 1))
	res, err := f.checkout.Checkout(ctx, "s1", true)
	require.NoError(t, err)

	next, err := f.carts.Ensure(ctx, "s1")
	require.NoError(t, err)
	assert.NotEqual(t, res.Cart.ID, next.ID)
	assert.True(t, next.IsOpen())
	assert.Empty(t, next.Lines)
}

func TestMutatePricesLines(t *testing.T) {
	f := newFixture(t)

	cart := f.add(t, "s1", apply("m1", 2), apply("m2", 3))
	require.Len(t, cart.Lines, 2)

	assert.Equal(t, domain.CartLine{
		CartID: cart.ID, MenuItemID: "m1", Name: "Burger", Quantity: 2, UnitPriceScaled: 450, LineTotalScaled: 900,
	}, cart.Lines[0])
	assert.Equal(t, int64(235), cart.Lines[1].UnitPriceScaled)
	assert.Equal(t, int64(705), cart.Lines[1].LineTotalScaled)
	assert.Equal(t, int64(1605), cart.TotalScaled())
}

func TestMutateSameItemTwiceKeepsLast(t *testing.T) {
	f := newFixture(t)

	cart := f.add(t, "s1", apply("m1", 1), apply("m1", 3))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, int64(1350), cart.Lines[0].LineTotalScaled)
}

func TestMutateUpsertKeepsPosition(t *testing.T) {
	f := newFixture(t)

	f.add(t, "s1", apply("m1", 1), apply("m2", 1))
	cart := f.add(t, "s1", apply("m1", 5))

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "m1", cart.Lines[0].MenuItemID)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestMutateRemove(t *testing.T) {
	f := newFixture(t)

	f.add(t, "s1", apply("m1", 1), apply("m2", 1))
	cart := f.add(t, "s1", remove("m1"), remove("m3"))

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "m2", cart.Lines[0].MenuItemID)
}

func TestMutateRemovesItemDroppedFromMenu(t *testing.T) {
	f := newFixture(t)

	f.add(t, "s1", apply("m1", 1), apply("m2", 1))
	delete(f.catalog, "m1")

	cart := f.add(t, "s1", remove("m1"))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "m2", cart.Lines[0].MenuItemID)

	_, err := f.carts.Mutate(context.Background(), "s1", []domain.CartOp{apply("m1", 1)})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMutateRejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name string
		ops  []domain.CartOp
		want error
	}{
		{name: "zero quantity", ops: []domain.CartOp{apply("m2", 1), apply("m1", 0)}, want: domain.ErrInvalidQuantity},
		{name: "too many", ops: []domain.CartOp{apply("m1", 1000)}, want: domain.ErrInvalidQuantity},
		{name: "unknown item", ops: []domain.CartOp{apply("m2", 1), apply("nope", 1)}, want: domain.ErrItemNotFound},
		{name: "unavailable item", ops: []domain.CartOp{apply("m9", 1)}, want: domain.ErrItemNotFound},
		{name: "no ops", ops: nil, want: domain.ErrNoCartOps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.add(t, "s1", apply("m3", 1))

			_, err := f.carts.Mutate(context.Background(), "s1", tt.ops)
			assert.ErrorIs(t, err, tt.want)

			cart, err := f.carts.Snapshot(context.Background(), "s1")
			require.NoError(t, err)
			require.Len(t, cart.Lines, 1)
			assert.Equal(t, "m3", cart.Lines[0].MenuItemID)
		})
	}
}

func TestConcurrentMutatesAreLinearized(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("x%d", i)
		f.catalog[id] = domain.MenuItem{ID: id, Name: id, Price: 1, Status: domain.ItemStatusAvailable}
	}
	ctx := context.Background()
	_, err := f.carts.Ensure(ctx, "s1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.carts.Mutate(ctx, "s1", []domain.CartOp{apply(fmt.Sprintf("x%d", i), 1)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	cart, err := f.carts.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 12, "no update may be lost")
	assert.Equal(t, int64(1200), cart.TotalScaled())
}

func TestSnapshotWithoutCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.carts.Snapshot(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestMutateSurvivesCallerCancellation(t *testing.T) {
	f := newFixture(t)
	f.add(t, "s1", apply("m1", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cart, err := f.carts.Ensure(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, cart)

	// the catalog lookups already ran; cancelling now must not abort the commit
	catalog := f.catalog
	f.carts.items = cancelAfterLookup{catalog: catalog, cancel: cancel}

	updated, err := f.carts.Mutate(ctx, "s1", []domain.CartOp{apply("m2", 2)})
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 2)
}

type cancelAfterLookup struct {
	catalog fakeCatalog
	cancel  context.CancelFunc
}

func (c cancelAfterLookup) FindItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	it, err := c.catalog.FindItem(ctx, id)
	c.cancel()
	return it, err
}
