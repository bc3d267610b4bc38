package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/store/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog map[string]domain.MenuItem

func (c fakeCatalog) FindItem(_ context.Context, itemID string) (*domain.MenuItem, error) {
	it, ok := c[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrItemNotFound)
	}
	return &it, nil
}

func (c fakeCatalog) items() []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(c))
	for _, it := range c {
		out = append(out, it)
	}
	return out
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"m1": {ID: "m1", Name: "Burger", Price: 4.5, Category: "Mains", Status: domain.ItemStatusAvailable},
		"m2": {ID: "m2", Name: "Fries", Price: 2.35, Category: "Sides", Status: domain.ItemStatusAvailable},
		"m3": {ID: "m3", Name: "Cola", Price: 1.99, Category: "Drinks", Status: domain.ItemStatusAvailable},
		"m9": {ID: "m9", Name: "Seasonal Pie", Price: 3, Category: "Desserts", Status: domain.ItemStatusNotAvailable},
	}
}

type recordingEnqueuer struct {
	mu     sync.Mutex
	events []domain.OrderPlacedEvent
}

func (r *recordingEnqueuer) Enqueue(e domain.OrderPlacedEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return true
}

func zapNop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

type fixture struct {
	store    *memory.Storage
	catalog  fakeCatalog
	carts    *CartService
	checkout *CheckoutService
	events   *recordingEnqueuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop().Sugar()
	store := memory.New(memory.Config{})
	catalog := testCatalog()
	events := &recordingEnqueuer{}

	return &fixture{
		store:    store,
		catalog:  catalog,
		carts:    NewCartService(store, catalog, CartConfig{}, logger),
		checkout: NewCheckoutService(store, events, CartConfig{}, nil, logger),
		events:   events,
	}
}

func (f *fixture) add(t *testing.T, sessionID string, ops ...domain.CartOp) *domain.Cart {
	t.Helper()
	cart, err := f.carts.Mutate(context.Background(), sessionID, ops)
	require.NoError(t, err)
	return cart
}

func apply(id string, qty int) domain.CartOp {
	return domain.CartOp{MenuItemID: id, Quantity: qty, Op: domain.CartOpApply}
}

func remove(id string) domain.CartOp {
	return domain.CartOp{MenuItemID: id, Op: domain.CartOpRemove}
}
