package service

import (
	"context"
	"testing"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/intent"
	"github.com/RockkLee/order-bot/internal/reply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(message string) domain.Intent

func (f resolverFunc) Resolve(_ context.Context, message string, _ []domain.MenuItem, _ bool, _ []domain.CartLine) domain.Intent {
	return f(message)
}

func newChat(t *testing.T, f *fixture, r IntentResolver) *ChatService {
	t.Helper()
	return NewChatService(f.carts, f.checkout, r, nil, zapNop())
}

func fallbackResolver(t *testing.T) IntentResolver {
	t.Helper()
	r, err := intent.NewResolver(intent.NopClassifier{}, intent.Config{}, nil, zapNop())
	require.NoError(t, err)
	return r
}

func TestHandleTurnOrderFlow(t *testing.T) {
	f := newFixture(t)
	chat := newChat(t, f, fallbackResolver(t))
	menu := f.catalog.items()
	ctx := context.Background()

	res, err := chat.HandleTurn(ctx, "s1", "add 2 burger", menu)
	require.NoError(t, err)
	assert.Equal(t, domain.KindMutateCart, res.Intent.Kind)
	require.Len(t, res.Cart.Lines, 1)
	assert.Equal(t, int64(900), res.Cart.TotalScaled())
	assert.Contains(t, res.Reply, "I've updated your order")

	res, err = chat.HandleTurn(ctx, "s1", "checkout", menu)
	require.NoError(t, err)
	assert.Equal(t, reply.ConfirmCheckout, res.Reply)
	assert.Empty(t, res.OrderID)
	assert.True(t, res.Cart.IsOpen())

	res, err = chat.HandleTurn(ctx, "s1", "yes", menu)
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)
	assert.Equal(t, reply.OrderPlaced(res.OrderID), res.Reply)
	assert.Equal(t, domain.CartStatusClosed, res.Cart.Status)

	res, err = chat.HandleTurn(ctx, "s1", "show cart", menu)
	require.NoError(t, err)
	assert.Equal(t, reply.EmptyCart, res.Reply)
	assert.True(t, res.Cart.IsOpen())
	assert.Len(t, f.store.OrdersBySession("s1"), 1)
}

func TestHandleTurnCheckoutEmptyCartSkipsCoordinator(t *testing.T) {
	f := newFixture(t)
	chat := newChat(t, f, fallbackResolver(t))

	res, err := chat.HandleTurn(context.Background(), "s1", "yes", f.catalog.items())
	require.NoError(t, err)
	assert.Equal(t, reply.EmptyCheckout, res.Reply)
	assert.Empty(t, res.OrderID)
	assert.Empty(t, f.events.events)
}

func TestHandleTurnEmptyMessage(t *testing.T) {
	f := newFixture(t)
	chat := newChat(t, f, fallbackResolver(t))

	res, err := chat.HandleTurn(context.Background(), "s1", "  ", f.catalog.items())
	require.NoError(t, err)
	assert.False(t, res.Intent.Valid)
	assert.Equal(t, "empty", res.Intent.Reason)
	assert.Equal(t, reply.Clarify, res.Reply)
}

func TestHandleTurnSearchReturnsMatches(t *testing.T) {
	f := newFixture(t)
	chat := newChat(t, f, resolverFunc(func(string) domain.Intent {
		return domain.Intent{Valid: true, Kind: domain.KindSearchMenu, Query: "FRI", Source: domain.SourceClassifier}
	}))

	res, err := chat.HandleTurn(context.Background(), "s1", "do you have fries?", f.catalog.items())
	require.NoError(t, err)
	assert.Equal(t, reply.MenuPointer, res.Reply)
	require.Len(t, res.MenuResults, 1)
	assert.Equal(t, "m2", res.MenuResults[0].ID)
}

func TestHandleTurnSurfacesEngineErrors(t *testing.T) {
	f := newFixture(t)
	chat := newChat(t, f, resolverFunc(func(string) domain.Intent {
		return domain.Intent{
			Valid: true, Kind: domain.KindMutateCart, Source: domain.SourceClassifier,
			Items: []domain.IntentItem{{MenuItemID: "m9", Quantity: 1}},
		}
	}))

	_, err := chat.HandleTurn(context.Background(), "s1", "add the pie", f.catalog.items())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestSearchItems(t *testing.T) {
	items := testCatalog().items()

	assert.Len(t, SearchItems(items, ""), 3, "unavailable items are hidden")
	assert.Len(t, SearchItems(items, "drinks"), 1)
	assert.Empty(t, SearchItems(items, "pie"))
}
