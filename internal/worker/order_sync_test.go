package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/notify"
	"github.com/RockkLee/order-bot/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBroker struct {
	queue   string
	handler queue.MessageHandler
}

func (b *fakeBroker) Publish(context.Context, string, []byte) error { return nil }
func (b *fakeBroker) Close() error                                  { return nil }

func (b *fakeBroker) Subscribe(_ context.Context, queueName string, handler queue.MessageHandler) error {
	b.queue = queueName
	b.handler = handler
	return nil
}

func encode(t *testing.T, e domain.OrderPlacedEvent) []byte {
	t.Helper()
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	return raw
}

func TestOrderSyncWorkerForwardsEvents(t *testing.T) {
	var got []domain.OrderPlacedEvent
	sink := notify.NotifierFunc(func(_ context.Context, e domain.OrderPlacedEvent) error {
		got = append(got, e)
		return nil
	})
	broker := &fakeBroker{}
	w := NewOrderSyncWorker(sink, broker, zap.NewNop().Sugar())
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.Equal(t, queue.QueueOrderSync, broker.queue)

	event := domain.OrderPlacedEvent{
		EventType: domain.EventOrderPlaced, OrderID: "o1", SessionID: "s1", TotalScaled: 900,
		Items:     []domain.OrderPlacedItem{{MenuItemID: "m1", Quantity: 2, UnitPriceScaled: 450, TotalPriceScaled: 900}},
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, broker.handler(context.Background(), encode(t, event)))
	require.Len(t, got, 1)
	assert.Equal(t, event, got[0])
}

func TestOrderSyncWorkerErrors(t *testing.T) {
	sinkErr := errors.New("unavailable")
	calls := 0
	sink := notify.NotifierFunc(func(context.Context, domain.OrderPlacedEvent) error {
		calls++
		return sinkErr
	})
	broker := &fakeBroker{}
	w := NewOrderSyncWorker(sink, broker, zap.NewNop().Sugar())
	require.NoError(t, w.Start())
	defer w.Stop()
	ctx := context.Background()

	assert.Error(t, broker.handler(ctx, []byte("{not json")))
	assert.NoError(t, broker.handler(ctx, encode(t, domain.OrderPlacedEvent{EventType: "other", OrderID: "o1"})))
	assert.Error(t, broker.handler(ctx, encode(t, domain.OrderPlacedEvent{EventType: domain.EventOrderPlaced})))
	assert.Equal(t, 0, calls)

	err := broker.handler(ctx, encode(t, domain.OrderPlacedEvent{EventType: domain.EventOrderPlaced, OrderID: "o2"}))
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, calls)
}
