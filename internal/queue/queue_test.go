package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroker struct {
	queue string
	body  []byte
	err   error
}

func (f *fakeBroker) Publish(_ context.Context, queueName string, message []byte) error {
	f.queue, f.body = queueName, message
	return f.err
}

func (f *fakeBroker) Subscribe(context.Context, string, MessageHandler) error { return nil }
func (f *fakeBroker) Close() error                                            { return nil }

type fakeWriter struct {
	msgs []kafka.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func sampleEvent() domain.OrderPlacedEvent {
	return domain.OrderPlacedEvent{
		EventType:   domain.EventOrderPlaced,
		OrderID:     "o1",
		CartID:      "c1",
		SessionID:   "s1",
		TotalScaled: 900,
		Items: []domain.OrderPlacedItem{
			{ID: "l1", MenuItemID: "m1", Name: "Burger", Quantity: 2, UnitPriceScaled: 450, TotalPriceScaled: 900},
		},
	}
}

func TestOrderPublisherPublishesToOrderSync(t *testing.T) {
	b := &fakeBroker{}
	require.NoError(t, NewOrderPublisher(b).Notify(context.Background(), sampleEvent()))

	assert.Equal(t, QueueOrderSync, b.queue)
	var got domain.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(b.body, &got))
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, int64(900), got.Items[0].TotalPriceScaled)
}

func TestOrderPublisherWrapsBrokerError(t *testing.T) {
	b := &fakeBroker{err: errors.New("channel closed")}
	err := NewOrderPublisher(b).Notify(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "o1")
}

func TestKafkaOrderPublisherKeysBySession(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaOrderPublisher{writer: w}

	require.NoError(t, p.Notify(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("s1"), w.msgs[0].Key)
	assert.Equal(t, "event_type", w.msgs[0].Headers[0].Key)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, ParseBrokers(""))
}

func TestPlanRetry(t *testing.T) {
	base := time.Second

	p := planRetry(nil, 3, base)
	assert.Equal(t, retryPlan{attempt: 1, delay: time.Second}, p)

	p = planRetry(amqp.Table{headerRetryCount: int32(2)}, 3, base)
	assert.Equal(t, retryPlan{attempt: 3, delay: 4 * time.Second}, p)

	p = planRetry(amqp.Table{headerRetryCount: int32(3)}, 3, base)
	assert.True(t, p.deadLetter)
	assert.Equal(t, 3, p.attempt)
}
