package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RockkLee/order-bot/internal/domain"
)

// OrderPublisher puts order placed events on the order-sync queue.
type OrderPublisher struct {
	broker Broker
}

func NewOrderPublisher(broker Broker) *OrderPublisher {
	return &OrderPublisher{broker: broker}
}

func (p *OrderPublisher) Notify(ctx context.Context, event domain.OrderPlacedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	if err := p.broker.Publish(ctx, QueueOrderSync, body); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", event.OrderID, err)
	}
	return nil
}
