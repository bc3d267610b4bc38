// Package notify delivers order placed events to downstream systems off the request
// path. Delivery is best effort: failures are retried, logged and counted, never
// returned to the chat turn.
package notify

import (
	"context"

	"github.com/RockkLee/order-bot/internal/domain"
	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, event domain.OrderPlacedEvent) error
}

type NotifierFunc func(ctx context.Context, event domain.OrderPlacedEvent) error

func (f NotifierFunc) Notify(ctx context.Context, event domain.OrderPlacedEvent) error {
	return f(ctx, event)
}

// LogNotifier only records the event.
type LogNotifier struct {
	logger *zap.SugaredLogger
}

func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event domain.OrderPlacedEvent) error {
	n.logger.Infow("order placed",
		"order_id", event.OrderID,
		"cart_id", event.CartID,
		"session_id", event.SessionID,
		"total_scaled", event.TotalScaled,
		"items", len(event.Items),
	)
	return nil
}
