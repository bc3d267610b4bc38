package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/notify"
	"github.com/RockkLee/order-bot/internal/queue"
	"go.uber.org/zap"
)

// OrderSyncWorker relays order placed events from the order-sync queue to the
// management service. A returned error hands the message back to the broker's
// retry and dead letter policy.
type OrderSyncWorker struct {
	sink   notify.Notifier
	broker queue.Broker
	logger *zap.SugaredLogger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewOrderSyncWorker(
	sink notify.Notifier,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *OrderSyncWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &OrderSyncWorker{
		sink:   sink,
		broker: broker,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (w *OrderSyncWorker) Start() error {
	w.logger.Info("starting order sync worker")

	return w.broker.Subscribe(w.ctx, queue.QueueOrderSync, w.handleMessage)
}

func (w *OrderSyncWorker) Stop() {
	w.logger.Info("stopping order sync worker")
	w.cancel()
}

func (w *OrderSyncWorker) handleMessage(ctx context.Context, message []byte) error {
	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if event.EventType != domain.EventOrderPlaced {
		w.logger.Warnw("skipping unexpected event", "event_type", event.EventType, "order_id", event.OrderID)
		return nil
	}
	if event.OrderID == "" {
		return fmt.Errorf("order placed event without order id")
	}

	w.logger.Infow("syncing order", "order_id", event.OrderID, "items", len(event.Items))

	if err := w.sink.Notify(ctx, event); err != nil {
		w.logger.Errorw("failed to sync order", "order_id", event.OrderID, "error", err)
		return err
	}

	return nil
}
