package notify

import (
	"context"
	"sync"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/metrics"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	outcomeDelivered = "delivered"
	outcomeFailed    = "failed"
	outcomeDropped   = "dropped"
)

type Config struct {
	QueueSize       int
	Workers         int
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	AttemptTimeout  time.Duration
}

func (c *Config) defaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 5
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 200 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 5 * time.Second
	}
}

// Dispatcher fans events out to a fixed pool of workers through a bounded queue.
type Dispatcher struct {
	notifier Notifier
	cfg      Config
	queue    chan domain.OrderPlacedEvent
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(notifier Notifier, cfg Config, m *metrics.Metrics, logger *zap.SugaredLogger) *Dispatcher {
	cfg.defaults()
	ctx, cancel := context.WithCancel(context.Background())

	d := &Dispatcher{
		notifier: notifier,
		cfg:      cfg,
		queue:    make(chan domain.OrderPlacedEvent, cfg.QueueSize),
		metrics:  m,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue never blocks. It reports false when the event was dropped.
func (d *Dispatcher) Enqueue(event domain.OrderPlacedEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		d.drop(event, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(event domain.OrderPlacedEvent, reason string) {
	d.metrics.Notification(outcomeDropped)
	d.logger.Errorw("order notification dropped", "order_id", event.OrderID, "reason", reason)
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *Dispatcher) deliver(event domain.OrderPlacedEvent) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.cfg.InitialInterval
	b.MaxInterval = d.cfg.MaxInterval

	attempt := 0
	_, err := backoff.Retry(d.ctx, func() (struct{}, error) {
		attempt++
		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.AttemptTimeout)
		defer cancel()
		return struct{}{}, d.notifier.Notify(ctx, event)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(d.cfg.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			d.logger.Warnw("order notification failed, retrying",
				"order_id", event.OrderID, "attempt", attempt, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		d.metrics.Notification(outcomeFailed)
		d.logger.Errorw("order notification failed", "order_id", event.OrderID, "attempts", attempt, "error", err)
		return
	}

	d.metrics.Notification(outcomeDelivered)
	d.logger.Infow("order notification delivered", "order_id", event.OrderID, "attempts", attempt)
}

// Close stops accepting events and waits for queued ones to drain. When ctx ends
// first, in-flight retries are abandoned.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
