package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/metrics"
	"github.com/RockkLee/order-bot/internal/money"
	"github.com/RockkLee/order-bot/internal/repo"
	"go.uber.org/zap"
)

// Enqueuer hands events to asynchronous delivery without blocking.
type Enqueuer interface {
	Enqueue(event domain.OrderPlacedEvent) bool
}

type CheckoutResult struct {
	Cart *domain.Cart
	// Order is nil unless the checkout was confirmed and committed.
	Order *domain.Order
}

type CheckoutService struct {
	store    repo.Store
	enqueuer Enqueuer
	cfg      CartConfig
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewCheckoutService(store repo.Store, enqueuer Enqueuer, cfg CartConfig, m *metrics.Metrics, logger *zap.SugaredLogger) *CheckoutService {
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = DefaultTxTimeout
	}
	return &CheckoutService{
		store:    store,
		enqueuer: enqueuer,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Checkout closes the session's cart into an order when confirmed. Unconfirmed
// calls only read.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, confirmed bool) (*CheckoutResult, error) {
	if !confirmed {
		cart, err := s.store.Carts().GetBySession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, domain.ErrCartNotFound
			}
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
		if !cart.IsOpen() {
			return nil, fmt.Errorf("cart %s: %w", cart.ID, domain.ErrCartClosed)
		}
		s.metrics.Checkout("awaiting_confirmation")
		return &CheckoutResult{Cart: cart}, nil
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.TxTimeout)
	defer cancel()

	var result CheckoutResult
	err := s.store.WithinTx(txCtx, func(ctx context.Context, tx repo.Store) error {
		cart, err := tx.Carts().GetBySessionForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.ErrCartNotFound
			}
			return err
		}
		if !cart.IsOpen() {
			return fmt.Errorf("cart %s: %w", cart.ID, domain.ErrCartClosed)
		}
		if !cart.HasItems() {
			return fmt.Errorf("cart %s: %w", cart.ID, domain.ErrEmptyCart)
		}

		total := money.Sum(lineTotals(cart.Lines)...)
		order, err := tx.Orders().InsertOrder(ctx, cart, total)
		if err != nil {
			return err
		}
		lines, err := tx.Orders().InsertOrderLines(ctx, order.ID, domain.OrderLinesFromCart(cart.Lines))
		if err != nil {
			return err
		}
		order.Lines = lines

		closedAt := s.now().UTC()
		if err := tx.Carts().MarkClosed(ctx, cart.ID, closedAt); err != nil {
			return err
		}
		cart.Status = domain.CartStatusClosed
		cart.ClosedAt = &closedAt
		cart.UpdatedAt = closedAt

		result = CheckoutResult{Cart: cart, Order: order}
		return nil
	})
	if err != nil {
		s.metrics.Checkout(domain.Code(err))
		return nil, err
	}

	s.metrics.Checkout("placed")
	s.logger.Infow("order placed",
		"session_id", sessionID, "cart_id", result.Cart.ID, "order_id", result.Order.ID, "total_scaled", result.Order.TotalScaled)

	if s.enqueuer != nil {
		s.enqueuer.Enqueue(domain.NewOrderPlacedEvent(result.Order, s.now().UTC()))
	}
	return &result, nil
}

func lineTotals(lines []domain.CartLine) []int64 {
	out := make([]int64, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.LineTotalScaled)
	}
	return out
}
