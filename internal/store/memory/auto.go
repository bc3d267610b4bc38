package memory

import (
	"context"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
)

// autoCartRepo runs every call in its own transaction.
type autoCartRepo struct {
	s *Storage
}

func (r *autoCartRepo) GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return newTx(r.s).GetBySession(ctx, sessionID)
}

func (r *autoCartRepo) GetBySessionForUpdate(ctx context.Context, sessionID string) (cart *domain.Cart, err error) {
	err = r.s.WithinTx(ctx, func(ctx context.Context, store repo.Store) error {
		cart, err = store.Carts().GetBySessionForUpdate(ctx, sessionID)
		return err
	})
	return cart, err
}

func (r *autoCartRepo) Create(ctx context.Context, sessionID string) (cart *domain.Cart, err error) {
	err = r.s.WithinTx(ctx, func(ctx context.Context, store repo.Store) error {
		cart, err = store.Carts().Create(ctx, sessionID)
		return err
	})
	return cart, err
}

func (r *autoCartRepo) ReplaceLines(ctx context.Context, cartID string, lines []domain.CartLine) error {
	return r.s.WithinTx(ctx, func(ctx context.Context, store repo.Store) error {
		return store.Carts().ReplaceLines(ctx, cartID, lines)
	})
}

func (r *autoCartRepo) MarkClosed(ctx context.Context, cartID string, closedAt time.Time) error {
	return r.s.WithinTx(ctx, func(ctx context.Context, store repo.Store) error {
		return store.Carts().MarkClosed(ctx, cartID, closedAt)
	})
}

type autoOrderRepo struct {
	s *Storage
}

func (r *autoOrderRepo) InsertOrder(ctx context.Context, cart *domain.Cart, totalScaled int64) (order *domain.Order, err error) {
	err = r.s.WithinTx(ctx, func(ctx context.Context, store repo.Store) error {
		order, err = store.Orders().InsertOrder(ctx, cart, totalScaled)
		return err
	})
	return order, err
}

func (r *autoOrderRepo) InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	t := newTx(r.s)
	defer t.release()

	orders := &txOrders{t: t}
	order, err := orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	t.orders[order.ID] = order

	stored, err := orders.InsertOrderLines(ctx, orderID, lines)
	if err != nil {
		return nil, err
	}
	return stored, t.commit()
}

func (r *autoOrderRepo) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return (&txOrders{t: newTx(r.s)}).GetByID(ctx, orderID)
}

// UpdateStatus compares and sets under the store lock.
func (r *autoOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[orderID]
	if !ok {
		return false, repo.ErrNotFound
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}
