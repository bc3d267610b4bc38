package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
	"github.com/google/uuid"
)

// tx stages writes on top of the committed state.
type tx struct {
	s *Storage

	carts   map[string]*domain.Cart
	created map[string]string
	orders  map[string]*domain.Order
	held    map[string]bool
}

func newTx(s *Storage) *tx {
	return &tx{
		s:       s,
		carts:   make(map[string]*domain.Cart),
		created: make(map[string]string),
		orders:  make(map[string]*domain.Order),
		held:    make(map[string]bool),
	}
}

func (t *tx) Carts() repo.CartRepository     { return t }
func (t *tx) Orders() repo.OrderRepository   { return &txOrders{t} }
func (t *tx) Ping(ctx context.Context) error { return ctx.Err() }
func (t *tx) Close() error                   { return nil }
func (t *tx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) error {
	return fn(ctx, t)
}

func (t *tx) release() {
	for sessionID := range t.held {
		t.s.locks.release(sessionID)
	}
	t.held = nil
}

func (t *tx) cart(id string) *domain.Cart {
	if c, ok := t.carts[id]; ok {
		return c
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return t.s.carts[id]
}

func (t *tx) latest(sessionID string) *domain.Cart {
	if id, ok := t.created[sessionID]; ok {
		return t.carts[id]
	}
	t.s.mu.RLock()
	c := t.s.latestLocked(sessionID)
	t.s.mu.RUnlock()
	if c == nil {
		return nil
	}
	if staged, ok := t.carts[c.ID]; ok {
		return staged
	}
	return c
}

func (t *tx) GetBySession(_ context.Context, sessionID string) (*domain.Cart, error) {
	c := t.latest(sessionID)
	if c == nil {
		return nil, repo.ErrNotFound
	}
	return c.Clone(), nil
}

func (t *tx) GetBySessionForUpdate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if !t.held[sessionID] {
		if err := t.s.locks.acquire(ctx, sessionID, t.s.lockTimeout); err != nil {
			return nil, err
		}
		t.held[sessionID] = true
	}
	return t.GetBySession(ctx, sessionID)
}

func (t *tx) Create(_ context.Context, sessionID string) (*domain.Cart, error) {
	if _, ok := t.created[sessionID]; ok {
		return nil, repo.ErrConflict
	}
	t.s.mu.RLock()
	open := t.s.openCartLocked(sessionID)
	t.s.mu.RUnlock()
	if open != nil {
		return nil, repo.ErrConflict
	}

	now := t.s.now().UTC()
	c := &domain.Cart{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Status:    domain.CartStatusOpen,
		Lines:     []domain.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.carts[c.ID] = c
	t.created[sessionID] = c.ID
	return c.Clone(), nil
}

func (t *tx) stage(cartID string) (*domain.Cart, error) {
	c := t.cart(cartID)
	if c == nil {
		return nil, fmt.Errorf("cart %s: %w", cartID, repo.ErrNotFound)
	}
	if _, ok := t.carts[cartID]; !ok {
		c = c.Clone()
		t.carts[cartID] = c
	}
	return c, nil
}

func (t *tx) ReplaceLines(_ context.Context, cartID string, lines []domain.CartLine) error {
	c, err := t.stage(cartID)
	if err != nil {
		return err
	}
	c.Lines = make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		l.CartID = cartID
		c.Lines = append(c.Lines, l)
	}
	c.UpdatedAt = t.s.now().UTC()
	return nil
}

func (t *tx) MarkClosed(_ context.Context, cartID string, closedAt time.Time) error {
	c, err := t.stage(cartID)
	if err != nil {
		return err
	}
	c.Status = domain.CartStatusClosed
	c.ClosedAt = &closedAt
	c.UpdatedAt = closedAt
	return nil
}

func (t *tx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	// Emulates the partial unique index on open carts.
	for sessionID := range t.created {
		if t.s.openCartLocked(sessionID) != nil {
			return fmt.Errorf("open cart for session %s: %w", sessionID, repo.ErrConflict)
		}
	}

	for id, c := range t.carts {
		if _, exists := t.s.carts[id]; !exists {
			t.s.bySession[c.SessionID] = append(t.s.bySession[c.SessionID], id)
		}
		t.s.carts[id] = c.Clone()
	}
	for id, o := range t.orders {
		cp := *o
		cp.Lines = append([]domain.OrderLine(nil), o.Lines...)
		t.s.orders[id] = &cp
	}
	return nil
}

type txOrders struct {
	t *tx
}

func (o *txOrders) InsertOrder(_ context.Context, cart *domain.Cart, totalScaled int64) (*domain.Order, error) {
	order := &domain.Order{
		ID:          uuid.NewString(),
		CartID:      cart.ID,
		SessionID:   cart.SessionID,
		Status:      domain.OrderStatusProcessing,
		TotalScaled: totalScaled,
		Lines:       []domain.OrderLine{},
		CreatedAt:   o.t.s.now().UTC(),
	}
	o.t.orders[order.ID] = order
	cp := *order
	return &cp, nil
}

func (o *txOrders) InsertOrderLines(_ context.Context, orderID string, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	order, ok := o.t.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, repo.ErrNotFound)
	}
	stored := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		l.ID = uuid.NewString()
		l.OrderID = orderID
		stored = append(stored, l)
	}
	order.Lines = append(order.Lines, stored...)
	return append([]domain.OrderLine(nil), stored...), nil
}

func (o *txOrders) GetByID(_ context.Context, orderID string) (*domain.Order, error) {
	if order, ok := o.t.orders[orderID]; ok {
		cp := *order
		cp.Lines = append([]domain.OrderLine(nil), order.Lines...)
		return &cp, nil
	}
	o.t.s.mu.RLock()
	defer o.t.s.mu.RUnlock()
	order, ok := o.t.s.orders[orderID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *order
	cp.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &cp, nil
}

func (o *txOrders) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	order, err := o.GetByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != from {
		return false, nil
	}
	order.Status = to
	o.t.orders[orderID] = order
	return true, nil
}
