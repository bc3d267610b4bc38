// Package memory is an in-process implementation of repo.Store. Row locks are
// emulated with one lock per session; writes are staged per transaction and applied
// atomically on commit.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
)

type Config struct {
	// LockTimeout bounds how long GetBySessionForUpdate waits for another
	// transaction on the same session.
	LockTimeout time.Duration
}

type Storage struct {
	mu        sync.RWMutex
	carts     map[string]*domain.Cart
	bySession map[string][]string
	orders    map[string]*domain.Order

	locks       *sessionLocks
	lockTimeout time.Duration
	now         func() time.Time
}

func New(cfg Config) *Storage {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 3 * time.Second
	}
	return &Storage{
		carts:       make(map[string]*domain.Cart),
		bySession:   make(map[string][]string),
		orders:      make(map[string]*domain.Order),
		locks:       newSessionLocks(),
		lockTimeout: cfg.LockTimeout,
		now:         time.Now,
	}
}

func (s *Storage) Carts() repo.CartRepository {
	return &autoCartRepo{s: s}
}

func (s *Storage) Orders() repo.OrderRepository {
	return &autoOrderRepo{s: s}
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) error {
	t := newTx(s)
	defer t.release()

	if err := fn(ctx, t); err != nil {
		return err
	}
	return t.commit()
}

// latestLocked returns the newest committed cart for a session. Caller holds s.mu.
func (s *Storage) latestLocked(sessionID string) *domain.Cart {
	ids := s.bySession[sessionID]
	if len(ids) == 0 {
		return nil
	}
	return s.carts[ids[len(ids)-1]]
}

func (s *Storage) openCartLocked(sessionID string) *domain.Cart {
	for _, id := range s.bySession[sessionID] {
		if c := s.carts[id]; c != nil && c.IsOpen() {
			return c
		}
	}
	return nil
}

// OrdersBySession lists committed orders for a session, oldest first.
func (s *Storage) OrdersBySession(sessionID string) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, o := range s.orders {
		if o.SessionID == sessionID {
			cp := *o
			cp.Lines = append([]domain.OrderLine(nil), o.Lines...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

type sessionLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{slots: make(map[string]chan struct{})}
}

func (l *sessionLocks) slot(sessionID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[sessionID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[sessionID] = ch
	}
	return ch
}

func (l *sessionLocks) acquire(ctx context.Context, sessionID string, timeout time.Duration) error {
	ch := l.slot(sessionID)

	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrLockTimeout)
	case <-ctx.Done():
		return fmt.Errorf("session %s: %w", sessionID, ctx.Err())
	}
}

func (l *sessionLocks) release(sessionID string) {
	<-l.slot(sessionID)
}
