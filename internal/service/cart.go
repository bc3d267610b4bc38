package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/money"
	"github.com/RockkLee/order-bot/internal/repo"
	"go.uber.org/zap"
)

const (
	MaxQuantity      = 999
	DefaultTxTimeout = 10 * time.Second

	ensureAttempts = 3
)

type CartConfig struct {
	// TxTimeout bounds the transactional section, which runs detached from the
	// caller's cancellation so a disconnect cannot abort a commit halfway.
	TxTimeout time.Duration
}

type CartService struct {
	store  repo.Store
	items  repo.ItemFinder
	cfg    CartConfig
	logger *zap.SugaredLogger
}

func NewCartService(store repo.Store, items repo.ItemFinder, cfg CartConfig, logger *zap.SugaredLogger) *CartService {
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = DefaultTxTimeout
	}
	return &CartService{
		store:  store,
		items:  items,
		cfg:    cfg,
		logger: logger,
	}
}

// Ensure returns the session's open cart, creating one when the session has none
// or its latest cart is closed.
func (s *CartService) Ensure(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, domain.ErrInvalidSession
	}

	for attempt := 1; attempt <= ensureAttempts; attempt++ {
		cart, err := s.store.Carts().GetBySession(ctx, sessionID)
		switch {
		case err == nil && cart.IsOpen():
			return cart, nil
		case err == nil, errors.Is(err, repo.ErrNotFound):
		default:
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}

		cart, err = s.store.Carts().Create(ctx, sessionID)
		if err == nil {
			s.logger.Infow("cart created", "session_id", sessionID, "cart_id", cart.ID)
			return cart, nil
		}
		if !errors.Is(err, repo.ErrConflict) {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		s.logger.Debugw("cart create lost race, re-reading", "session_id", sessionID, "attempt", attempt)
	}

	return nil, fmt.Errorf("ensure cart for session %s: %w", sessionID, domain.ErrLockTimeout)
}

// Mutate applies ops in order as one all-or-nothing batch under the session's
// cart lock.
func (s *CartService) Mutate(ctx context.Context, sessionID string, ops []domain.CartOp) (*domain.Cart, error) {
	if len(ops) == 0 {
		return nil, domain.ErrNoCartOps
	}

	catalog, err := s.checkOps(ctx, ops)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.TxTimeout)
	defer cancel()

	if _, err := s.Ensure(txCtx, sessionID); err != nil {
		return nil, err
	}

	var out *domain.Cart
	err = s.store.WithinTx(txCtx, func(ctx context.Context, tx repo.Store) error {
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

		lines := applyOps(cart.Lines, ops, catalog)
		if err := tx.Carts().ReplaceLines(ctx, cart.ID, lines); err != nil {
			return err
		}

		for i := range lines {
			lines[i].CartID = cart.ID
		}
		cart.Lines = lines
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("cart updated", "session_id", sessionID, "cart_id", out.ID, "ops", len(ops), "lines", len(out.Lines))
	return out, nil
}

// checkOps runs the validations that need no cart state, before any lock is taken.
func (s *CartService) checkOps(ctx context.Context, ops []domain.CartOp) (map[string]*domain.MenuItem, error) {
	catalog := make(map[string]*domain.MenuItem, len(ops))
	for _, op := range ops {
		kind := op.Op
		if kind == "" {
			kind = domain.CartOpApply
		}
		if kind == domain.CartOpApply && (op.Quantity < 1 || op.Quantity > MaxQuantity) {
			return nil, fmt.Errorf("item %s quantity %d: %w", op.MenuItemID, op.Quantity, domain.ErrInvalidQuantity)
		}

		item, ok := catalog[op.MenuItemID]
		if !ok {
			found, err := s.items.FindItem(ctx, op.MenuItemID)
			if err != nil {
				if errors.Is(err, domain.ErrItemNotFound) || errors.Is(err, repo.ErrNotFound) {
					// items dropped from the menu can still be removed from a cart
					if kind == domain.CartOpRemove {
						continue
					}
					return nil, fmt.Errorf("item %s: %w", op.MenuItemID, domain.ErrItemNotFound)
				}
				return nil, fmt.Errorf("failed to look up item %s: %w", op.MenuItemID, err)
			}
			item = found
			catalog[op.MenuItemID] = item
		}
		if kind == domain.CartOpApply && !item.Available() {
			return nil, fmt.Errorf("item %s is %s: %w", op.MenuItemID, item.Status, domain.ErrItemNotFound)
		}
	}
	return catalog, nil
}

// applyOps returns a new line list. An apply upserts the line in place, a remove
// drops it; later ops on the same item win.
func applyOps(current []domain.CartLine, ops []domain.CartOp, catalog map[string]*domain.MenuItem) []domain.CartLine {
	lines := append([]domain.CartLine(nil), current...)

	indexOf := func(id string) int {
		for i := range lines {
			if lines[i].MenuItemID == id {
				return i
			}
		}
		return -1
	}

	for _, op := range ops {
		item := catalog[op.MenuItemID]
		id := op.MenuItemID
		if item != nil {
			id = item.ID
		}
		i := indexOf(id)

		if op.Op == domain.CartOpRemove {
			if i >= 0 {
				lines = append(lines[:i], lines[i+1:]...)
			}
			continue
		}

		unit := money.FromFloat(item.Price)
		line := domain.CartLine{
			MenuItemID:      id,
			Name:            item.Name,
			Quantity:        op.Quantity,
			UnitPriceScaled: unit,
			LineTotalScaled: money.LineTotal(op.Quantity, unit),
		}
		if i >= 0 {
			lines[i] = line
		} else {
			lines = append(lines, line)
		}
	}
	return lines
}

// Snapshot is a lock-free read of the session's latest cart.
func (s *CartService) Snapshot(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Carts().GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}
