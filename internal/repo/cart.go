package repo

import (
	"context"
	"errors"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned by Create when another writer opened a cart for the same
	// session first.
	ErrConflict = errors.New("record conflict")
)

// CartRepository returns the session's latest cart (open or closed) from the Get
// methods, with lines loaded eagerly.
type CartRepository interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	// GetBySessionForUpdate locks the cart row until the surrounding transaction ends.
	// Only meaningful inside Store.WithinTx.
	GetBySessionForUpdate(ctx context.Context, sessionID string) (*domain.Cart, error)
	Create(ctx context.Context, sessionID string) (*domain.Cart, error)
	ReplaceLines(ctx context.Context, cartID string, lines []domain.CartLine) error
	MarkClosed(ctx context.Context, cartID string, closedAt time.Time) error
}
