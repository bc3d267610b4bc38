package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
	"github.com/google/uuid"
)

const (
	selectLatestCart = `SELECT id, session_id, status, created_at, updated_at, closed_at FROM carts WHERE session_id = $1 ORDER BY created_at DESC LIMIT 1`
	selectCartLines  = `SELECT menu_item_id, name, quantity, unit_price_scaled, total_price_scaled FROM cart_items WHERE cart_id = $1 ORDER BY position`
	insertCart       = `INSERT INTO carts (id, session_id, status, created_at, updated_at) VALUES ($1, $2, 'OPEN', $3, $3) ON CONFLICT (session_id) WHERE status = 'OPEN' DO NOTHING`
	deleteCartLines  = `DELETE FROM cart_items WHERE cart_id = $1`
	insertCartLine   = `INSERT INTO cart_items (cart_id, menu_item_id, position, name, quantity, unit_price_scaled, total_price_scaled) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	touchCart        = `UPDATE carts SET updated_at = $2 WHERE id = $1`
	closeCart        = `UPDATE carts SET status = 'CLOSED', closed_at = $2, updated_at = $2 WHERE id = $1 AND status = 'OPEN'`
)

type CartRepository struct {
	q   querier
	now func() time.Time
}

func (r *CartRepository) GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return r.get(ctx, selectLatestCart, sessionID)
}

func (r *CartRepository) GetBySessionForUpdate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return r.get(ctx, selectLatestCart+" FOR UPDATE", sessionID)
}

func (r *CartRepository) get(ctx context.Context, query, sessionID string) (*domain.Cart, error) {
	var (
		c        domain.Cart
		status   string
		closedAt sql.NullTime
	)
	err := r.q.QueryRowContext(ctx, query, sessionID).
		Scan(&c.ID, &c.SessionID, &status, &c.CreatedAt, &c.UpdatedAt, &closedAt)
	if err != nil {
		return nil, translate(err)
	}
	c.Status = domain.CartStatus(status)
	if closedAt.Valid {
		t := closedAt.Time
		c.ClosedAt = &t
	}

	lines, err := r.lines(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Lines = lines
	return &c, nil
}

func (r *CartRepository) lines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	rows, err := r.q.QueryContext(ctx, selectCartLines, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", translate(err))
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		l := domain.CartLine{CartID: cartID}
		if err := rows.Scan(&l.MenuItemID, &l.Name, &l.Quantity, &l.UnitPriceScaled, &l.LineTotalScaled); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *CartRepository) Create(ctx context.Context, sessionID string) (*domain.Cart, error) {
	now := r.now().UTC()
	c := &domain.Cart{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Status:    domain.CartStatusOpen,
		Lines:     []domain.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := r.q.ExecContext(ctx, insertCart, c.ID, c.SessionID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	if n == 0 {
		return nil, repo.ErrConflict
	}
	return c, nil
}

func (r *CartRepository) ReplaceLines(ctx context.Context, cartID string, lines []domain.CartLine) error {
	if _, err := r.q.ExecContext(ctx, deleteCartLines, cartID); err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", translate(err))
	}
	for i, l := range lines {
		_, err := r.q.ExecContext(ctx, insertCartLine,
			cartID, l.MenuItemID, i, l.Name, l.Quantity, l.UnitPriceScaled, l.LineTotalScaled)
		if err != nil {
			return fmt.Errorf("failed to insert cart line %s: %w", l.MenuItemID, translate(err))
		}
	}
	if _, err := r.q.ExecContext(ctx, touchCart, cartID, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to touch cart: %w", translate(err))
	}
	return nil
}

func (r *CartRepository) MarkClosed(ctx context.Context, cartID string, closedAt time.Time) error {
	res, err := r.q.ExecContext(ctx, closeCart, cartID, closedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to close cart: %w", translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close cart: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("cart %s: %w", cartID, domain.ErrCartClosed)
	}
	return nil
}
