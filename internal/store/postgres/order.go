package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
	"github.com/google/uuid"
)

const (
	insertOrder      = `INSERT INTO orders (id, cart_id, session_id, status, total_scaled, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	insertOrderLine  = `INSERT INTO order_items (id, order_id, position, menu_item_id, name, quantity, unit_price_scaled, total_price_scaled) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectOrder      = `SELECT id, cart_id, session_id, status, total_scaled, created_at FROM orders WHERE id = $1`
	updateOrderState = `UPDATE orders SET status = $3 WHERE id = $1 AND status = $2`
	selectOrderLines = `SELECT id, menu_item_id, name, quantity, unit_price_scaled, total_price_scaled FROM order_items WHERE order_id = $1 ORDER BY position`
)

type OrderRepository struct {
	q   querier
	now func() time.Time
}

func (r *OrderRepository) InsertOrder(ctx context.Context, cart *domain.Cart, totalScaled int64) (*domain.Order, error) {
	o := &domain.Order{
		ID:          uuid.NewString(),
		CartID:      cart.ID,
		SessionID:   cart.SessionID,
		Status:      domain.OrderStatusProcessing,
		TotalScaled: totalScaled,
		Lines:       []domain.OrderLine{},
		CreatedAt:   r.now().UTC(),
	}
	_, err := r.q.ExecContext(ctx, insertOrder, o.ID, o.CartID, o.SessionID, string(o.Status), o.TotalScaled, o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", translate(err))
	}
	return o, nil
}

func (r *OrderRepository) InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	stored := make([]domain.OrderLine, 0, len(lines))
	for i, l := range lines {
		l.ID = uuid.NewString()
		l.OrderID = orderID
		_, err := r.q.ExecContext(ctx, insertOrderLine,
			l.ID, orderID, i, l.MenuItemID, l.Name, l.Quantity, l.UnitPriceScaled, l.LineTotalScaled)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order line %s: %w", l.MenuItemID, translate(err))
		}
		stored = append(stored, l)
	}
	return stored, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := r.q.QueryRowContext(ctx, selectOrder, orderID).
		Scan(&o.ID, &o.CartID, &o.SessionID, &status, &o.TotalScaled, &o.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	o.Status = domain.OrderStatus(status)

	rows, err := r.q.QueryContext(ctx, selectOrderLines, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", translate(err))
	}
	defer rows.Close()

	o.Lines = []domain.OrderLine{}
	for rows.Next() {
		l := domain.OrderLine{OrderID: orderID}
		if err := rows.Scan(&l.ID, &l.MenuItemID, &l.Name, &l.Quantity, &l.UnitPriceScaled, &l.LineTotalScaled); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return &o, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	res, err := r.q.ExecContext(ctx, updateOrderState, orderID, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", translate(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check order: %w", translate(err))
	}
	if !exists {
		return false, repo.ErrNotFound
	}
	return false, nil
}
