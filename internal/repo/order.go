package repo

import (
	"context"

	"github.com/RockkLee/order-bot/internal/domain"
)

type OrderRepository interface {
	InsertOrder(ctx context.Context, cart *domain.Cart, totalScaled int64) (*domain.Order, error)
	// InsertOrderLines assigns line ids and returns the stored lines.
	InsertOrderLines(ctx context.Context, orderID string, lines []domain.OrderLine) ([]domain.OrderLine, error)
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	// UpdateStatus moves an order from one status to another and reports whether it
	// was in the from status.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)
}
