package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/repo"
	"go.uber.org/zap"
)

type OrderService struct {
	orders repo.OrderRepository
	logger *zap.SugaredLogger
}

func NewOrderService(orders repo.OrderRepository, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus handles the management service callback. Only the
// PROCESSING -> DONE transition exists; an empty status means DONE.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (bool, error) {
	if status != "" && domain.OrderStatus(status) != domain.OrderStatusDone {
		s.logger.Warnw("ignoring unsupported order status", "order_id", orderID, "status", status)
		return false, nil
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusProcessing, domain.OrderStatusDone)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, domain.ErrOrderNotFound
		}
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return updated, nil
}
