package service

import (
	"context"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/metrics"
	"github.com/RockkLee/order-bot/internal/reply"
	"go.uber.org/zap"
)

type IntentResolver interface {
	Resolve(ctx context.Context, message string, menu []domain.MenuItem, cartHasItems bool, cart []domain.CartLine) domain.Intent
}

type TurnResult struct {
	SessionID   string            `json:"session_id"`
	Reply       string            `json:"reply"`
	Cart        *domain.Cart      `json:"cart"`
	Intent      domain.Intent     `json:"intent"`
	OrderID     string            `json:"order_id,omitempty"`
	MenuResults []domain.MenuItem `json:"menu_results,omitempty"`
}

type ChatService struct {
	carts    *CartService
	checkout *CheckoutService
	resolver IntentResolver
	metrics  *metrics.Metrics
	logger   *zap.SugaredLogger
}

func NewChatService(
	carts *CartService,
	checkout *CheckoutService,
	resolver IntentResolver,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) *ChatService {
	return &ChatService{
		carts:    carts,
		checkout: checkout,
		resolver: resolver,
		metrics:  m,
		logger:   logger,
	}
}

// HandleTurn resolves one message against the session's cart and applies it.
// Engine errors are returned as is; callers map them with domain.Code.
func (s *ChatService) HandleTurn(ctx context.Context, sessionID, message string, menu []domain.MenuItem) (*TurnResult, error) {
	cart, err := s.carts.Ensure(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	in := s.resolver.Resolve(ctx, message, menu, cart.HasItems(), cart.Lines)
	result := &TurnResult{SessionID: sessionID, Cart: cart, Intent: in}

	if in.Valid {
		if err := s.dispatch(ctx, sessionID, menu, in, result); err != nil {
			s.logger.Warnw("turn failed",
				"session_id", sessionID, "intent", in.Kind, "code", domain.Code(err), "error", err)
			return nil, err
		}
	}
	if result.Reply == "" {
		result.Reply = reply.Compose(in, result.Cart)
	}

	s.metrics.Turn(string(in.Kind), string(in.Source))
	s.logger.Infow("turn handled",
		"session_id", sessionID,
		"intent", in.Kind,
		"source", in.Source,
		"valid", in.Valid,
		"reason", in.Reason,
		"order_id", result.OrderID,
	)
	return result, nil
}

func (s *ChatService) dispatch(ctx context.Context, sessionID string, menu []domain.MenuItem, in domain.Intent, result *TurnResult) error {
	switch in.Kind {
	case domain.KindMutateCart:
		cart, err := s.carts.Mutate(ctx, sessionID, in.CartOps())
		if err != nil {
			return err
		}
		result.Cart = cart

	case domain.KindCheckout:
		if !result.Cart.HasItems() {
			return nil
		}
		res, err := s.checkout.Checkout(ctx, sessionID, in.Confirmed)
		if err != nil {
			return err
		}
		result.Cart = res.Cart
		if res.Order != nil {
			result.OrderID = res.Order.ID
			result.Reply = reply.OrderPlaced(res.Order.ID)
		}

	case domain.KindSearchMenu:
		result.MenuResults = SearchItems(menu, in.Query)

	case domain.KindShowCart, domain.KindUnknown:
	}
	return nil
}
