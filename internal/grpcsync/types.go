package grpcsync

import "github.com/RockkLee/order-bot/internal/domain"

const (
	methodSubmitOrder       = "/ordersync.OrderSyncService/SubmitOrder"
	serviceOrderCallback    = "ordersync.OrderCallbackService"
	methodUpdateOrderStatus = "UpdateOrderStatus"
)

type SubmitOrderRequest struct {
	OrderID     string            `json:"order_id"`
	CartID      string            `json:"cart_id"`
	SessionID   string            `json:"session_id"`
	TotalScaled int64             `json:"total_scaled"`
	Items       []SubmitOrderItem `json:"items"`
}

type SubmitOrderItem struct {
	ID               string `json:"id"`
	MenuItemID       string `json:"menu_item_id"`
	Name             string `json:"name"`
	Quantity         int32  `json:"quantity"`
	UnitPriceScaled  int64  `json:"unit_price_scaled"`
	TotalPriceScaled int64  `json:"total_price_scaled"`
}

type SubmitOrderResponse struct {
	Accepted bool `json:"accepted"`
}

type UpdateOrderStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type UpdateOrderStatusResponse struct {
	Updated bool `json:"updated"`
}

func submitRequestFromEvent(e domain.OrderPlacedEvent) SubmitOrderRequest {
	items := make([]SubmitOrderItem, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, SubmitOrderItem{
			ID:               it.ID,
			MenuItemID:       it.MenuItemID,
			Name:             it.Name,
			Quantity:         it.Quantity,
			UnitPriceScaled:  it.UnitPriceScaled,
			TotalPriceScaled: it.TotalPriceScaled,
		})
	}
	return SubmitOrderRequest{
		OrderID:     e.OrderID,
		CartID:      e.CartID,
		SessionID:   e.SessionID,
		TotalScaled: e.TotalScaled,
		Items:       items,
	}
}
