package domain

import "time"

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is the downstream sync payload. Field names follow the
// ordersync.SubmitOrder contract of the management service.
type OrderPlacedEvent struct {
	EventType   string            `json:"event_type"`
	OrderID     string            `json:"order_id"`
	CartID      string            `json:"cart_id"`
	SessionID   string            `json:"session_id"`
	TotalScaled int64             `json:"total_scaled"`
	Items       []OrderPlacedItem `json:"items"`
	Timestamp   time.Time         `json:"timestamp"`
}

type OrderPlacedItem struct {
	ID               string `json:"id"`
	MenuItemID       string `json:"menu_item_id"`
	Name             string `json:"name"`
	Quantity         int32  `json:"quantity"`
	UnitPriceScaled  int64  `json:"unit_price_scaled"`
	TotalPriceScaled int64  `json:"total_price_scaled"`
}

func NewOrderPlacedEvent(order *Order, now time.Time) OrderPlacedEvent {
	items := make([]OrderPlacedItem, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, OrderPlacedItem{
			ID:               l.ID,
			MenuItemID:       l.MenuItemID,
			Name:             l.Name,
			Quantity:         int32(l.Quantity),
			UnitPriceScaled:  l.UnitPriceScaled,
			TotalPriceScaled: l.LineTotalScaled,
		})
	}
	return OrderPlacedEvent{
		EventType:   EventOrderPlaced,
		OrderID:     order.ID,
		CartID:      order.CartID,
		SessionID:   order.SessionID,
		TotalScaled: order.TotalScaled,
		Items:       items,
		Timestamp:   now,
	}
}
