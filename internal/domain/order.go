package domain

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusDone       OrderStatus = "DONE"
)

type Order struct {
	ID          string      `json:"id"`
	CartID      string      `json:"cart_id"`
	SessionID   string      `json:"session_id"`
	Status      OrderStatus `json:"status"`
	TotalScaled int64       `json:"total_scaled"`
	Lines       []OrderLine `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
}

type OrderLine struct {
	ID              string `json:"id"`
	OrderID         string `json:"order_id"`
	MenuItemID      string `json:"menu_item_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPriceScaled int64  `json:"unit_price_scaled"`
	LineTotalScaled int64  `json:"total_price_scaled"`
}

// OrderLinesFromCart freezes the cart lines as they are at checkout.
func OrderLinesFromCart(lines []CartLine) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, OrderLine{
			MenuItemID:      l.MenuItemID,
			Name:            l.Name,
			Quantity:        l.Quantity,
			UnitPriceScaled: l.UnitPriceScaled,
			LineTotalScaled: l.LineTotalScaled,
		})
	}
	return out
}
