package domain

import "time"

type CartStatus string

const (
	CartStatusOpen   CartStatus = "OPEN"
	CartStatusClosed CartStatus = "CLOSED"
)

type Cart struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Status    CartStatus `json:"status"`
	Lines     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// CartLine prices are scaled integers (hundredths). Name is copied from the catalog
// when the line is written and is never re-derived.
type CartLine struct {
	CartID          string `json:"-"`
	MenuItemID      string `json:"menu_item_id"`
	Name            string `json:"name"`
	Quantity        int    `json:"quantity"`
	UnitPriceScaled int64  `json:"unit_price_scaled"`
	LineTotalScaled int64  `json:"total_price_scaled"`
}

func (c *Cart) IsOpen() bool {
	return c.Status == CartStatusOpen
}

func (c *Cart) HasItems() bool {
	return len(c.Lines) > 0
}

func (c *Cart) TotalScaled() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.LineTotalScaled
	}
	return total
}

// Clone returns a deep copy so callers can mutate lines without touching shared state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	out.Lines = append([]CartLine(nil), c.Lines...)
	if c.ClosedAt != nil {
		t := *c.ClosedAt
		out.ClosedAt = &t
	}
	return &out
}

type CartOpKind string

const (
	CartOpApply  CartOpKind = "apply"
	CartOpRemove CartOpKind = "remove"
)

type CartOp struct {
	MenuItemID string
	Quantity   int
	Op         CartOpKind
}
