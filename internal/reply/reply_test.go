package reply

import (
	"testing"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func cartWith(lines ...domain.CartLine) *domain.Cart {
	return &domain.Cart{ID: "c1", SessionID: "s1", Status: domain.CartStatusOpen, Lines: lines}
}

func TestRenderCart(t *testing.T) {
	cart := cartWith(domain.CartLine{MenuItemID: "m1", Name: "Fish & Chips", Quantity: 2, UnitPriceScaled: 450, LineTotalScaled: 900})

	want := `{
  "items": [
    {
      "name": "Fish & Chips",
      "unit price": 4.50,
      "quantity": 2,
      "total price": 9.00
    }
  ],
  "total_price": 9.00
}`
	assert.Equal(t, want, RenderCart(cart))
}

func TestRenderEmptyCart(t *testing.T) {
	assert.Equal(t, "{\n  \"items\": [],\n  \"total_price\": 0.00\n}", RenderCart(nil))
}

func TestCompose(t *testing.T) {
	full := cartWith(domain.CartLine{MenuItemID: "m1", Name: "Burger", Quantity: 1, UnitPriceScaled: 450, LineTotalScaled: 450})
	empty := cartWith()

	tests := []struct {
		name   string
		intent domain.Intent
		cart   *domain.Cart
		want   string
	}{
		{name: "invalid", intent: domain.UnknownIntent("empty", domain.SourceNone), cart: full, want: Clarify},
		{name: "search", intent: domain.Intent{Valid: true, Kind: domain.KindSearchMenu}, cart: empty, want: MenuPointer},
		{name: "show empty", intent: domain.Intent{Valid: true, Kind: domain.KindShowCart}, cart: empty, want: EmptyCart},
		{name: "show nil cart", intent: domain.Intent{Valid: true, Kind: domain.KindShowCart}, want: EmptyCart},
		{
			name:   "show full",
			intent: domain.Intent{Valid: true, Kind: domain.KindShowCart},
			cart:   full,
			want:   "Here is your current order:\n" + RenderCart(full) + "\n\nIf you'd like to submit your order, I'm happy to help.",
		},
		{
			name:   "mutate",
			intent: domain.Intent{Valid: true, Kind: domain.KindMutateCart},
			cart:   full,
			want: "Sure! I've updated your order.\n\n--------------------------------\n\nHere is your current order:\n" +
				RenderCart(full) + "\n\nIf you'd like to submit your order, I'm happy to help.",
		},
		{name: "checkout empty", intent: domain.Intent{Valid: true, Kind: domain.KindCheckout}, cart: empty, want: EmptyCheckout},
		{name: "checkout unconfirmed", intent: domain.Intent{Valid: true, Kind: domain.KindCheckout}, cart: full, want: ConfirmCheckout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(tt.intent, tt.cart))
		})
	}
}

func TestOrderPlaced(t *testing.T) {
	assert.Equal(t, "Order placed! Your order id is o-1.", OrderPlaced("o-1"))
}
