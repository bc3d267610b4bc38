// Package reply renders the user-facing text for a resolved turn.
package reply

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/money"
)

const (
	Clarify = "Sorry, I didn't understand that. Could you clarify?\n" +
		"I can only help you place an order.\n" +
		"\n" +
		"If you want to see the menu, click the button in the top-right corner."
	MenuPointer     = "You can check the menu by clicking the button in the top-right corner."
	EmptyCart       = "Sorry, you don't have any items in your order yet."
	EmptyCheckout   = EmptyCart + "\nPlease order some items before checkout."
	ConfirmCheckout = "Ready to place your order. Please confirm to proceed."
	NotUnderstood   = "Sorry, I didn't understand that."

	updated = "Sure! I've updated your order."
	rule    = "--------------------------------"
	current = "Here is your current order:"
	offer   = "If you'd like to submit your order, I'm happy to help."
)

// Compose is a pure function of the intent and the cart after the turn's action.
func Compose(in domain.Intent, cart *domain.Cart) string {
	if !in.Valid {
		return Clarify
	}

	switch in.Kind {
	case domain.KindSearchMenu:
		return MenuPointer
	case domain.KindMutateCart:
		return strings.Join([]string{updated, "", rule, "", current, RenderCart(cart), "", offer}, "\n")
	case domain.KindShowCart:
		if !hasItems(cart) {
			return EmptyCart
		}
		return strings.Join([]string{current, RenderCart(cart), "", offer}, "\n")
	case domain.KindCheckout:
		if !hasItems(cart) {
			return EmptyCheckout
		}
		return ConfirmCheckout
	case domain.KindUnknown:
		return NotUnderstood
	default:
		return NotUnderstood
	}
}

// OrderPlaced is the reply after a confirmed checkout commits.
func OrderPlaced(orderID string) string {
	return fmt.Sprintf("Order placed! Your order id is %s.", orderID)
}

func hasItems(cart *domain.Cart) bool {
	return cart != nil && cart.HasItems()
}

type renderedLine struct {
	Name       string      `json:"name"`
	UnitPrice  json.Number `json:"unit price"`
	Quantity   int         `json:"quantity"`
	TotalPrice json.Number `json:"total price"`
}

type renderedCart struct {
	Items      []renderedLine `json:"items"`
	TotalPrice json.Number    `json:"total_price"`
}

// RenderCart prints the cart as indented JSON with two-place amounts.
func RenderCart(cart *domain.Cart) string {
	out := renderedCart{Items: []renderedLine{}, TotalPrice: json.Number(money.Format(0))}
	if cart != nil {
		for _, l := range cart.Lines {
			out.Items = append(out.Items, renderedLine{
				Name:       l.Name,
				UnitPrice:  json.Number(money.Format(l.UnitPriceScaled)),
				Quantity:   l.Quantity,
				TotalPrice: json.Number(money.Format(l.LineTotalScaled)),
			})
		}
		out.TotalPrice = json.Number(money.Format(cart.TotalScaled()))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "{}"
	}
	return strings.TrimRight(buf.String(), "\n")
}
