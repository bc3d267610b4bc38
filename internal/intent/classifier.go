// Package intent turns a free-text chat message into a validated domain.Intent.
// A pluggable Classifier is tried first; its payload is schema-checked and repaired,
// and a deterministic matcher takes over whenever the classifier cannot be trusted.
package intent

import (
	"context"
	"encoding/json"

	"github.com/RockkLee/order-bot/internal/domain"
)

// Request is everything a classifier may look at for one turn.
type Request struct {
	Message      string        `json:"message"`
	HasCartItems bool          `json:"has_cart_items"`
	Menu         []MenuEntry   `json:"menu,omitempty"`
	Cart         []CartEntry   `json:"cart,omitempty"`
	Kinds        []domain.Kind `json:"intent_types"`
}

type MenuEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CartEntry struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// Classifier returns a raw JSON intent payload. Implementations must honor ctx.
type Classifier interface {
	Classify(ctx context.Context, req Request) (json.RawMessage, error)
}

type ClassifierFunc func(ctx context.Context, req Request) (json.RawMessage, error)

func (f ClassifierFunc) Classify(ctx context.Context, req Request) (json.RawMessage, error) {
	return f(ctx, req)
}

// NopClassifier always fails, leaving every turn to the fallback matcher.
type NopClassifier struct{}

func (NopClassifier) Classify(context.Context, Request) (json.RawMessage, error) {
	return nil, domain.ErrClassifierUnavailable
}

func newRequest(message string, menu []domain.MenuItem, cartHasItems bool, cart []domain.CartLine) Request {
	req := Request{
		Message:      message,
		HasCartItems: cartHasItems,
		Menu:         make([]MenuEntry, 0, len(menu)),
		Cart:         make([]CartEntry, 0, len(cart)),
		Kinds: []domain.Kind{
			domain.KindSearchMenu, domain.KindMutateCart, domain.KindShowCart,
			domain.KindCheckout, domain.KindUnknown,
		},
	}
	for _, m := range menu {
		if !m.Available() {
			continue
		}
		req.Menu = append(req.Menu, MenuEntry{ID: m.ID, Name: m.Name})
	}
	for _, l := range cart {
		req.Cart = append(req.Cart, CartEntry{MenuItemID: l.MenuItemID, Name: l.Name, Quantity: l.Quantity})
	}
	return req
}
