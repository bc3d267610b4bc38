package main

import (
	"net/http"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/RockkLee/order-bot/internal/money"
)

type CartLineResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	Status     domain.CartStatus  `json:"status"`
	Items      []CartLineResponse `json:"items"`
	TotalPrice string             `json:"total_price"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	if cart == nil {
		return CartResponse{Items: []CartLineResponse{}, TotalPrice: money.Format(0)}
	}

	items := make([]CartLineResponse, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, CartLineResponse{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  money.Format(l.UnitPriceScaled),
			TotalPrice: money.Format(l.LineTotalScaled),
		})
	}

	return CartResponse{
		ID:         cart.ID,
		Status:     cart.Status,
		Items:      items,
		TotalPrice: money.Format(cart.TotalScaled()),
	}
}

// getCartHandler godoc
//
//	@Summary		Get the session's cart
//	@Description	Returns the latest cart of the session without creating one
//	@Tags			chat
//	@Produce		json
//	@Param			Session-Id	header		string	true	"Chat session id"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	errorEnvelope
//	@Failure		404			{object}	errorEnvelope
//	@Failure		500			{object}	errorEnvelope
//	@Router			/cart [get]
func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sessionID == "" {
		app.badRequestResponse(w, r, ErrMissingSession)
		return
	}

	cart, err := app.carts.Snapshot(r.Context(), sessionID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newCartResponse(cart)); err != nil {
		app.internalServerError(w, r, err)
	}
}
