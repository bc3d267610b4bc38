package main

import (
	"net/http"

	"github.com/RockkLee/order-bot/internal/service"
	"github.com/go-chi/chi"
)

// getMenuHandler godoc
//
//	@Summary		Get menu by ID
//	@Description	Get menu details by menu ObjectID or restaurant id
//	@Tags			menus
//	@Produce		json
//	@Param			menu_id	path		string	true	"Menu ID"
//	@Success		200		{object}	domain.Menu
//	@Failure		400		{object}	errorEnvelope
//	@Failure		404		{object}	errorEnvelope
//	@Failure		500		{object}	errorEnvelope
//	@Router			/menu/{menu_id} [get]
func (app *application) getMenuHandler(w http.ResponseWriter, r *http.Request) {
	menuID := chi.URLParam(r, "menu_id")
	if menuID == "" {
		app.badRequestResponse(w, r, ErrInvalidID)
		return
	}

	menu, err := app.menus.Get(r.Context(), menuID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, menu); err != nil {
		app.internalServerError(w, r, err)
	}
}

// searchMenuHandler godoc
//
//	@Summary		Search menu items
//	@Description	Lists available items whose name or category contains q
//	@Tags			menus
//	@Produce		json
//	@Param			menu_id	path		string	true	"Menu ID"
//	@Param			q		query		string	false	"Search text"
//	@Success		200		{array}		domain.MenuItem
//	@Failure		404		{object}	errorEnvelope
//	@Failure		500		{object}	errorEnvelope
//	@Router			/menu/{menu_id}/items [get]
func (app *application) searchMenuHandler(w http.ResponseWriter, r *http.Request) {
	items, err := app.menus.Items(r.Context(), chi.URLParam(r, "menu_id"))
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, service.SearchItems(items, r.URL.Query().Get("q"))); err != nil {
		app.internalServerError(w, r, err)
	}
}
