package main

import (
	"net/http"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/google/uuid"
)

const sessionHeader = "Session-Id"

type ChatRequest struct {
	MenuID  string `json:"menu_id" validate:"required,max=64"`
	Message string `json:"message" validate:"max=2000"`
}

type ChatResponse struct {
	SessionID   string            `json:"session_id"`
	Reply       string            `json:"reply"`
	Intent      domain.Intent     `json:"intent"`
	Cart        CartResponse      `json:"cart"`
	OrderID     string            `json:"order_id,omitempty"`
	MenuResults []domain.MenuItem `json:"menu_results,omitempty"`
}

// chatHandler godoc
//
//	@Summary		Handle a chat turn
//	@Description	Resolves the message against the session's cart and replies. A new session id is issued when the header is missing.
//	@Tags			chat
//	@Accept			json
//	@Produce		json
//	@Param			Session-Id	header		string		false	"Chat session id"
//	@Param			request		body		ChatRequest	true	"Chat message"
//	@Success		200			{object}	ChatResponse
//	@Failure		400			{object}	errorEnvelope
//	@Failure		404			{object}	errorEnvelope
//	@Failure		409			{object}	errorEnvelope
//	@Failure		500			{object}	errorEnvelope
//	@Router			/chat [post]
func (app *application) chatHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	w.Header().Set(sessionHeader, sessionID)

	var req ChatRequest
	if err := readJSON(w, r, &req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(req); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	menu, err := app.menus.Items(r.Context(), req.MenuID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	result, err := app.chat.HandleTurn(r.Context(), sessionID, req.Message, menu)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	response := ChatResponse{
		SessionID:   result.SessionID,
		Reply:       result.Reply,
		Intent:      result.Intent,
		Cart:        newCartResponse(result.Cart),
		OrderID:     result.OrderID,
		MenuResults: result.MenuResults,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
