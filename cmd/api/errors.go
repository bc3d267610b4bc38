package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RockkLee/order-bot/internal/domain"
)

var (
	ErrInvalidID      = errors.New("invalid ID format")
	ErrMissingSession = errors.New("missing Session-Id header")
)

// retryAfter is advertised when a cart lock could not be taken in time.
const retryAfter = time.Second

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, domain.CodeInternal, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, domain.CodeNotFound, "not found")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retry time.Duration) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfterSeconds(retry))
	writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded, retry after: "+retry.String())
}

// domainError maps engine errors onto HTTP statuses by their reason code.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.Code(err)

	switch code {
	case domain.CodeInvalidInput:
		app.badRequestResponse(w, r, err)
	case domain.CodeNotFound:
		app.notFoundResponse(w, r, err)
	case domain.CodeConflictState:
		app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeJSONError(w, http.StatusConflict, code, err.Error())
	case domain.CodeLockTimeout:
		app.logger.Warnw("cart busy", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		w.Header().Set("Retry-After", retryAfterSeconds(retryAfter))
		writeJSONError(w, http.StatusConflict, code, domain.ErrLockTimeout.Error())
	case domain.CodeEmptyCart:
		writeJSONError(w, http.StatusUnprocessableEntity, code, err.Error())
	default:
		app.internalServerError(w, r, err)
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprint(secs)
}
