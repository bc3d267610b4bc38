package domain

import "errors"

var (
	ErrEmptyMessage          = errors.New("message is empty")
	ErrInvalidSession        = errors.New("session id is required")
	ErrNoCartOps             = errors.New("no items to change")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrItemNotFound          = errors.New("menu item not found")
	ErrCartNotFound          = errors.New("cart not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrMenuNotFound          = errors.New("menu not found")
	ErrCartClosed            = errors.New("cart is closed")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrLockTimeout           = errors.New("cart is busy, retry later")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)

// Stable reason codes returned to API callers.
const (
	CodeInvalidInput          = "invalid_input"
	CodeNotFound              = "not_found"
	CodeConflictState         = "conflict_state"
	CodeEmptyCart             = "empty_cart"
	CodeLockTimeout           = "lock_timeout"
	CodeClassifierUnavailable = "classifier_unavailable"
	CodeInternal              = "internal"
)

func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidSession), errors.Is(err, ErrNoCartOps):
		return CodeInvalidInput
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrMenuNotFound):
		return CodeNotFound
	case errors.Is(err, ErrCartClosed):
		return CodeConflictState
	case errors.Is(err, ErrEmptyCart):
		return CodeEmptyCart
	case errors.Is(err, ErrLockTimeout):
		return CodeLockTimeout
	case errors.Is(err, ErrClassifierUnavailable):
		return CodeClassifierUnavailable
	default:
		return CodeInternal
	}
}

// Retryable reports whether the caller may repeat the same turn unchanged.
func Retryable(err error) bool {
	return Code(err) == CodeLockTimeout
}
