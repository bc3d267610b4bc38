package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptyMessage, CodeInvalidInput},
		{fmt.Errorf("mutate: %w", ErrInvalidQuantity), CodeInvalidInput},
		{ErrInvalidSession, CodeInvalidInput},
		{ErrNoCartOps, CodeInvalidInput},
		{fmt.Errorf("lookup: %w", ErrItemNotFound), CodeNotFound},
		{ErrCartClosed, CodeConflictState},
		{ErrEmptyCart, CodeEmptyCart},
		{fmt.Errorf("lock: %w", ErrLockTimeout), CodeLockTimeout},
		{errors.New("boom"), CodeInternal},
		{fmt.Errorf("find menu: %w", context.DeadlineExceeded), CodeInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Code(tc.err), "err=%v", tc.err)
	}
	assert.True(t, Retryable(ErrLockTimeout))
	assert.False(t, Retryable(ErrCartClosed))
	assert.False(t, Retryable(context.DeadlineExceeded))
}

func TestCartTotalsAndClone(t *testing.T) {
	c := &Cart{Status: CartStatusOpen, Lines: []CartLine{
		{MenuItemID: "a", Quantity: 2, UnitPriceScaled: 450, LineTotalScaled: 900},
		{MenuItemID: "b", Quantity: 1, UnitPriceScaled: 125, LineTotalScaled: 125},
	}}
	assert.Equal(t, int64(1025), c.TotalScaled())

	cp := c.Clone()
	cp.Lines[0].Quantity = 9
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestIntentCartOpsDefaultsToApply(t *testing.T) {
	in := Intent{Kind: KindMutateCart, Items: []IntentItem{
		{MenuItemID: "a", Quantity: 2},
		{MenuItemID: "b", Op: CartOpRemove},
	}}
	ops := in.CartOps()
	assert.Equal(t, CartOpApply, ops[0].Op)
	assert.Equal(t, CartOpRemove, ops[1].Op)
}
