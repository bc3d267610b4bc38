package intent

import (
	"testing"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMatchFallback(t *testing.T) {
	tests := []struct {
		msg       string
		hasItems  bool
		kind      domain.Kind
		valid     bool
		confirmed bool
		items     []domain.IntentItem
	}{
		{msg: "show cart", kind: domain.KindShowCart, valid: true},
		{msg: "Can you show me my order?", kind: domain.KindShowCart, valid: true},
		{msg: "what's in my basket", kind: domain.KindShowCart, valid: true},
		{msg: "checkout", kind: domain.KindCheckout, valid: true},
		{msg: "Checkout now please", kind: domain.KindCheckout, valid: true},
		{msg: "yes", kind: domain.KindCheckout, valid: true, confirmed: true},
		{msg: "Confirm!", kind: domain.KindCheckout, valid: true, confirmed: true},
		{msg: "place my order, yes", kind: domain.KindCheckout, valid: true, confirmed: true},
		{
			msg: "add sku m3 2", kind: domain.KindMutateCart, valid: true,
			items: []domain.IntentItem{{MenuItemID: "m3", Quantity: 2, Op: domain.CartOpApply}},
		},
		{
			msg: "add 3 chicken burger", kind: domain.KindMutateCart, valid: true,
			items: []domain.IntentItem{{MenuItemID: "m2", Quantity: 3, Op: domain.CartOpApply}},
		},
		{
			msg: "please add fries", kind: domain.KindMutateCart, valid: true,
			items: []domain.IntentItem{{MenuItemID: "m3", Quantity: 1, Op: domain.CartOpApply}},
		},
		{
			msg: "remove the burger", kind: domain.KindMutateCart, valid: true,
			items: []domain.IntentItem{{MenuItemID: "m1", Quantity: 1, Op: domain.CartOpRemove}},
		},
		{msg: "add 1000 burger", kind: domain.KindUnknown},
		{msg: "add 99999999999999999999 fries", kind: domain.KindUnknown},
		{msg: "add 1000 burger", hasItems: true, kind: domain.KindShowCart, valid: true},
		{msg: "add a milkshake", kind: domain.KindUnknown},
		{msg: "add a pizza", hasItems: true, kind: domain.KindShowCart, valid: true},
		{msg: "hello there", kind: domain.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got := matchFallback(tt.msg, testMenu, tt.hasItems, "test")
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.confirmed, got.Confirmed)
			assert.Equal(t, domain.SourceFallback, got.Source)
			assert.NotEmpty(t, got.Reason)
			if tt.items != nil {
				assert.Equal(t, tt.items, got.Items)
			}
		})
	}
}

func TestWordIndex(t *testing.T) {
	tests := []struct {
		text, word string
		want       int
	}{
		{"add m1 please", "m1", 4},
		{"m1", "m1", 0},
		{"add m12", "m1", -1},
		{"xm1 m1", "m1", 4},
		{"add sku-m1, thanks", "m1", 8},
		{"short", "longer word", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wordIndex(tt.text, tt.word), tt.text)
	}
}
