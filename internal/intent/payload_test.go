package intent

import (
	"testing"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "  ```JSON {\"a\":1}```  ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(stripFences([]byte(tt.in))))
	}
}

func TestDecodePayload(t *testing.T) {
	schema, err := compileSchema()
	require.NoError(t, err)

	tests := []struct {
		name    string
		raw     string
		want    domain.Intent
		wantErr bool
	}{
		{
			name: "valid derived from kind",
			raw:  `{"intent_type": "show_cart"}`,
			want: domain.Intent{Valid: true, Kind: domain.KindShowCart, Items: []domain.IntentItem{}, Source: domain.SourceClassifier},
		},
		{
			name: "checkout defaults to unconfirmed",
			raw:  "```json\n{\"intent_type\": \"checkout\"}\n```",
			want: domain.Intent{Valid: true, Kind: domain.KindCheckout, Items: []domain.IntentItem{}, Source: domain.SourceClassifier},
		},
		{
			name: "legacy add_item with sku",
			raw:  `{"intent_type": "add_item", "items": [{"sku": "m1", "quantity": 2}]}`,
			want: domain.Intent{
				Valid: true, Kind: domain.KindMutateCart, Source: domain.SourceClassifier,
				Items: []domain.IntentItem{{MenuItemID: "m1", Quantity: 2, Op: domain.CartOpApply}},
			},
		},
		{
			name: "legacy remove_item",
			raw:  `{"intent_type": "remove_item", "items": [{"menu_item_id": "m3"}]}`,
			want: domain.Intent{
				Valid: true, Kind: domain.KindMutateCart, Source: domain.SourceClassifier,
				Items: []domain.IntentItem{{MenuItemID: "m3", Quantity: 1, Op: domain.CartOpRemove}},
			},
		},
		{
			name: "names resolve and duplicates collapse to last",
			raw: `{"intent_type": "mutate_cart_items", "items": [
				{"name": "burger", "quantity": 1},
				{"menu_item_id": "m3", "quantity": 1},
				{"menu_item_id": "Burger", "quantity": 4}
			]}`,
			want: domain.Intent{
				Valid: true, Kind: domain.KindMutateCart, Source: domain.SourceClassifier,
				Items: []domain.IntentItem{
					{MenuItemID: "m1", Quantity: 4, Op: domain.CartOpApply},
					{MenuItemID: "m3", Quantity: 1, Op: domain.CartOpApply},
				},
			},
		},
		{name: "mutate without items", raw: `{"intent_type": "mutate_cart_items", "items": []}`, wantErr: true},
		{name: "apply with zero quantity", raw: `{"intent_type": "mutate_cart_items", "items": [{"menu_item_id": "m1", "quantity": 0}]}`, wantErr: true},
		{name: "quantity over limit", raw: `{"intent_type": "mutate_cart_items", "items": [{"menu_item_id": "m1", "quantity": 1000}]}`, wantErr: true},
		{name: "unknown item", raw: `{"intent_type": "mutate_cart_items", "items": [{"menu_item_id": "pizza"}]}`, wantErr: true},
		{name: "unsupported kind", raw: `{"intent_type": "dance"}`, wantErr: true},
		{name: "missing kind", raw: `{"valid": true}`, wantErr: true},
		{name: "wrong type", raw: `{"intent_type": "checkout", "confirmed": "yes"}`, wantErr: true},
		{name: "not json", raw: `sure, here you go`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayload(schema, []byte(tt.raw), testMenu)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePayloadUnknownIsNeverValid(t *testing.T) {
	schema, err := compileSchema()
	require.NoError(t, err)

	got, err := decodePayload(schema, []byte(`{"valid": true, "intent_type": "unknown"}`), testMenu)
	require.NoError(t, err)
	assert.False(t, got.Valid)
	assert.Equal(t, domain.KindUnknown, got.Kind)
}
