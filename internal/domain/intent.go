package domain

type Kind string

const (
	KindSearchMenu Kind = "search_menu"
	KindMutateCart Kind = "mutate_cart_items"
	KindShowCart   Kind = "show_cart"
	KindCheckout   Kind = "checkout"
	KindUnknown    Kind = "unknown"
)

func (k Kind) Known() bool {
	switch k {
	case KindSearchMenu, KindMutateCart, KindShowCart, KindCheckout, KindUnknown:
		return true
	}
	return false
}

// Source records which resolution path produced an intent.
type Source string

const (
	SourceClassifier Source = "classifier"
	SourceFallback   Source = "fallback"
	SourceNone       Source = "none"
)

type IntentItem struct {
	MenuItemID string     `json:"menu_item_id"`
	Quantity   int        `json:"quantity"`
	Op         CartOpKind `json:"op,omitempty"`
}

// Intent is the validated interpretation of one chat message. It lives for a single
// turn and is never persisted.
type Intent struct {
	Valid     bool         `json:"valid"`
	Kind      Kind         `json:"intent_type"`
	Items     []IntentItem `json:"items"`
	Query     string       `json:"query,omitempty"`
	Confirmed bool         `json:"confirmed"`
	Reason    string       `json:"reason,omitempty"`
	Source    Source       `json:"source"`
}

func UnknownIntent(reason string, source Source) Intent {
	return Intent{Valid: false, Kind: KindUnknown, Items: []IntentItem{}, Reason: reason, Source: source}
}

// CartOps converts the intent items into engine operations.
func (i Intent) CartOps() []CartOp {
	ops := make([]CartOp, 0, len(i.Items))
	for _, it := range i.Items {
		op := it.Op
		if op == "" {
			op = CartOpApply
		}
		ops = append(ops, CartOp{MenuItemID: it.MenuItemID, Quantity: it.Quantity, Op: op})
	}
	return ops
}
