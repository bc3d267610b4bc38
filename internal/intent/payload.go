package intent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	payloadSchemaURL = "https://order-bot.local/schemas/intent.schema.json"
	payloadSchema    = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["intent_type"],
  "properties": {
    "valid": {"type": "boolean"},
    "intent_type": {"type": "string", "minLength": 1},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "menu_item_id": {"type": ["string", "null"]},
          "sku": {"type": ["string", "null"]},
          "name": {"type": ["string", "null"]},
          "quantity": {"type": ["integer", "null"], "minimum": 0, "maximum": 999},
          "op": {"enum": ["apply", "remove", "", null]}
        }
      }
    },
    "query": {"type": ["string", "null"]},
    "confirmed": {"type": ["boolean", "null"]},
    "reason": {"type": ["string", "null"]}
  }
}`

	maxQuantity = 999
)

var legacyKinds = map[string]domain.CartOpKind{
	"add_item":    domain.CartOpApply,
	"update_item": domain.CartOpApply,
	"remove_item": domain.CartOpRemove,
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(payloadSchemaURL, strings.NewReader(payloadSchema)); err != nil {
		return nil, fmt.Errorf("intent schema load failed: %w", err)
	}
	schema, err := c.Compile(payloadSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("intent schema compile failed: %w", err)
	}
	return schema, nil
}

type payload struct {
	Valid      *bool         `json:"valid"`
	IntentType string        `json:"intent_type"`
	Items      []payloadItem `json:"items"`
	Query      string        `json:"query"`
	Confirmed  *bool         `json:"confirmed"`
	Reason     string        `json:"reason"`
}

type payloadItem struct {
	MenuItemID string `json:"menu_item_id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Quantity   *int   `json:"quantity"`
	Op         string `json:"op"`
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(raw []byte) []byte {
	text := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(text, []byte("```")) {
		return text
	}
	text = bytes.Trim(text, "`")
	text = bytes.TrimSpace(text)
	if len(text) >= 4 && strings.EqualFold(string(text[:4]), "json") {
		text = text[4:]
	}
	return bytes.TrimSpace(text)
}

// decodePayload validates raw against the intent schema, repairs it and checks
// per-kind semantics. The returned intent may still be invalid or unknown.
func decodePayload(schema *jsonschema.Schema, raw []byte, menu []domain.MenuItem) (domain.Intent, error) {
	text := stripFences(raw)
	if len(text) == 0 {
		return domain.Intent{}, errors.New("empty payload")
	}

	var doc any
	if err := json.Unmarshal(text, &doc); err != nil {
		return domain.Intent{}, fmt.Errorf("malformed payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return domain.Intent{}, fmt.Errorf("payload failed schema: %w", err)
	}

	var p payload
	if err := json.Unmarshal(text, &p); err != nil {
		return domain.Intent{}, fmt.Errorf("malformed payload: %w", err)
	}

	kind := domain.Kind(strings.ToLower(strings.TrimSpace(p.IntentType)))
	defaultOp := domain.CartOpApply
	if op, ok := legacyKinds[string(kind)]; ok {
		kind = domain.KindMutateCart
		defaultOp = op
	}
	if !kind.Known() {
		return domain.Intent{}, fmt.Errorf("unsupported intent type %q", p.IntentType)
	}

	in := domain.Intent{
		Kind:   kind,
		Items:  []domain.IntentItem{},
		Reason: p.Reason,
		Source: domain.SourceClassifier,
	}
	if p.Valid != nil {
		in.Valid = *p.Valid
	} else {
		in.Valid = kind != domain.KindUnknown
	}
	if kind == domain.KindUnknown {
		in.Valid = false
		return in, nil
	}

	switch kind {
	case domain.KindMutateCart:
		items, err := resolveItems(p.Items, defaultOp, menu)
		if err != nil {
			return domain.Intent{}, err
		}
		if len(items) == 0 {
			return domain.Intent{}, errors.New("mutate_cart_items without items")
		}
		in.Items = items
	case domain.KindSearchMenu:
		in.Query = strings.TrimSpace(p.Query)
	case domain.KindCheckout:
		in.Confirmed = p.Confirmed != nil && *p.Confirmed
	case domain.KindShowCart:
	}

	return in, nil
}

// resolveItems maps names to menu ids and collapses duplicates, keeping the last
// mention of each item in the position of its first.
func resolveItems(raw []payloadItem, defaultOp domain.CartOpKind, menu []domain.MenuItem) ([]domain.IntentItem, error) {
	index := make(map[string]int, len(raw))
	out := make([]domain.IntentItem, 0, len(raw))

	for _, r := range raw {
		id, err := resolveItemID(r, menu)
		if err != nil {
			return nil, err
		}

		op := domain.CartOpKind(r.Op)
		if op == "" {
			op = defaultOp
		}

		qty := 1
		if r.Quantity != nil {
			qty = *r.Quantity
		}
		if op == domain.CartOpApply && (qty < 1 || qty > maxQuantity) {
			return nil, fmt.Errorf("item %s: %w", id, domain.ErrInvalidQuantity)
		}

		item := domain.IntentItem{MenuItemID: id, Quantity: qty, Op: op}
		if i, ok := index[id]; ok {
			out[i] = item
			continue
		}
		index[id] = len(out)
		out = append(out, item)
	}
	return out, nil
}

func resolveItemID(r payloadItem, menu []domain.MenuItem) (string, error) {
	ref := strings.TrimSpace(r.MenuItemID)
	if ref == "" {
		ref = strings.TrimSpace(r.SKU)
	}

	if ref != "" {
		if len(menu) == 0 {
			return ref, nil
		}
		if m := findByID(menu, ref); m != nil {
			return m.ID, nil
		}
		// models sometimes put the item name in the id field
		if m := findByName(menu, ref); m != nil {
			return m.ID, nil
		}
		return "", fmt.Errorf("item %q: %w", ref, domain.ErrItemNotFound)
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		return "", errors.New("item without id or name")
	}
	if m := findByName(menu, name); m != nil {
		return m.ID, nil
	}
	return "", fmt.Errorf("item %q: %w", name, domain.ErrItemNotFound)
}

func findByID(menu []domain.MenuItem, id string) *domain.MenuItem {
	for i := range menu {
		if strings.EqualFold(menu[i].ID, id) {
			return &menu[i]
		}
	}
	return nil
}

func findByName(menu []domain.MenuItem, name string) *domain.MenuItem {
	for i := range menu {
		if strings.EqualFold(strings.TrimSpace(menu[i].Name), name) {
			return &menu[i]
		}
	}
	return nil
}
