package intent

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/RockkLee/order-bot/internal/domain"
)

var (
	showCartPattern = regexp.MustCompile(`\b(show|view|see|display|list)\b.*\b(cart|order|basket)\b|\bwhat'?s in my (cart|order|basket)\b|^(cart|my cart|my order)$`)
	checkoutPattern = regexp.MustCompile(`^checkout\b|\b(checkout|check out)\b|\b(place|submit|finish|complete)\b.*\border\b`)
	affirmOnly      = regexp.MustCompile(`^(yes|yep|yeah|y|confirm|confirmed|ok|okay|sure)\W*$`)
	affirmWord      = regexp.MustCompile(`\b(yes|confirm|confirmed)\b`)
	mutateVerb      = regexp.MustCompile(`\b(add|update|change|set|make it|remove|delete|drop|want|get me|i'?ll have)\b`)
	removeVerb      = regexp.MustCompile(`\b(remove|delete|drop)\b`)
	skuPattern      = regexp.MustCompile(`\bsku\s*[:#]?\s*([a-z0-9_\-]+)`)
	quantityPattern = regexp.MustCompile(`\b(\d+)\b`)
	numericID       = regexp.MustCompile(`^\d+$`)
)

const (
	punctuationTrim = "!?.,;: \t"
	fallbackClarify = "fallback:clarify"
	fallbackNoMatch = "fallback:no_match"
	fallbackMatched = "fallback:matched"
)

// matchFallback is the deterministic rule chain. cause is recorded in Reason.
func matchFallback(message string, menu []domain.MenuItem, cartHasItems bool, cause string) domain.Intent {
	text := strings.ToLower(strings.Trim(strings.TrimSpace(message), punctuationTrim))

	matched := func(kind domain.Kind) domain.Intent {
		return domain.Intent{
			Valid:  true,
			Kind:   kind,
			Items:  []domain.IntentItem{},
			Reason: cause + ";" + fallbackMatched,
			Source: domain.SourceFallback,
		}
	}

	if showCartPattern.MatchString(text) {
		return matched(domain.KindShowCart)
	}

	if affirmOnly.MatchString(text) {
		in := matched(domain.KindCheckout)
		in.Confirmed = true
		return in
	}
	if checkoutPattern.MatchString(text) {
		in := matched(domain.KindCheckout)
		in.Confirmed = affirmWord.MatchString(text)
		return in
	}

	if mutateVerb.MatchString(text) {
		if item, ok := extractItem(text, menu); ok {
			in := matched(domain.KindMutateCart)
			in.Items = []domain.IntentItem{item}
			return in
		}
	}

	if cartHasItems {
		in := matched(domain.KindShowCart)
		in.Reason = cause + ";" + fallbackClarify
		return in
	}
	return domain.UnknownIntent(cause+";"+fallbackNoMatch, domain.SourceFallback)
}

// extractItem finds one item token (sku, menu id or menu name) and a quantity.
func extractItem(text string, menu []domain.MenuItem) (domain.IntentItem, bool) {
	op := domain.CartOpApply
	if removeVerb.MatchString(text) {
		op = domain.CartOpRemove
	}

	id, rest := "", text
	if m := skuPattern.FindStringSubmatchIndex(text); m != nil {
		id = text[m[2]:m[3]]
		if known := findByID(menu, id); known != nil {
			id = known.ID
		}
		rest = text[:m[0]] + " " + text[m[1]:]
	} else if item, start, end := findInText(text, menu); item != nil {
		id = item.ID
		rest = text[:start] + " " + text[end:]
	}
	if id == "" {
		return domain.IntentItem{}, false
	}

	qty := 1
	if m := quantityPattern.FindStringSubmatch(rest); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return domain.IntentItem{}, false
		}
		qty = n
	}
	if op == domain.CartOpApply && (qty < 1 || qty > maxQuantity) {
		return domain.IntentItem{}, false
	}

	return domain.IntentItem{MenuItemID: id, Quantity: qty, Op: op}, true
}

// findInText matches menu ids as whole words first, then names, longest first so
// "chicken burger" wins over "burger".
func findInText(text string, menu []domain.MenuItem) (*domain.MenuItem, int, int) {
	candidates := make([]*domain.MenuItem, 0, len(menu))
	for i := range menu {
		if menu[i].Available() {
			candidates = append(candidates, &menu[i])
		}
	}

	for _, m := range candidates {
		// bare numbers are indistinguishable from quantities; those need "sku <id>"
		if m.ID == "" || numericID.MatchString(m.ID) {
			continue
		}
		id := strings.ToLower(m.ID)
		if i := wordIndex(text, id); i >= 0 {
			return m, i, i + len(id)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].Name) > len(candidates[j].Name)
	})
	for _, m := range candidates {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" {
			continue
		}
		if i := strings.Index(text, name); i >= 0 {
			return m, i, i + len(name)
		}
	}
	return nil, 0, 0
}

// wordIndex is strings.Index restricted to matches bounded by non-word bytes.
func wordIndex(text, word string) int {
	for off := 0; off <= len(text)-len(word); {
		i := strings.Index(text[off:], word)
		if i < 0 {
			return -1
		}
		start, end := off+i, off+i+len(word)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return start
		}
		off = start + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
