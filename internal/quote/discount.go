package quote

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dgassoc/quoting-api/internal/common"
)

// Course discount parameters. The rule is fixed company policy: once nine or
// more qualifying Mach 5/7/X baskets are on the quote, a single adjustment
// line subtracts $100 per qualifying basket.
const (
	DiscountSKU       = "CD"
	DiscountName      = "Course Discount (-$100 per qualifying basket)"
	DiscountNote      = "Auto-applied for 9+ Mach 5/7/X baskets"
	DiscountThreshold = 9
	DiscountPerUnit   = -100.0
)

// courseSKUs are full-course bundle codes that always qualify.
var courseSKUs = map[string]struct{}{
	"M5CO": {},
	"M7CO": {},
	"MXCO": {},
}

var basketModels = []string{"mach 5", "mach 7", "mach x"}

var basketDescriptors = []string{"standard", "portable", "no frills"}

// disqualifyingSKUParts mark accessories sold under a basket prefix.
var disqualifyingSKUParts = []string{"COLLAR", "CHAIN", "HOLDER", "WRAP"}

// DiscountAction reports what a discount pass did to the item list.
type DiscountAction string

const (
	DiscountAdded     DiscountAction = "added"
	DiscountUpdated   DiscountAction = "updated"
	DiscountRemoved   DiscountAction = "removed"
	DiscountUnchanged DiscountAction = "unchanged"
)

// IsEligibleBasket classifies a line item as qualifying for the course
// discount, by course SKU, by name heuristic, or by SKU prefix.
func IsEligibleBasket(it LineItem) bool {
	sku := strings.ToUpper(strings.TrimSpace(it.SKU))
	name := strings.ToLower(it.Name)

	if _, ok := courseSKUs[sku]; ok {
		return true
	}
	if containsAny(name, basketModels) && containsAny(name, basketDescriptors) {
		return true
	}
	if hasAnyPrefix(sku, "M5", "M7", "MX") && !strings.HasSuffix(sku, "CO") {
		if containsAny(sku, disqualifyingSKUParts) {
			return false
		}
		return true
	}
	return false
}

// EligibleQty sums the quantity of all qualifying line items.
func EligibleQty(items []LineItem) int {
	total := 0
	for _, it := range items {
		if IsEligibleBasket(it) {
			total += it.Qty
		}
	}
	return total
}

// IsDiscountLine reports whether the item is the synthesized course discount
// adjustment.
func IsDiscountLine(it LineItem) bool {
	if strings.TrimSpace(it.SKU) == DiscountSKU {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(it.Name), "course discount")
}

func findDiscountLine(items []LineItem) int {
	for i, it := range items {
		if IsDiscountLine(it) {
			return i
		}
	}
	return -1
}

// ApplyCourseDiscount synthesizes, updates, or removes the single course
// discount line so the list reflects the current eligible quantity. The input
// slice is not mutated. The rule is idempotent: a second pass over unchanged
// input returns an identical list.
func ApplyCourseDiscount(items []LineItem) ([]LineItem, DiscountAction) {
	qty := EligibleQty(items)
	idx := findDiscountLine(items)

	out := make([]LineItem, len(items))
	copy(out, items)

	if qty >= DiscountThreshold {
		id := uuid.NewString()
		note := DiscountNote
		if idx != -1 {
			id = out[idx].ID
			// A hand-edited note survives the rewrite; the stock note (or an
			// empty one) is replaced with the stock note for the new quantity.
			if existing := out[idx].Notes; existing != "" && !strings.HasPrefix(existing, DiscountNote) {
				note = existing
			}
		}
		line := LineItem{
			ID:    id,
			SKU:   DiscountSKU,
			Name:  DiscountName,
			Qty:   qty,
			Unit:  DiscountPerUnit,
			Total: common.Round2(DiscountPerUnit * float64(qty)),
			Notes: note,
		}
		if idx == -1 {
			return append(out, line), DiscountAdded
		}
		if out[idx] == line {
			return out, DiscountUnchanged
		}
		out[idx] = line
		return out, DiscountUpdated
	}

	if idx != -1 {
		return append(out[:idx], out[idx+1:]...), DiscountRemoved
	}
	return out, DiscountUnchanged
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
