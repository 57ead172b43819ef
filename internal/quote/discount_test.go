package quote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsEligibleBasket(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
		want bool
	}{
		{"course sku", LineItem{SKU: "M5CO"}, true},
		{"course sku lowercase padded", LineItem{SKU: " m7co "}, true},
		{"course sku mach x", LineItem{SKU: "MXCO"}, true},
		{"name model and descriptor", LineItem{Name: "Mach 7 Portable Basket"}, true},
		{"name no frills", LineItem{Name: "Mach X No Frills"}, true},
		{"name model without descriptor", LineItem{Name: "Mach 5 Deluxe"}, false},
		{"name descriptor without model", LineItem{Name: "Standard Tee Sign"}, false},
		{"sku prefix basket", LineItem{SKU: "M5-ST"}, true},
		{"sku prefix lowercase", LineItem{SKU: "m7-pt"}, true},
		{"sku prefix accessory collar", LineItem{SKU: "M14-COLLAR"}, false},
		{"sku prefix chain", LineItem{SKU: "M5-CHAIN-SET"}, false},
		{"sku prefix holder", LineItem{SKU: "MX-HOLDER"}, false},
		{"sku prefix wrap", LineItem{SKU: "M7-WRAP"}, false},
		{"sku other prefix", LineItem{SKU: "TS-BASIC"}, false},
		{"empty item", LineItem{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEligibleBasket(tc.item); got != tc.want {
				t.Fatalf("IsEligibleBasket(%+v) = %v, want %v", tc.item, got, tc.want)
			}
		})
	}
}

func TestEligibleQty(t *testing.T) {
	items := []LineItem{
		{SKU: "M5-ST", Qty: 4},
		{SKU: "M7-PT", Qty: 3},
		{SKU: "TS-BASIC", Qty: 10},
		{SKU: "M14-COLLAR", Qty: 5},
	}
	require.Equal(t, 7, EligibleQty(items))
}

func TestApplyCourseDiscountAddsLineAtThreshold(t *testing.T) {
	items := []LineItem{{ID: "a", SKU: "M5-ST", Name: "Mach 5 Standard Basket", Qty: 9, Unit: 499, Total: 4491}}

	out, action := ApplyCourseDiscount(items)
	require.Equal(t, DiscountAdded, action)
	require.Len(t, out, 2)

	cd := out[1]
	require.Equal(t, DiscountSKU, cd.SKU)
	require.Equal(t, 9, cd.Qty)
	require.Equal(t, -100.0, cd.Unit)
	require.Equal(t, -900.0, cd.Total)
	require.Equal(t, DiscountNote, cd.Notes)
	require.NotEmpty(t, cd.ID)
}

func TestApplyCourseDiscountBelowThreshold(t *testing.T) {
	items := []LineItem{{SKU: "M5-ST", Qty: 8}}
	out, action := ApplyCourseDiscount(items)
	require.Equal(t, DiscountUnchanged, action)
	require.Len(t, out, 1)
}

func TestApplyCourseDiscountRemovesWhenIneligible(t *testing.T) {
	items := []LineItem{
		{ID: "a", SKU: "M5-ST", Qty: 5},
		{ID: "cd", SKU: "CD", Name: DiscountName, Qty: 9, Unit: -100, Total: -900},
	}
	out, action := ApplyCourseDiscount(items)
	require.Equal(t, DiscountRemoved, action)
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].ID)
}

func TestApplyCourseDiscountUpdatesInPlace(t *testing.T) {
	items := []LineItem{
		{ID: "cd", SKU: "CD", Name: DiscountName, Qty: 9, Unit: -100, Total: -900, Notes: DiscountNote},
		{ID: "a", SKU: "M5-ST", Qty: 12},
	}
	out, action := ApplyCourseDiscount(items)
	require.Equal(t, DiscountUpdated, action)
	require.Len(t, out, 2)
	// Same identifier, same position, new quantity.
	require.Equal(t, "cd", out[0].ID)
	require.Equal(t, 12, out[0].Qty)
	require.Equal(t, -1200.0, out[0].Total)
}

func TestApplyCourseDiscountPreservesCustomNote(t *testing.T) {
	items := []LineItem{
		{ID: "a", SKU: "M5-ST", Qty: 10},
		{ID: "cd", SKU: "CD", Qty: 9, Unit: -100, Total: -900, Notes: "negotiated with buyer"},
	}
	out, _ := ApplyCourseDiscount(items)
	require.Equal(t, "negotiated with buyer", out[1].Notes)
}

func TestApplyCourseDiscountReplacesStockAndEmptyNotes(t *testing.T) {
	// An empty note is treated the same as the stock note.
	for _, notes := range []string{"", DiscountNote, DiscountNote + " (updated)"} {
		items := []LineItem{
			{ID: "a", SKU: "M5-ST", Qty: 10},
			{ID: "cd", SKU: "CD", Qty: 9, Unit: -100, Total: -900, Notes: notes},
		}
		out, _ := ApplyCourseDiscount(items)
		require.Equal(t, DiscountNote, out[1].Notes, "notes=%q", notes)
	}
}

func TestApplyCourseDiscountIdempotent(t *testing.T) {
	items := []LineItem{{ID: "a", SKU: "M7CO", Qty: 9, Unit: 399, Total: 3591}}

	once, _ := ApplyCourseDiscount(items)
	twice, action := ApplyCourseDiscount(once)
	require.Equal(t, DiscountUnchanged, action)
	require.Equal(t, once, twice)
}

func TestApplyCourseDiscountDoesNotMutateInput(t *testing.T) {
	items := []LineItem{{ID: "a", SKU: "M5-ST", Qty: 9}}
	_, _ = ApplyCourseDiscount(items)
	require.Len(t, items, 1)
}

func TestIsDiscountLineByName(t *testing.T) {
	require.True(t, IsDiscountLine(LineItem{Name: "  Course Discount "}))
	require.True(t, IsDiscountLine(LineItem{SKU: "CD"}))
	require.False(t, IsDiscountLine(LineItem{SKU: "M5-ST", Name: "Mach 5"}))
}
