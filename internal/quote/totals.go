package quote

import "github.com/dgassoc/quoting-api/internal/common"

// ComputeTotals rolls line items, fees, and the tax configuration up into the
// totals block. countyRate is the fixed regional rate used when the county
// checkbox is set; otherwise the user-entered percentage applies.
func ComputeTotals(items []LineItem, fees Fees, tax TaxConfig, countyRate float64) Totals {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Total
	}
	subtotal = common.Round2(subtotal)

	rate := tax.RatePct / 100
	if tax.UseCountyRate {
		rate = countyRate
	}

	preTax := subtotal + fees.DropShip + fees.Freight
	salesTax := common.Round2(preTax * rate)
	return Totals{
		Subtotal:   subtotal,
		SalesTax:   salesTax,
		GrandTotal: common.Round2(preTax + salesTax),
		TaxRate:    rate,
	}
}
