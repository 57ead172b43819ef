// Package quote holds the quoting document model and the pricing rules that
// re-derive it after every edit: per-line totals, the automatic course
// discount, and the tax/fee roll-up.
package quote

import "time"

// LineItem is one row of a quote. An empty SKU marks a custom free-text item.
// Total is always derived from Qty and Unit during the recompute pass and is
// never independently authoritative.
type LineItem struct {
	ID    string  `json:"id"`
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty" validate:"min=0"`
	Unit  float64 `json:"unit"`
	Total float64 `json:"total"`
	Notes string  `json:"notes,omitempty"`
}

// Address is one postal address block.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Customer carries the quote's customer fields. All fields default to empty;
// nothing is required.
type Customer struct {
	Company  string  `json:"company"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Shipping Address `json:"shipping"`
	Billing  Address `json:"billing"`
}

// Fees are the flat amounts added on top of the line-item subtotal.
type Fees struct {
	DropShip float64 `json:"drop_ship_fee" validate:"min=0"`
	Freight  float64 `json:"freight" validate:"min=0"`
}

// TaxConfig selects the effective sales tax rate: the fixed county rate when
// UseCountyRate is set, otherwise the user-entered percentage.
type TaxConfig struct {
	RatePct       float64 `json:"rate_pct" validate:"min=0"`
	UseCountyRate bool    `json:"use_county_rate"`
}

// Totals are derived values; they are recomputed on every pass and never
// cached across edits.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	SalesTax   float64 `json:"sales_tax"`
	GrandTotal float64 `json:"grand_total"`
	TaxRate    float64 `json:"tax_rate"`
}

// OrderMeta carries the purchase-order fields printed on the internal order
// document. OrderNumber defaults to the quote number when left empty.
type OrderMeta struct {
	PONumber     string `json:"po_number,omitempty"`
	Operator     string `json:"operator,omitempty"`
	Terms        string `json:"terms,omitempty"`
	CommissionTo string `json:"commission_to,omitempty"`
	CheckNumber  string `json:"check_number,omitempty"`
	DateReceived string `json:"date_received,omitempty"`
	OrderNumber  string `json:"order_number,omitempty"`
}

// Quote is the normalized document model: the single source of truth handed
// to persistence and to the document renderer.
type Quote struct {
	QuoteNo      string     `json:"quote_no"`
	Date         time.Time  `json:"date"`
	Customer     Customer   `json:"customer"`
	LineItems    []LineItem `json:"line_items" validate:"dive"`
	Fees         Fees       `json:"fees"`
	Tax          TaxConfig  `json:"tax"`
	Totals       Totals     `json:"totals"`
	FreightNotes string     `json:"freight_notes,omitempty"`
	FooterNotes  string     `json:"footer_notes,omitempty"`
	Order        OrderMeta  `json:"order"`
}

// DefaultFooterNotes is the boilerplate shown on new quotes until edited.
const DefaultFooterNotes = "Pricing subject to change. Please review all details carefully.\n" +
	"International customers will be responsible for all duties and taxes upon delivery."

// NumberFormat is the quote number layout: date plus time at minute
// granularity. Two quotes started within the same minute share a number; the
// store resolves that by upserting on the number.
const NumberFormat = "20060102-1504"

// NewNumber derives a quote number from the given instant.
func NewNumber(t time.Time) string {
	return t.Format(NumberFormat)
}
