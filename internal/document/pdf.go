package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dgassoc/quoting-api/internal/common"
	"github.com/dgassoc/quoting-api/internal/config"
	"github.com/dgassoc/quoting-api/internal/quote"
)

// accessory is one row of the up-sell table printed on quote sheets.
type accessory struct {
	Name  string
	Price float64
}

// accessories lists common add-ons with their list prices. Shown on the quote
// variant only; an order sheet reflects what was actually bought.
var accessories = []accessory{
	{"Number Plate", 35.00},
	{"Powder Coat Fee - Stock Color", 90.00},
	{"Additional Anchor - Pin Positions", 30.00},
	{"Basic Color Tee Sign", 55.00},
	{`12"x18" Color Rules Sign`, 69.00},
	{"Pole Extension - New Product", 60.00},
	{"Basket Flag - New Product", 30.00},
}

// PDFGenerator renders quote and order sheets on US Letter paper.
type PDFGenerator struct {
	Company config.Company
}

// NewPDFGenerator constructs a renderer stamping the given company identity
// on every page.
func NewPDFGenerator(company config.Company) *PDFGenerator {
	return &PDFGenerator{Company: company}
}

// Generate renders the quote into a single-page-or-more PDF.
func (g *PDFGenerator) Generate(q quote.Quote, variant Variant) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("%s %s", strings.ToUpper(string(variant)), q.QuoteNo), false)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	g.header(pdf, q, variant)
	g.addresses(pdf, q)
	if variant == VariantOrder {
		g.orderBlock(pdf, q)
	}
	g.lineTable(pdf, q)
	g.totals(pdf, q)
	if q.FreightNotes != "" {
		g.noteBlock(pdf, "Freight Notes", q.FreightNotes)
	}
	if variant == VariantQuote {
		g.accessoryTable(pdf)
	}
	if q.FooterNotes != "" {
		g.noteBlock(pdf, "", q.FooterNotes)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("document: render %s: %w", variant, err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) header(pdf *gofpdf.Fpdf, q quote.Quote, variant Variant) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(120, 8, g.Company.Name)
	pdf.SetFont("Helvetica", "B", 18)
	title := "QUOTE"
	if variant == VariantOrder {
		title = "ORDER"
	}
	pdf.CellFormat(0, 8, title, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(120, 5, g.Company.Tagline)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Date: "+q.Date.Format("01/02/2006"), "", 1, "R", false, 0, "")

	pdf.Cell(120, 5, fmt.Sprintf("%s, %s, %s %s", g.Company.Street, g.Company.City, g.Company.State, g.Company.Zip))
	numberLabel := "Quote #: "
	if variant == VariantOrder {
		numberLabel = "Order #: "
	}
	no := q.QuoteNo
	if variant == VariantOrder && q.Order.OrderNumber != "" {
		no = q.Order.OrderNumber
	}
	pdf.CellFormat(0, 5, numberLabel+no, "", 1, "R", false, 0, "")

	pdf.Cell(120, 5, fmt.Sprintf("Phone %s   Fax %s   %s", g.Company.Phone, g.Company.Fax, g.Company.Web))
	pdf.Ln(8)
}

func (g *PDFGenerator) addresses(pdf *gofpdf.Fpdf, q quote.Quote) {
	ship := addressLines("SHIP TO", q.Customer, q.Customer.Shipping)
	bill := addressLines("BILL TO", q.Customer, q.Customer.Billing)
	for len(ship) < len(bill) {
		ship = append(ship, "")
	}
	for len(bill) < len(ship) {
		bill = append(bill, "")
	}
	for i := range ship {
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.Cell(100, 5, ship[i])
		pdf.CellFormat(0, 5, bill[i], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addressLines(label string, c quote.Customer, a quote.Address) []string {
	lines := []string{label}
	for _, s := range []string{c.Company, c.Name, a.Street, strings.TrimSpace(strings.Trim(a.City+", "+a.State+" "+a.Zip, ", "))} {
		if s != "" && s != "," {
			lines = append(lines, s)
		}
	}
	if c.Phone != "" {
		lines = append(lines, c.Phone)
	}
	if c.Email != "" {
		lines = append(lines, c.Email)
	}
	return lines
}

func (g *PDFGenerator) orderBlock(pdf *gofpdf.Fpdf, q quote.Quote) {
	pdf.SetFont("Helvetica", "", 9)
	row := func(pairs ...string) {
		for i := 0; i+1 < len(pairs); i += 2 {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.Cell(32, 5, pairs[i])
			pdf.SetFont("Helvetica", "", 9)
			pdf.Cell(33, 5, pairs[i+1])
		}
		pdf.Ln(5)
	}
	row("Date Received:", q.Order.DateReceived, "Operator:", q.Order.Operator, "Terms:", q.Order.Terms)
	row("PO Number:", q.Order.PONumber, "Check #:", q.Order.CheckNumber, "Commission To:", q.Order.CommissionTo)
	pdf.Ln(3)
}

func (g *PDFGenerator) lineTable(pdf *gofpdf.Fpdf, q quote.Quote) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(14, 6, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 6, "Item #", "1", 0, "L", true, 0, "")
	pdf.CellFormat(90, 6, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 6, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(28, 6, "Total", "1", 1, "R", true, 0, "")

	for _, it := range q.LineItems {
		if it.Qty == 0 {
			continue
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(14, 6, strconv.Itoa(it.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, it.SKU, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, truncate(it.Name, 58), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, common.FormatMoney(it.Unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, common.FormatMoney(it.Total), "1", 1, "R", false, 0, "")
		if it.Notes != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(44, 5, "", "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 5, truncate(it.Notes, 100), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(2)
}

func (g *PDFGenerator) totals(pdf *gofpdf.Fpdf, q quote.Quote) {
	label := func(name, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(134, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, name, "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, value, "", 1, "R", false, 0, "")
	}
	label("Subtotal", common.FormatMoney(q.Totals.Subtotal), false)
	if q.Fees.DropShip != 0 {
		label("Drop Ship Fee", common.FormatMoney(q.Fees.DropShip), false)
	}
	if q.Fees.Freight != 0 {
		label("Freight", common.FormatMoney(q.Fees.Freight), false)
	}
	label(fmt.Sprintf("Sales Tax (%.2f%%)", q.Totals.TaxRate*100), common.FormatMoney(q.Totals.SalesTax), false)
	label("Grand Total", common.FormatMoney(q.Totals.GrandTotal), true)
	pdf.Ln(4)
}

func (g *PDFGenerator) accessoryTable(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, "Popular Accessories", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, a := range accessories {
		pdf.CellFormat(90, 5, a.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(28, 5, common.FormatMoney(a.Price), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func (g *PDFGenerator) noteBlock(pdf *gofpdf.Fpdf, title, body string) {
	if title != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, title, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4.5, body, "", "L", false)
	pdf.Ln(3)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "..."
}
