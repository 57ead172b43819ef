// Package catalog serves the product list the quote form offers. The source
// of truth is a CSV export of the price sheet; when no file is configured or
// readable the catalog falls back to a small built-in placeholder set so the
// form never comes up empty.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Product is one sellable catalog entry.
type Product struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
}

// Catalog is an immutable, load-once product index keyed by SKU.
type Catalog struct {
	bySKU map[string]Product
	order []string
}

var nonPrice = regexp.MustCompile(`[^0-9.\-]`)

// placeholders keep the quote form usable when no price sheet is wired up.
func placeholders() []Product {
	return []Product{
		{SKU: "M5-ST", Name: "Mach 5 Standard", UnitPrice: 499.00},
		{SKU: "M7-PT", Name: "Mach 7 Portable", UnitPrice: 399.00},
		{SKU: "M14-CO", Name: "Mach 14 Collar", UnitPrice: 35.00},
		{SKU: "TS-BASIC", Name: "Basic Color Tee Sign", UnitPrice: 55.00},
	}
}

// Load builds the catalog from the CSV at path. Every failure mode degrades
// to the placeholder catalog so the quote form always has products: an empty
// path, a missing file, and a sheet with no usable rows yield it silently,
// while unreadable or malformed sheets yield it alongside the error so the
// caller can log a warning.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return fromProducts(placeholders()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fromProducts(placeholders()), nil
		}
		return fromProducts(placeholders()), fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	products, err := parseCSV(f)
	if err != nil {
		return fromProducts(placeholders()), fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(products) == 0 {
		return fromProducts(placeholders()), nil
	}
	return fromProducts(products), nil
}

// parseCSV reads a price sheet. Header names are matched loosely: case and
// whitespace are ignored, so "Unit Price" and "unit_price" both work.
func parseCSV(r io.Reader) ([]Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	skuIdx, okSKU := cols["sku"]
	nameIdx, okName := cols["name"]
	priceIdx, okPrice := cols["unitprice"]
	if !okPrice {
		priceIdx, okPrice = cols["price"]
	}
	if !okSKU || !okName || !okPrice {
		return nil, fmt.Errorf("header must include sku, name and unit price columns, got %v", header)
	}

	var products []Product
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if skuIdx >= len(row) || nameIdx >= len(row) || priceIdx >= len(row) {
			continue
		}
		sku := strings.TrimSpace(row[skuIdx])
		if sku == "" {
			continue
		}
		// Unparseable prices coerce to zero rather than dropping the row.
		price, err := parsePrice(row[priceIdx])
		if err != nil {
			price = 0
		}
		products = append(products, Product{
			SKU:       sku,
			Name:      strings.TrimSpace(row[nameIdx]),
			UnitPrice: price,
		})
	}
	return products, nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// parsePrice tolerates currency symbols and thousands separators.
func parsePrice(s string) (float64, error) {
	cleaned := nonPrice.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price %q", s)
	}
	return strconv.ParseFloat(cleaned, 64)
}

func fromProducts(products []Product) *Catalog {
	c := &Catalog{bySKU: make(map[string]Product, len(products))}
	for _, p := range products {
		key := strings.ToUpper(p.SKU)
		if _, dup := c.bySKU[key]; dup {
			continue
		}
		c.bySKU[key] = p
		c.order = append(c.order, key)
	}
	return c
}

// Lookup finds a product by SKU, case-insensitively.
func (c *Catalog) Lookup(sku string) (Product, bool) {
	p, ok := c.bySKU[strings.ToUpper(strings.TrimSpace(sku))]
	return p, ok
}

// Products returns every catalog entry in load order.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.bySKU[key])
	}
	return out
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int { return len(c.bySKU) }

// SKUs returns all SKUs sorted alphabetically.
func (c *Catalog) SKUs() []string {
	out := append([]string(nil), c.order...)
	sort.Strings(out)
	return out
}
