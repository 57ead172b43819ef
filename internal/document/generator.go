// Package document renders quote state into printable PDFs. Two variants
// exist: the customer-facing quote sheet and the internal order sheet used
// once a quote converts to a sale.
package document

import (
	"fmt"

	"github.com/dgassoc/quoting-api/internal/quote"
)

// Variant selects the document layout.
type Variant string

const (
	VariantQuote Variant = "quote"
	VariantOrder Variant = "order"
)

// ParseVariant validates a variant from a URL segment.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantQuote, VariantOrder:
		return Variant(s), nil
	}
	return "", fmt.Errorf("document: unknown variant %q", s)
}

// Generator renders a quote into a document byte stream.
type Generator interface {
	Generate(q quote.Quote, variant Variant) ([]byte, error)
}
