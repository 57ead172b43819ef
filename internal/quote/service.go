package quote

import (
	"errors"
	"time"

	"github.com/dgassoc/quoting-api/internal/common"
)

// Service owns the recompute pass and the defaults applied to fresh quotes.
type Service struct {
	DefaultTaxRate  float64
	CountyTaxRate   float64
	DefaultOperator string
	DefaultTerms    string
	Now             func() time.Time
}

// NewService constructs a Service.
func NewService(defaultTaxRate, countyTaxRate float64, defaultOperator, defaultTerms string) (*Service, error) {
	if countyTaxRate <= 0 {
		return nil, errors.New("quote: county tax rate must be positive")
	}
	return &Service{
		DefaultTaxRate:  defaultTaxRate,
		CountyTaxRate:   countyTaxRate,
		DefaultOperator: defaultOperator,
		DefaultTerms:    defaultTerms,
		Now:             time.Now,
	}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NewQuote builds a fresh quote state with a minute-granularity number and
// the configured defaults.
func (s *Service) NewQuote() Quote {
	now := s.now()
	no := NewNumber(now)
	return Quote{
		QuoteNo:     no,
		Date:        now,
		LineItems:   []LineItem{},
		Tax:         TaxConfig{RatePct: common.Round2(s.DefaultTaxRate * 100)},
		FooterNotes: DefaultFooterNotes,
		Order: OrderMeta{
			Operator:     s.DefaultOperator,
			Terms:        s.DefaultTerms,
			DateReceived: now.Format("01/02/06"),
			OrderNumber:  no,
		},
	}
}

// Normalize runs one full recompute pass over the quote state: re-derive each
// line total, re-evaluate the course discount, and recompute totals. It is a
// pure old-state to new-state function; the input is not mutated.
func (s *Service) Normalize(q Quote) (Quote, DiscountAction) {
	out := q
	items := make([]LineItem, len(q.LineItems))
	for i, it := range q.LineItems {
		it.Total = common.Round2(float64(it.Qty) * it.Unit)
		items[i] = it
	}

	items, action := ApplyCourseDiscount(items)
	out.LineItems = items
	out.Totals = ComputeTotals(items, out.Fees, out.Tax, s.CountyTaxRate)
	// The order document number stays independent but defaults to the quote
	// number, so stored records are self-describing.
	if out.Order.OrderNumber == "" {
		out.Order.OrderNumber = out.QuoteNo
	}
	return out, action
}
