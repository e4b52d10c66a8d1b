package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Invoice is one invoice document: a client, an ordered list of line item
// snapshots, a due date and tax terms. Totals are derived on every access,
// never cached.
type Invoice struct {
	ID      int64
	Client  *Client
	Lines   []LineItem
	Due     time.Time
	Created time.Time

	// TaxFraction is the 0-1 fraction normalized from the 0-100 input.
	TaxFraction decimal.Decimal
}

// NewInvoice assigns the next number from the run's sequence (plus the
// caller's offset) and validates the tax rate. Line order is preserved as
// presentation order.
func NewInvoice(run *Run, client *Client, lines []LineItem, due time.Time, taxPercent float64, offset int64) (*Invoice, error) {
	if taxPercent < 0 || taxPercent > 100 {
		return nil, NewValidationError("tax percentage", taxPercent, "must be between 0 and 100")
	}
	return &Invoice{
		ID:          run.Sequence().Next() + offset,
		Client:      client,
		Lines:       lines,
		Due:         due,
		Created:     Today(),
		TaxFraction: decimal.NewFromFloat(taxPercent).Div(oneHundred),
	}, nil
}

// Subtotal is the sum of all line subtotals.
func (inv *Invoice) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range inv.Lines {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Tax is the subtotal times the tax fraction.
func (inv *Invoice) Tax() decimal.Decimal {
	return inv.Subtotal().Mul(inv.TaxFraction)
}

// GrandTotal is the subtotal plus tax.
func (inv *Invoice) GrandTotal() decimal.Decimal {
	return inv.Subtotal().Add(inv.Tax())
}

// TaxPercent is the whole-number tax percentage for display.
func (inv *Invoice) TaxPercent() int {
	return int(inv.TaxFraction.Mul(oneHundred).IntPart())
}
