package billing

import (
	"github.com/shopspring/decimal"
)

// Item is a catalog entry shared across invoices. Per-invoice quantities are
// captured on LineItem snapshots at assignment time, so a registered Item is
// never mutated after creation.
type Item struct {
	Name        string
	Description string
	Price       decimal.Decimal
	// Quantity mirrors the catalog file's quantity column. Catalog loads
	// reset it to 0; invoice totals use the LineItem quantity instead.
	Quantity int
}

// NewItem validates and builds a catalog item.
func NewItem(name, description string, price decimal.Decimal, quantity int) (*Item, error) {
	if price.IsNegative() {
		return nil, NewValidationError("price", price.String(), "must be greater than or equal to 0")
	}
	if quantity < 0 {
		return nil, NewValidationError("quantity", quantity, "must be greater than or equal to 0")
	}
	return &Item{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}, nil
}

// LineItem is an invoice-owned snapshot of a catalog item. Copying the price
// and quantity at assignment time keeps an invoice's totals stable even if
// the same catalog item appears on later invoices with a different quantity.
type LineItem struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// NewLineItem snapshots a catalog item with the quantity assigned to one
// invoice.
func NewLineItem(item *Item, quantity int) (LineItem, error) {
	if quantity < 0 {
		return LineItem{}, NewValidationError("quantity", quantity, "must be greater than or equal to 0")
	}
	return LineItem{
		Name:        item.Name,
		Description: item.Description,
		UnitPrice:   item.Price,
		Quantity:    quantity,
	}, nil
}

// Subtotal is unit price times quantity, rounded to two decimal places.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))).Round(2)
}
