package render

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a monetary amount with exactly two decimal places.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPhone renders a validated 10-digit phone number as NNN-NNN-NNNN.
func FormatPhone(phone int64) string {
	s := strconv.FormatInt(phone, 10)
	return fmt.Sprintf("%s-%s-%s", s[:3], s[3:6], s[6:])
}
