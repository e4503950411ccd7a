// Package amount centralizes decimal handling for Facturae monetary and
// quantity fields. Amounts in the XML use "." as the decimal separator
// regardless of locale, and a malformed amount inside an otherwise valid
// document degrades to zero instead of aborting the parse.
package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// ParseOrZero parses a decimal from XML text, returning zero for empty or
// unparseable input. Negative values pass through untouched; corrective
// invoices legitimately carry negative totals.
func ParseOrZero(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero
	}
	return d
}

// ParseIntOrZero parses an integer count field, defaulting to zero
func ParseIntOrZero(s string) int {
	d := ParseOrZero(s)
	return int(d.IntPart())
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Float converts to float64 for renderers that cannot keep decimals
// (spreadsheet cells, PDF text). Not for arithmetic.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
