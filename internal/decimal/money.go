package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Round2 rounds to 2 decimal places (BRL cents)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses a monetary value from the XML. Empty or
// unparsable input yields zero, matching the source document's
// optional numeric fields.
func ParseAmount(s string) decimal.Decimal {
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

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// SumRounded2 rounds each value to 2 places, sums them, and rounds the
// sum to 2 places. This is the authoritative invoice total; the header
// total may be rounded differently or include unmodeled taxes.
func SumRounded2(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v.Round(2))
	}
	return result.Round(2)
}

// FormatAmount renders a value with exactly 2 decimal places, the way
// the WMS wire contract expects ("15.01", "0.00").
func FormatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}
