package ledger

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var taxDivisor = decimal.RequireFromString("1.05")

// parseNumber reads a POS number cell. Thousands separators are dropped.
func parseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// roundString rounds half to even and renders without decimals.
func roundString(d decimal.Decimal) string {
	return d.RoundBank(0).String()
}

// inclusiveTax returns the tax part of a 5% tax-inclusive amount.
func inclusiveTax(amount decimal.Decimal) decimal.Decimal {
	return amount.Sub(amount.Div(taxDivisor))
}

// ZeroPad left-pads s with zeros to width characters, keeping a leading sign
// in front of the padding. Longer values are returned unchanged.
func ZeroPad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	pad := strings.Repeat("0", width-n)
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return s[:1] + pad + s[1:]
	}
	return pad + s
}
