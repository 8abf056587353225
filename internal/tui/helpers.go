package tui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads a quantity or price typed into the form. Blank means 0
// and a leading "$" or thousands separators are accepted.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
