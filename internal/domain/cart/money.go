package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders an amount in the storefront's fixed display rule:
// whole đồng, thousands grouped with dots, trailing currency symbol
// ("1.234.567 ₫"). Every display surface must use this function so totals
// render identically everywhere.
func FormatPrice(amount decimal.Decimal) string {
	s := amount.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 8)
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(s[i])
	}
	b.WriteString(" ₫")
	return b.String()
}
