package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "0 ₫"},
		{"999", "999 ₫"},
		{"1000", "1.000 ₫"},
		{"899000", "899.000 ₫"},
		{"2090000", "2.090.000 ₫"},
		{"1234567890", "1.234.567.890 ₫"},
		{"1234.49", "1.234 ₫"},
		{"1234.50", "1.235 ₫"},
		{"-899000", "-899.000 ₫"},
	}

	for _, tt := range tests {
		got := FormatPrice(decimal.RequireFromString(tt.amount))
		assert.Equal(t, tt.want, got, "amount %s", tt.amount)
	}
}
