package view

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencyPrefix = "R$ "

// FormatBRL renders an amount of Brazilian reais as "R$ 1.234,56"
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(intPart) + len(intPart)/3 + 3)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return sign + currencyPrefix + b.String() + "," + fracPart
}

// FormatPrice formats a float unit price, going through decimal to avoid binary
// rounding artifacts like 139.89999
func FormatPrice(price float64) string {
	return FormatBRL(decimal.NewFromFloat(price))
}
