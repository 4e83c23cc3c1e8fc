package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount renders a money amount with exactly two decimal places.
// Example: 12.3 returns "12.30"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatSignedAmount renders an amount with an explicit leading sign.
// Example: 5 returns "+5.00", -5 returns "-5.00"
func FormatSignedAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return amount.StringFixed(2)
	}
	return "+" + amount.StringFixed(2)
}
