package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Parse converts a decimal string ("8.00") into an amount.
func Parse(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", value, err)
	}
	return amount, nil
}

// Format renders the amount with two-decimal fixed formatting and a dollar
// sign, e.g. "$35.25".
func Format(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
