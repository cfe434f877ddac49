// Package money centralizes currency arithmetic. All amounts are 2-decimal
// values rounded half-up, applied at every derived computation so repeated
// operations cannot accumulate drift.
package money

import "github.com/shopspring/decimal"

// Round normalizes an amount to 2 decimal places, half-up.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Zero is the canonical zero amount.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// FromString parses a decimal amount, e.g. a discount value off the wire.
func FromString(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
}

// IsNegative reports whether the amount is below zero.
func IsNegative(amount decimal.Decimal) bool {
	return amount.IsNegative()
}

// FloorZero clamps a negative amount to zero.
func FloorZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}
