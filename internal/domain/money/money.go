// Package money holds the currency arithmetic shared by discounts and orders.
// Amounts are decimals with two places of precision.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places in every stored or transmitted amount.
const Places = 2

// MinimumCharge is the smallest amount a payer is ever charged.
var MinimumCharge = decimal.RequireFromString("0.50")

// MaxAmount is the largest amount accepted from a client.
var MaxAmount = decimal.RequireFromString("1000000.00")

// maxExponent and minExponent bound the decimal exponent of a parsed amount
// so that rounding and comparison stay cheap.
const (
	maxExponent = 6
	minExponent = -32
)

// InRange reports whether d lies within [-MaxAmount, MaxAmount] at a usable
// precision.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > maxExponent || exp < minExponent {
		return false
	}
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// Round rounds d half away from zero to currency precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ApplyPercentOff returns base reduced by percentOff percent, rounded, and
// never below MinimumCharge.
func ApplyPercentOff(base, percentOff decimal.Decimal) decimal.Decimal {
	off := base.Mul(percentOff).Div(decimal.NewFromInt(100))
	return decimal.Max(MinimumCharge, Round(base.Sub(off)))
}

// Amount is a decimal that serialises to JSON as a number with exactly two
// decimal places, e.g. 5.00.
type Amount struct {
	decimal.Decimal
}

// NewAmount rounds d and wraps it.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: Round(d)}
}

// MustParse parses s or panics. Intended for constants and tests.
func MustParse(s string) Amount {
	return NewAmount(decimal.RequireFromString(s))
}

// MarshalJSON renders the amount as a fixed-point JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(Places)), nil
}

// UnmarshalJSON accepts JSON numbers and numeric strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	if !InRange(d) {
		return ErrAmountOutOfRange
	}
	a.Decimal = d
	return nil
}

// String renders the amount with two decimal places.
func (a Amount) String() string {
	return a.StringFixed(Places)
}
