package money

import "github.com/perfectlystyled/service-checkout/internal/platform/domain"

// ErrInvalidAmount is returned for non-positive amounts.
var ErrInvalidAmount = domain.NewValidationError("INVALID_AMOUNT", "amount must be greater than zero")

// ErrAmountOutOfRange is returned for amounts above MaxAmount or with an
// unusable exponent.
var ErrAmountOutOfRange = domain.NewValidationError("AMOUNT_OUT_OF_RANGE", "amount must not exceed 1000000.00")

// ValidatePositive returns ErrInvalidAmount unless a rounds to a value above
// zero, and ErrAmountOutOfRange when a exceeds MaxAmount.
func ValidatePositive(a Amount) error {
	if !InRange(a.Decimal) {
		return ErrAmountOutOfRange
	}
	if !Round(a.Decimal).IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
