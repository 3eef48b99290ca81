package application

import "github.com/perfectlystyled/service-checkout/internal/platform/domain"

var (
	ErrIncompletePayment  = domain.NewValidationError("INCOMPLETE_PAYMENT", "payment data is incomplete, cannot finalize order")
	ErrInvalidEmail       = domain.NewValidationError("INVALID_EMAIL", "a valid email address is required to send the report")
	ErrPaymentNotCaptured = domain.NewValidationError("PAYMENT_NOT_CAPTURED", "payment has not been captured by the provider")
)
