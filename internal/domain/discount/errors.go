package discount

import "github.com/perfectlystyled/service-checkout/internal/platform/domain"

// Validation failures. All are client-correctable.
var (
	ErrDiscountNotFound          = domain.NewValidationError("DISCOUNT_NOT_FOUND", "discount code is not valid")
	ErrDiscountInactive          = domain.NewValidationError("DISCOUNT_INACTIVE", "discount code is no longer active")
	ErrDiscountExpired           = domain.NewValidationError("DISCOUNT_EXPIRED", "discount code has expired")
	ErrDiscountUsageLimitReached = domain.NewValidationError("DISCOUNT_USAGE_LIMIT_REACHED", "discount code has reached its usage limit")
	ErrInvalidDiscount           = domain.NewValidationError("INVALID_DISCOUNT", "invalid discount code definition")
	ErrDiscountExists            = domain.NewConflictError("DISCOUNT_EXISTS", "discount code already exists")
	ErrDiscountAlreadyInactive   = domain.NewConflictError("DISCOUNT_ALREADY_INACTIVE", "discount code is already inactive")
)
