package discount

import "context"

// DiscountRepository defines document-style persistence for discount codes.
// Codes are keyed by their normalised id.
type DiscountRepository interface {
	// FindByCode returns ErrDiscountNotFound when no document exists.
	FindByCode(ctx context.Context, code string) (*DiscountCode, error)

	// Create stores a new code and returns ErrDiscountExists if the id is taken.
	Create(ctx context.Context, d *DiscountCode) error

	// IncrementUses atomically adds delta to the uses counter. A negative
	// delta never takes the counter below zero. Returns ErrDiscountNotFound
	// when no document exists.
	IncrementUses(ctx context.Context, code string, delta int) error

	// SetActive switches the code on or off. Returns ErrDiscountNotFound
	// when no document exists.
	SetActive(ctx context.Context, code string, active bool) error

	// List returns every code, newest first.
	List(ctx context.Context) ([]*DiscountCode, error)
}
