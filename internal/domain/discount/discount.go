package discount

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perfectlystyled/service-checkout/internal/domain/money"
)

var hundred = decimal.NewFromInt(100)

// NormalizeCode case-folds a human-entered code into its document id.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountCode is the aggregate root for influencer discount codes. The code
// itself is the identity.
type DiscountCode struct {
	id         string
	percentOff decimal.Decimal
	owner      string
	uses       int
	isActive   bool
	maxUses    *int
	expiresAt  *time.Time
	createdAt  time.Time
}

// Quote is the priced outcome of a successful validation.
type Quote struct {
	CodeID      string
	OwnerID     string
	PercentOff  decimal.Decimal
	BaseAmount  decimal.Decimal
	FinalAmount decimal.Decimal
}

// DiscountAmount is the amount taken off the base price.
func (q Quote) DiscountAmount() decimal.Decimal {
	return q.BaseAmount.Sub(q.FinalAmount)
}

// NewDiscountCode creates an active code with zero uses.
func NewDiscountCode(code string, percentOff decimal.Decimal, owner string, maxUses *int, expiresAt *time.Time) (*DiscountCode, error) {
	id := NormalizeCode(code)
	if id == "" {
		return nil, ErrInvalidDiscount.WithCause(fmt.Errorf("code is required"))
	}
	if percentOff.IsNegative() || percentOff.GreaterThan(hundred) {
		return nil, ErrInvalidDiscount.WithCause(fmt.Errorf("percent off must be between 0 and 100, got %s", percentOff))
	}
	if strings.TrimSpace(owner) == "" {
		return nil, ErrInvalidDiscount.WithCause(fmt.Errorf("owner is required"))
	}
	if maxUses != nil && *maxUses < 1 {
		return nil, ErrInvalidDiscount.WithCause(fmt.Errorf("max uses must be positive when set"))
	}

	return &DiscountCode{
		id:         id,
		percentOff: percentOff,
		owner:      strings.TrimSpace(owner),
		isActive:   true,
		maxUses:    maxUses,
		expiresAt:  expiresAt,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a DiscountCode from persistence.
func Reconstruct(id string, percentOff decimal.Decimal, owner string, uses int, isActive bool, maxUses *int, expiresAt *time.Time, createdAt time.Time) *DiscountCode {
	return &DiscountCode{
		id: id, percentOff: percentOff, owner: owner, uses: uses, isActive: isActive,
		maxUses: maxUses, expiresAt: expiresAt, createdAt: createdAt,
	}
}

// CheckRedeemable reports why the code cannot be redeemed at now, if at all.
// An exhausted code is reported as such whatever its activation or expiry.
func (d *DiscountCode) CheckRedeemable(now time.Time) error {
	if d.maxUses != nil && d.uses >= *d.maxUses {
		return ErrDiscountUsageLimitReached
	}
	if !d.isActive {
		return ErrDiscountInactive
	}
	if d.expiresAt != nil && d.expiresAt.Before(now) {
		return ErrDiscountExpired
	}
	return nil
}

// Quote prices baseAmount with this code. It does not consume a use.
func (d *DiscountCode) Quote(baseAmount decimal.Decimal, now time.Time) (Quote, error) {
	if !baseAmount.IsPositive() {
		return Quote{}, money.ErrInvalidAmount
	}
	if err := d.CheckRedeemable(now); err != nil {
		return Quote{}, err
	}
	return Quote{
		CodeID:      d.id,
		OwnerID:     d.owner,
		PercentOff:  d.percentOff,
		BaseAmount:  money.Round(baseAmount),
		FinalAmount: money.ApplyPercentOff(baseAmount, d.percentOff),
	}, nil
}

// Deactivate switches the code off. Returns ErrDiscountAlreadyInactive when
// it is already off.
func (d *DiscountCode) Deactivate() error {
	if !d.isActive {
		return ErrDiscountAlreadyInactive
	}
	d.isActive = false
	return nil
}

// RemainingUses returns the uses left, or nil when unlimited.
func (d *DiscountCode) RemainingUses() *int {
	if d.maxUses == nil {
		return nil
	}
	left := *d.maxUses - d.uses
	if left < 0 {
		left = 0
	}
	return &left
}

// Getters.
func (d *DiscountCode) ID() string                  { return d.id }
func (d *DiscountCode) PercentOff() decimal.Decimal { return d.percentOff }
func (d *DiscountCode) Owner() string               { return d.owner }
func (d *DiscountCode) Uses() int                   { return d.uses }
func (d *DiscountCode) IsActive() bool              { return d.isActive }
func (d *DiscountCode) MaxUses() *int               { return d.maxUses }
func (d *DiscountCode) ExpiresAt() *time.Time       { return d.expiresAt }
func (d *DiscountCode) CreatedAt() time.Time        { return d.createdAt }
