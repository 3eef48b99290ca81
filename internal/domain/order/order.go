package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/perfectlystyled/service-checkout/internal/domain/money"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// Status represents the settlement state of an order.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrInvalidOrder is returned when a settlement record would break its invariants.
var ErrInvalidOrder = domain.NewValidationError("INVALID_ORDER", "order data is invalid")

// AppliedDiscount records the code redeemed on an order. Amount is derived
// from the order's base and charged amounts.
type AppliedDiscount struct {
	Code         string
	Amount       decimal.Decimal
	InfluencerID *string
}

// Order is the settlement record for a captured payment. Its id is the
// provider-assigned order id.
type Order struct {
	id         string
	payerID    string
	amount     decimal.Decimal
	baseAmount decimal.Decimal
	currency   string
	discount   *AppliedDiscount
	status     Status
	payerEmail *string
	createdAt  time.Time
	capturedAt time.Time
}

// Params is the input for NewOrder.
type Params struct {
	ProviderOrderID string
	PayerID         string
	Amount          decimal.Decimal
	BaseAmount      decimal.Decimal
	Currency        string
	DiscountCode    string
	InfluencerID    *string
	PayerEmail      *string
}

// NewOrder builds a completed settlement record. A discount is attached only
// when DiscountCode is non-empty.
func NewOrder(p Params) (*Order, error) {
	id := strings.TrimSpace(p.ProviderOrderID)
	if id == "" {
		return nil, ErrInvalidOrder.WithCause(fmt.Errorf("provider order id is required"))
	}
	if strings.TrimSpace(p.PayerID) == "" {
		return nil, ErrInvalidOrder.WithCause(fmt.Errorf("payer id is required"))
	}
	amount := money.Round(p.Amount)
	if amount.LessThan(money.MinimumCharge) {
		return nil, ErrInvalidOrder.WithCause(fmt.Errorf("amount %s is below the minimum charge %s", amount.StringFixed(2), money.MinimumCharge.StringFixed(2)))
	}
	base := money.Round(p.BaseAmount)

	var applied *AppliedDiscount
	if code := strings.TrimSpace(p.DiscountCode); code != "" {
		applied = &AppliedDiscount{
			Code:         code,
			Amount:       base.Sub(amount),
			InfluencerID: p.InfluencerID,
		}
	}

	now := time.Now().UTC()
	return &Order{
		id:         id,
		payerID:    strings.TrimSpace(p.PayerID),
		amount:     amount,
		baseAmount: base,
		currency:   p.Currency,
		discount:   applied,
		status:     StatusCompleted,
		payerEmail: p.PayerEmail,
		createdAt:  now,
		capturedAt: now,
	}, nil
}

// Reconstruct rebuilds an Order from persisted data.
func Reconstruct(
	id, payerID string,
	amount, baseAmount decimal.Decimal,
	currency string,
	discount *AppliedDiscount,
	status Status,
	payerEmail *string,
	createdAt, capturedAt time.Time,
) *Order {
	return &Order{
		id:         id,
		payerID:    payerID,
		amount:     amount,
		baseAmount: baseAmount,
		currency:   currency,
		discount:   discount,
		status:     status,
		payerEmail: payerEmail,
		createdAt:  createdAt,
		capturedAt: capturedAt,
	}
}

// SetInfluencer attributes the order to the owner of its discount code.
// It is a no-op for orders without a discount.
func (o *Order) SetInfluencer(owner string) {
	if o.discount == nil || owner == "" {
		return
	}
	o.discount.InfluencerID = &owner
}

func (o *Order) ID() string                  { return o.id }
func (o *Order) PayerID() string             { return o.payerID }
func (o *Order) Amount() decimal.Decimal     { return o.amount }
func (o *Order) BaseAmount() decimal.Decimal { return o.baseAmount }
func (o *Order) Currency() string            { return o.currency }
func (o *Order) Discount() *AppliedDiscount  { return o.discount }
func (o *Order) Status() Status              { return o.status }
func (o *Order) PayerEmail() *string         { return o.payerEmail }
func (o *Order) CreatedAt() time.Time        { return o.createdAt }
func (o *Order) CapturedAt() time.Time       { return o.capturedAt }
