// Package events defines the topics, event types and payloads this service
// publishes.
package events

import (
	"time"

	"github.com/perfectlystyled/service-checkout/internal/domain/order"
)

// Source is the CloudEvent source for every event emitted by this service.
const Source = "service-checkout"

// Topics.
const (
	TopicOrderEvents = "checkout.order.events"
)

// Event types.
const (
	OrderSettled = "com.perfectlystyled.order.settled"
)

// OrderSettledEvent is published after a settlement record is written.
type OrderSettledEvent struct {
	OrderID        string    `json:"orderId"`
	PayerID        string    `json:"payerId"`
	Amount         string    `json:"amount"`
	BaseAmount     string    `json:"baseAmount"`
	Currency       string    `json:"currency"`
	DiscountCode   string    `json:"discountCode,omitempty"`
	DiscountAmount string    `json:"discountAmount,omitempty"`
	InfluencerID   string    `json:"influencerId,omitempty"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// NewOrderSettledEvent builds the event payload for o.
func NewOrderSettledEvent(o *order.Order) OrderSettledEvent {
	evt := OrderSettledEvent{
		OrderID:    o.ID(),
		PayerID:    o.PayerID(),
		Amount:     o.Amount().StringFixed(2),
		BaseAmount: o.BaseAmount().StringFixed(2),
		Currency:   o.Currency(),
		CapturedAt: o.CapturedAt(),
	}
	if d := o.Discount(); d != nil {
		evt.DiscountCode = d.Code
		evt.DiscountAmount = d.Amount.StringFixed(2)
		if d.InfluencerID != nil {
			evt.InfluencerID = *d.InfluencerID
		}
	}
	return evt
}
