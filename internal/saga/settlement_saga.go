package saga

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/events"
	"github.com/perfectlystyled/service-checkout/internal/platform/kafka"
)

// SettlementSagaService persists settlement records and keeps discount usage
// counters in step with them.
type SettlementSagaService struct {
	discounts discount.DiscountRepository
	orders    order.OrderRepository
	publisher kafka.Publisher
	logger    *zap.Logger
}

// NewSettlementSagaService creates a new SettlementSagaService.
func NewSettlementSagaService(
	discounts discount.DiscountRepository,
	orders order.OrderRepository,
	publisher kafka.Publisher,
	logger *zap.Logger,
) *SettlementSagaService {
	return &SettlementSagaService{
		discounts: discounts,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

// SettleSaga records o. When o carries a discount the code's owner is copied
// onto the order and its uses counter is incremented; both are best effort.
// Only the order write is required. If it fails the increment is reversed.
func (s *SettlementSagaService) SettleSaga(ctx context.Context, o *order.Order) error {
	saga := NewSaga("settle_order", s.logger)

	if applied := o.Discount(); applied != nil {
		code := applied.Code
		var found bool

		// Step 1: Attribute the order to the code's owner
		saga.AddStep(SagaStep{
			Name:       "lookup_discount_code",
			BestEffort: true,
			Execute: func(ctx context.Context) error {
				d, err := s.discounts.FindByCode(ctx, code)
				if err != nil {
					return err
				}
				found = true
				o.SetInfluencer(d.Owner())
				return nil
			},
		})

		// Step 2: Count the redemption
		saga.AddStep(SagaStep{
			Name:       "increment_discount_uses",
			BestEffort: true,
			Execute: func(ctx context.Context) error {
				if !found {
					s.logger.Warn("discount code not found, skipping usage increment",
						zap.String("order_id", o.ID()),
						zap.String("code", code),
					)
					return nil
				}
				return s.discounts.IncrementUses(ctx, code, 1)
			},
			Compensate: func(ctx context.Context) error {
				if !found {
					return nil
				}
				return s.discounts.IncrementUses(ctx, code, -1)
			},
		})
	}

	// Step 3: Write the settlement record
	saga.AddStep(SagaStep{
		Name: "save_order",
		Execute: func(ctx context.Context) error {
			return s.orders.Upsert(ctx, o)
		},
	})

	// Step 4: Publish OrderSettledEvent
	saga.AddStep(SagaStep{
		Name:       "publish_order_settled_event",
		BestEffort: true,
		Execute: func(ctx context.Context) error {
			cloudEvent, err := kafka.NewCloudEvent(events.Source, events.OrderSettled, events.NewOrderSettledEvent(o))
			if err != nil {
				return fmt.Errorf("failed to create cloud event: %w", err)
			}
			cloudEvent.Subject = o.ID()
			return s.publisher.PublishEvent(ctx, events.TopicOrderEvents, cloudEvent)
		},
	})

	return saga.Execute(ctx)
}
