package application

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/adapter"
	"github.com/perfectlystyled/service-checkout/internal/domain/money"
)

// CheckoutRequest is the DTO for starting a checkout.
type CheckoutRequest struct {
	BaseAmount   money.Amount `json:"baseAmount"`
	DiscountCode string       `json:"discountCode"`
}

// CheckoutResult carries the provider order id and the authoritative amount
// the payer will be charged.
type CheckoutResult struct {
	OrderID     string       `json:"orderId"`
	FinalAmount money.Amount `json:"finalAmount"`
}

// CheckoutService opens provider orders for the (possibly discounted) price.
type CheckoutService struct {
	discounts *DiscountService
	provider  adapter.PaymentProvider
	currency  string
	logger    *zap.Logger
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	discounts *DiscountService,
	provider adapter.PaymentProvider,
	currency string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		discounts: discounts,
		provider:  provider,
		currency:  currency,
		logger:    logger,
	}
}

// CreateOrder re-validates any discount code server-side and creates the
// provider order. No provider call is made when validation fails.
func (s *CheckoutService) CreateOrder(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := money.ValidatePositive(req.BaseAmount); err != nil {
		return nil, err
	}

	final := money.ApplyPercentOff(req.BaseAmount.Decimal, decimal.Zero)
	code := strings.TrimSpace(req.DiscountCode)
	if code != "" {
		q, err := s.discounts.Validate(ctx, code, req.BaseAmount.Decimal)
		if err != nil {
			return nil, err
		}
		final = q.FinalAmount
	}

	orderID, err := s.provider.CreateOrder(ctx, final, s.currency)
	if err != nil {
		s.logger.Error("failed to create provider order",
			zap.String("amount", final.StringFixed(money.Places)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("checkout started",
		zap.String("order_id", orderID),
		zap.String("base_amount", req.BaseAmount.String()),
		zap.String("final_amount", final.StringFixed(money.Places)),
		zap.String("discount_code", discountLogValue(code)),
	)
	return &CheckoutResult{OrderID: orderID, FinalAmount: money.NewAmount(final)}, nil
}

func discountLogValue(code string) string {
	if code == "" {
		return "none"
	}
	return code
}
