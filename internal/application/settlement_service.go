package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/adapter"
	"github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/domain/money"
	"github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/saga"
)

// SettlePaymentRequest is the client's notification that a provider order was captured.
type SettlePaymentRequest struct {
	OrderID      string       `json:"orderId"`
	PayerID      string       `json:"payerId"`
	FinalAmount  money.Amount `json:"finalAmount"`
	DiscountCode string       `json:"discountCode,omitempty"`
	PayerEmail   *string      `json:"payerEmail,omitempty"`
}

// OrderDTO is the API response representation of a settlement record.
type OrderDTO struct {
	ID             string        `json:"id"`
	OrderID        string        `json:"orderId"`
	PayerID        string        `json:"payerId"`
	Amount         money.Amount  `json:"amount"`
	BaseAmount     money.Amount  `json:"baseAmount"`
	Currency       string        `json:"currency"`
	DiscountCode   string        `json:"discountCode,omitempty"`
	DiscountAmount *money.Amount `json:"discountAmount,omitempty"`
	InfluencerID   *string       `json:"influencerId,omitempty"`
	Status         string        `json:"status"`
	PayerEmail     *string       `json:"payerEmail,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	CapturedAt     time.Time     `json:"capturedAt"`
}

// SettlementConfig holds pricing and trust settings for settlement.
type SettlementConfig struct {
	ProductPrice  decimal.Decimal
	Currency      string
	VerifyCapture bool
}

// SettlementService records captured payments.
type SettlementService struct {
	sagaSvc  *saga.SettlementSagaService
	provider adapter.PaymentProvider
	cfg      SettlementConfig
	logger   *zap.Logger
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	sagaSvc *saga.SettlementSagaService,
	provider adapter.PaymentProvider,
	cfg SettlementConfig,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		sagaSvc:  sagaSvc,
		provider: provider,
		cfg:      cfg,
		logger:   logger,
	}
}

// Settle writes the settlement record for a captured order. The capture is
// taken at face value unless capture verification is enabled. Settling the
// same order id again overwrites the record.
func (s *SettlementService) Settle(ctx context.Context, req SettlePaymentRequest) (*OrderDTO, error) {
	if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.PayerID) == "" {
		return nil, ErrIncompletePayment
	}
	if err := money.ValidatePositive(req.FinalAmount); err != nil {
		return nil, ErrIncompletePayment.WithCause(err)
	}

	if s.cfg.VerifyCapture {
		if err := s.verifyCapture(ctx, req.OrderID); err != nil {
			return nil, err
		}
	}

	o, err := order.NewOrder(order.Params{
		ProviderOrderID: req.OrderID,
		PayerID:         req.PayerID,
		Amount:          req.FinalAmount.Decimal,
		BaseAmount:      s.cfg.ProductPrice,
		Currency:        s.cfg.Currency,
		DiscountCode:    discount.NormalizeCode(req.DiscountCode),
		PayerEmail:      req.PayerEmail,
	})
	if err != nil {
		return nil, err
	}

	if err := s.sagaSvc.SettleSaga(ctx, o); err != nil {
		s.logger.Error("failed to settle order",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("order settled",
		zap.String("order_id", o.ID()),
		zap.String("amount", o.Amount().StringFixed(money.Places)),
		zap.Bool("discounted", o.Discount() != nil),
	)
	return toOrderDTO(o), nil
}

func (s *SettlementService) verifyCapture(ctx context.Context, orderID string) error {
	status, err := s.provider.GetOrderStatus(ctx, orderID)
	if err != nil {
		return err
	}
	if status != adapter.StatusCompleted {
		s.logger.Warn("settlement rejected, provider order not captured",
			zap.String("order_id", orderID),
			zap.String("status", status),
		)
		return ErrPaymentNotCaptured.WithCause(fmt.Errorf("provider status %q", status))
	}
	return nil
}

func toOrderDTO(o *order.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:         o.ID(),
		OrderID:    o.ID(),
		PayerID:    o.PayerID(),
		Amount:     money.NewAmount(o.Amount()),
		BaseAmount: money.NewAmount(o.BaseAmount()),
		Currency:   o.Currency(),
		Status:     string(o.Status()),
		PayerEmail: o.PayerEmail(),
		CreatedAt:  o.CreatedAt(),
		CapturedAt: o.CapturedAt(),
	}
	if d := o.Discount(); d != nil {
		amount := money.NewAmount(d.Amount)
		dto.DiscountCode = d.Code
		dto.DiscountAmount = &amount
		dto.InfluencerID = d.InfluencerID
	}
	return dto
}
