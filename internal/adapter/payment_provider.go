package adapter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// StatusCompleted is the provider order status once the payer's funds are captured.
const StatusCompleted = "COMPLETED"

var (
	// ErrProviderAuth is returned when the provider rejects our client credentials.
	ErrProviderAuth = domain.NewUpstreamError("PROVIDER_AUTH_ERROR", "payment provider authentication failed", nil)
	// ErrProviderOrder is returned when the provider refuses or fails an order call.
	ErrProviderOrder = domain.NewUpstreamError("PROVIDER_ORDER_ERROR", "payment provider order request failed", nil)
)

// PaymentProvider is the anti-corruption layer over the external payment API.
type PaymentProvider interface {
	// CreateOrder opens a capture-intent order for amount and returns the
	// provider-assigned order id.
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error)

	// GetOrderStatus returns the provider's status for an order, e.g. COMPLETED.
	GetOrderStatus(ctx context.Context, orderID string) (string, error)
}

// MockPaymentProvider is a development implementation of PaymentProvider that
// simulates the provider without network calls.
type MockPaymentProvider struct {
	logger *zap.Logger
}

// NewMockPaymentProvider creates a new mock provider for development.
func NewMockPaymentProvider(logger *zap.Logger) *MockPaymentProvider {
	return &MockPaymentProvider{logger: logger}
}

// CreateOrder returns a mock order id.
func (m *MockPaymentProvider) CreateOrder(_ context.Context, amount decimal.Decimal, currency string) (string, error) {
	orderID := fmt.Sprintf("MOCK-%s", uuid.New().String()[:8])

	m.logger.Info("[MOCK PAYPAL] order created",
		zap.String("order_id", orderID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("currency", currency),
	)
	return orderID, nil
}

// GetOrderStatus reports every order as completed.
func (m *MockPaymentProvider) GetOrderStatus(_ context.Context, orderID string) (string, error) {
	m.logger.Info("[MOCK PAYPAL] order status queried", zap.String("order_id", orderID))
	return StatusCompleted, nil
}
