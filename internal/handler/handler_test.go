package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/adapter"
	"github.com/perfectlystyled/service-checkout/internal/application"
	"github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/platform/auth"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
	"github.com/perfectlystyled/service-checkout/internal/platform/kafka"
	"github.com/perfectlystyled/service-checkout/internal/saga"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memDiscounts struct {
	mu    sync.Mutex
	codes map[string]*discount.DiscountCode
}

func (m *memDiscounts) FindByCode(_ context.Context, code string) (*discount.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.codes[code]
	if !ok {
		return nil, discount.ErrDiscountNotFound
	}
	return d, nil
}

func (m *memDiscounts) Create(_ context.Context, d *discount.DiscountCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[d.ID()]; ok {
		return discount.ErrDiscountExists
	}
	m.codes[d.ID()] = d
	return nil
}

func (m *memDiscounts) IncrementUses(_ context.Context, code string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.codes[code]
	if !ok {
		return discount.ErrDiscountNotFound
	}
	m.codes[code] = discount.Reconstruct(d.ID(), d.PercentOff(), d.Owner(), d.Uses()+delta, d.IsActive(), d.MaxUses(), d.ExpiresAt(), d.CreatedAt())
	return nil
}

func (m *memDiscounts) SetActive(_ context.Context, code string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.codes[code]
	if !ok {
		return discount.ErrDiscountNotFound
	}
	m.codes[code] = discount.Reconstruct(d.ID(), d.PercentOff(), d.Owner(), d.Uses(), active, d.MaxUses(), d.ExpiresAt(), d.CreatedAt())
	return nil
}

func (m *memDiscounts) List(context.Context) ([]*discount.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*discount.DiscountCode, 0, len(m.codes))
	for _, d := range m.codes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

type memOrders struct {
	mu     sync.Mutex
	orders map[string]*order.Order
}

func (m *memOrders) Upsert(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID()] = o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("Order", id)
	}
	return o, nil
}

func (m *memOrders) ListAll(_ context.Context, page, limit int) ([]*order.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *memOrders) GetRevenueStats(context.Context) (*order.RevenueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &order.RevenueStats{
		TotalRevenue:            decimal.Zero,
		CountByStatus:           map[string]int64{},
		RedemptionsByInfluencer: map[string]int64{},
	}
	for _, o := range m.orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Amount())
		stats.CountByStatus[string(o.Status())]++
	}
	return stats, nil
}

type testServer struct {
	router    *gin.Engine
	discounts *memDiscounts
	orders    *memOrders
	jwt       *auth.JWTManager
}

func newTestServer(t *testing.T, codes ...*discount.DiscountCode) *testServer {
	t.Helper()
	logger := zap.NewNop()

	discounts := &memDiscounts{codes: map[string]*discount.DiscountCode{}}
	for _, c := range codes {
		discounts.codes[c.ID()] = c
	}
	orders := &memOrders{orders: map[string]*order.Order{}}

	provider := adapter.NewMockPaymentProvider(logger)
	discountSvc := application.NewDiscountService(discounts, logger)
	checkoutSvc := application.NewCheckoutService(discountSvc, provider, "GBP", logger)
	sagaSvc := saga.NewSettlementSagaService(discounts, orders, kafka.NewNopPublisher(logger), logger)
	settlementSvc := application.NewSettlementService(sagaSvc, provider, application.SettlementConfig{
		ProductPrice: decimal.RequireFromString("15.99"),
		Currency:     "GBP",
	}, logger)
	reportSvc := application.NewReportService(settlementSvc, adapter.NopReportArchive{}, adapter.NewLogMailer(logger), logger)
	orderSvc := application.NewOrderService(orders, logger)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	router := gin.New()
	api := router.Group("/api/v1")
	NewCheckoutHandler(checkoutSvc, settlementSvc).RegisterRoutes(api)
	NewDiscountHandler(discountSvc).RegisterRoutes(api)
	NewReportHandler(reportSvc).RegisterRoutes(api)
	NewAdminHandler(discountSvc, orderSvc).RegisterRoutes(api, jwtManager)

	return &testServer{router: router, discounts: discounts, orders: orders, jwt: jwtManager}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w, out
}

func (s *testServer) token(t *testing.T, role auth.Role) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken("user-1", role)
	require.NoError(t, err)
	return tok
}

func sandy50(uses int, maxUses *int) *discount.DiscountCode {
	return discount.Reconstruct("SANDY50", decimal.NewFromInt(50), "influencer-7", uses, true, maxUses, nil, time.Now().Add(-time.Hour))
}

func intPtr(i int) *int { return &i }
