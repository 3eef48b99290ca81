package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

type fakePayPal struct {
	tokenCalls atomic.Int32
	lastOrder  createOrderRequest
	orderCode  int
	tokenCode  int
	tokenDelay time.Duration
}

func (f *fakePayPal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if f.tokenDelay > 0 {
			select {
			case <-time.After(f.tokenDelay):
			case <-r.Context().Done():
				return
			}
		}
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		if f.tokenCode != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.tokenCode)
			_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client Authentication failed"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":32400}`))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastOrder))

		w.Header().Set("Content-Type", "application/json")
		if f.orderCode != 0 {
			w.WriteHeader(f.orderCode)
			_, _ = w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"CURRENCY_NOT_SUPPORTED"}]}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"5O190127TN364715T","status":"CREATED"}`))
	})
	mux.HandleFunc("/v2/checkout/orders/5O190127TN364715T", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"5O190127TN364715T","status":"COMPLETED"}`))
	})
	return mux
}

func newTestAdapter(t *testing.T, f *fakePayPal) *PayPalAdapter {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	return NewPayPalAdapter(PayPalConfig{
		BaseURL:      srv.URL + "/",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		ReturnURL:    "https://example.com/payment",
		CancelURL:    "https://example.com/payment",
		Timeout:      5 * time.Second,
	}, zap.NewNop())
}

func TestPayPalAdapter_CreateOrder(t *testing.T) {
	f := &fakePayPal{}
	p := newTestAdapter(t, f)

	id, err := p.CreateOrder(context.Background(), decimal.RequireFromString("5"), "GBP")
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", id)

	assert.Equal(t, "CAPTURE", f.lastOrder.Intent)
	require.Len(t, f.lastOrder.PurchaseUnits, 1)
	assert.Equal(t, "5.00", f.lastOrder.PurchaseUnits[0].Amount.Value)
	assert.Equal(t, "GBP", f.lastOrder.PurchaseUnits[0].Amount.CurrencyCode)
	assert.Equal(t, orderDescription, f.lastOrder.PurchaseUnits[0].Description)
	assert.Equal(t, "https://example.com/payment", f.lastOrder.ApplicationContext.ReturnURL)
}

func TestPayPalAdapter_ReusesToken(t *testing.T) {
	f := &fakePayPal{}
	p := newTestAdapter(t, f)

	for i := 0; i < 3; i++ {
		_, err := p.CreateOrder(context.Background(), decimal.RequireFromString("15.99"), "GBP")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestPayPalAdapter_AuthFailure(t *testing.T) {
	f := &fakePayPal{tokenCode: http.StatusUnauthorized}
	p := newTestAdapter(t, f)

	_, err := p.CreateOrder(context.Background(), decimal.RequireFromString("15.99"), "GBP")
	assert.ErrorIs(t, err, ErrProviderAuth)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestPayPalAdapter_TokenFetchHonoursContext(t *testing.T) {
	f := &fakePayPal{tokenDelay: 3 * time.Second}
	p := newTestAdapter(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.CreateOrder(ctx, decimal.RequireFromString("15.99"), "GBP")
	assert.ErrorIs(t, err, ErrProviderAuth)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Nil(t, p.token)
}

func TestPayPalAdapter_OrderRejected(t *testing.T) {
	f := &fakePayPal{orderCode: http.StatusUnprocessableEntity}
	p := newTestAdapter(t, f)

	_, err := p.CreateOrder(context.Background(), decimal.RequireFromString("15.99"), "XYZ")
	assert.ErrorIs(t, err, ErrProviderOrder)
	assert.Contains(t, err.Error(), "CURRENCY_NOT_SUPPORTED", "diagnostics are kept on the cause for logs")
}

func TestPayPalAdapter_GetOrderStatus(t *testing.T) {
	p := newTestAdapter(t, &fakePayPal{})

	status, err := p.GetOrderStatus(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
}

func TestMockPaymentProvider(t *testing.T) {
	m := NewMockPaymentProvider(zap.NewNop())

	id, err := m.CreateOrder(context.Background(), decimal.RequireFromString("15.99"), "GBP")
	require.NoError(t, err)
	assert.Contains(t, id, "MOCK-")

	status, err := m.GetOrderStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status)
}
