package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/perfectlystyled/service-checkout/internal/domain/money"
)

const (
	orderDescription = "Perfectly Styled report"
	maxErrorBody     = 64 << 10
)

// PayPalConfig configures the PayPal REST adapter.
type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ReturnURL    string
	CancelURL    string
	Timeout      time.Duration
}

// PayPalAdapter implements PaymentProvider against the PayPal Orders v2 API.
type PayPalAdapter struct {
	baseURL   string
	returnURL string
	cancelURL string
	creds     *clientcredentials.Config
	client    *http.Client
	logger    *zap.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// NewPayPalAdapter creates an adapter that authenticates with the OAuth
// client-credentials grant. Tokens are cached until shortly before expiry
// and fetched on the context of the call that needs them.
func NewPayPalAdapter(cfg PayPalConfig, logger *zap.Logger) *PayPalAdapter {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	httpClient := &http.Client{Timeout: cfg.Timeout}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &PayPalAdapter{
		baseURL:   baseURL,
		returnURL: cfg.ReturnURL,
		cancelURL: cfg.CancelURL,
		creds:     cc,
		client:    httpClient,
		logger:    logger,
	}
}

type amountPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Amount      amountPayload `json:"amount"`
	Description string        `json:"description"`
}

type applicationContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type createOrderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []purchaseUnit     `json:"purchase_units"`
	ApplicationContext applicationContext `json:"application_context"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder opens a CAPTURE-intent order for amount in currency.
func (p *PayPalAdapter) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount:      amountPayload{CurrencyCode: currency, Value: amount.StringFixed(money.Places)},
			Description: orderDescription,
		}},
		ApplicationContext: applicationContext{ReturnURL: p.returnURL, CancelURL: p.cancelURL},
	})
	if err != nil {
		return "", ErrProviderOrder.WithCause(fmt.Errorf("marshal order request: %w", err))
	}

	var out orderResponse
	if err := p.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", ErrProviderOrder.WithCause(errors.New("order response carried no id"))
	}

	p.logger.Info("paypal order created",
		zap.String("order_id", out.ID),
		zap.String("status", out.Status),
		zap.String("amount", amount.StringFixed(money.Places)),
		zap.String("currency", currency),
	)
	return out.ID, nil
}

// GetOrderStatus fetches the order and returns its status.
func (p *PayPalAdapter) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	var out orderResponse
	if err := p.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(orderID), nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// accessToken returns the cached token, or fetches a new one bound to ctx.
func (p *PayPalAdapter) accessToken(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid() {
		return p.token, nil
	}
	tok, err := p.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, p.client))
	if err != nil {
		return nil, err
	}
	p.token = tok
	return tok, nil
}

func (p *PayPalAdapter) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		p.logger.Error("paypal token request failed", zap.Error(err))
		return ErrProviderAuth.WithCause(err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return ErrProviderOrder.WithCause(fmt.Errorf("build request: %w", err))
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("paypal request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return ErrProviderOrder.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		p.logger.Error("paypal request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", diag),
		)
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrProviderAuth.WithCause(fmt.Errorf("status %d", resp.StatusCode))
		}
		return ErrProviderOrder.WithCause(fmt.Errorf("status %d: %s", resp.StatusCode, diag))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrProviderOrder.WithCause(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
