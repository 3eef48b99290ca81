package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
	"github.com/perfectlystyled/service-checkout/internal/platform/kafka"
	"github.com/perfectlystyled/service-checkout/internal/saga"
)

type fakeDiscountRepo struct {
	mu     sync.Mutex
	codes  map[string]*discount.DiscountCode
	incErr error
}

func newFakeDiscountRepo(codes ...*discount.DiscountCode) *fakeDiscountRepo {
	r := &fakeDiscountRepo{codes: map[string]*discount.DiscountCode{}}
	for _, c := range codes {
		r.codes[c.ID()] = c
	}
	return r
}

func (r *fakeDiscountRepo) FindByCode(_ context.Context, code string) (*discount.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codes[code]
	if !ok {
		return nil, discount.ErrDiscountNotFound
	}
	return d, nil
}

func (r *fakeDiscountRepo) Create(_ context.Context, d *discount.DiscountCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[d.ID()]; ok {
		return discount.ErrDiscountExists
	}
	r.codes[d.ID()] = d
	return nil
}

func (r *fakeDiscountRepo) IncrementUses(_ context.Context, code string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incErr != nil {
		return r.incErr
	}
	d, ok := r.codes[code]
	if !ok {
		return discount.ErrDiscountNotFound
	}
	uses := d.Uses() + delta
	if uses < 0 {
		uses = 0
	}
	r.codes[code] = discount.Reconstruct(d.ID(), d.PercentOff(), d.Owner(), uses, d.IsActive(), d.MaxUses(), d.ExpiresAt(), d.CreatedAt())
	return nil
}

func (r *fakeDiscountRepo) SetActive(_ context.Context, code string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codes[code]
	if !ok {
		return discount.ErrDiscountNotFound
	}
	r.codes[code] = discount.Reconstruct(d.ID(), d.PercentOff(), d.Owner(), d.Uses(), active, d.MaxUses(), d.ExpiresAt(), d.CreatedAt())
	return nil
}

func (r *fakeDiscountRepo) List(context.Context) ([]*discount.DiscountCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*discount.DiscountCode, 0, len(r.codes))
	for _, d := range r.codes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakeDiscountRepo) uses(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codes[code].Uses()
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*order.Order
	writes    int
	upsertErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*order.Order{}}
}

func (r *fakeOrderRepo) Upsert(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.writes++
	r.orders[o.ID()] = o
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.NewNotFoundError("order", id)
	}
	return o, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context, page, limit int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID() < all[j].ID() })
	start := (page - 1) * limit
	if start >= len(all) {
		return []*order.Order{}, int64(len(all)), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *fakeOrderRepo) GetRevenueStats(context.Context) (*order.RevenueStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &order.RevenueStats{
		TotalRevenue:            decimal.Zero,
		CountByStatus:           map[string]int64{},
		RedemptionsByInfluencer: map[string]int64{},
	}
	for _, o := range r.orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Amount())
		stats.CountByStatus[string(o.Status())]++
		if d := o.Discount(); d != nil && d.InfluencerID != nil {
			stats.RedemptionsByInfluencer[*d.InfluencerID]++
		}
	}
	return stats, nil
}

type fakeProvider struct {
	mu      sync.Mutex
	created []decimal.Decimal
	status  string
	err     error
}

func (p *fakeProvider) CreateOrder(_ context.Context, amount decimal.Decimal, _ string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.created = append(p.created, amount)
	return "PAYPAL-ORDER-1", nil
}

func (p *fakeProvider) GetOrderStatus(context.Context, string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.status, nil
}

type fakeArchive struct {
	content string
	err     error
}

func (a *fakeArchive) Archive(_ context.Context, orderID, content string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.content = content
	return "s3://bucket/" + orderID + ".md", nil
}

type fakeMailer struct {
	sentTo []string
	err    error
}

func (m *fakeMailer) SendReport(_ context.Context, email, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, email)
	return nil
}

var errBoom = errors.New("boom")

func intPtr(i int) *int { return &i }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sandy50(uses int) *discount.DiscountCode {
	expires := time.Now().Add(24 * time.Hour)
	return discount.Reconstruct("SANDY50", dec("50"), "sandy@example.com", uses, true, intPtr(100), &expires, time.Now())
}

type settlementFixture struct {
	discounts *fakeDiscountRepo
	orders    *fakeOrderRepo
	provider  *fakeProvider
	svc       *SettlementService
}

func newSettlementFixture(productPrice string, verify bool, codes ...*discount.DiscountCode) *settlementFixture {
	discounts := newFakeDiscountRepo(codes...)
	orders := newFakeOrderRepo()
	provider := &fakeProvider{status: "COMPLETED"}
	sagaSvc := saga.NewSettlementSagaService(discounts, orders, kafka.NewNopPublisher(zap.NewNop()), zap.NewNop())
	svc := NewSettlementService(sagaSvc, provider, SettlementConfig{
		ProductPrice:  dec(productPrice),
		Currency:      "GBP",
		VerifyCapture: verify,
	}, zap.NewNop())
	return &settlementFixture{discounts: discounts, orders: orders, provider: provider, svc: svc}
}
