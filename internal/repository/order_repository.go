package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	orderDomain "github.com/perfectlystyled/service-checkout/internal/domain/order"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// OrderModel is the GORM persistence model for the orders table.
type OrderModel struct {
	ID             string              `gorm:"type:varchar(64);primaryKey"`
	PayerID        string              `gorm:"type:varchar(128);not null"`
	Amount         decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	BaseAmount     decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	Currency       string              `gorm:"type:varchar(3);not null;default:'GBP'"`
	DiscountCode   *string             `gorm:"type:varchar(64)"`
	DiscountAmount decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	InfluencerID   *string             `gorm:"type:varchar(255);index"`
	Status         string              `gorm:"type:varchar(20);not null;default:'completed'"`
	PayerEmail     *string             `gorm:"type:varchar(320)"`
	CreatedAt      time.Time           `gorm:"type:timestamptz;not null;default:now()"`
	CapturedAt     time.Time           `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// GormOrderRepository is the GORM-based implementation of OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Upsert inserts the order or overwrites the row with the same provider id.
func (r *GormOrderRepository) Upsert(ctx context.Context, o *orderDomain.Order) error {
	model := toOrderModel(o)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return domain.NewPersistenceError("upsert order", err)
	}
	return nil
}

// FindByID retrieves an order by provider id.
func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*orderDomain.Order, error) {
	var model OrderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Order", id)
		}
		return nil, domain.NewPersistenceError("find order", err)
	}
	return toOrderDomain(&model), nil
}

// ListAll retrieves all orders with pagination (admin).
func (r *GormOrderRepository) ListAll(ctx context.Context, page, limit int) ([]*orderDomain.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&OrderModel{}).Count(&total).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("count orders", err)
	}

	var models []OrderModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, domain.NewPersistenceError("list orders", err)
	}

	orders := make([]*orderDomain.Order, len(models))
	for i := range models {
		orders[i] = toOrderDomain(&models[i])
	}
	return orders, total, nil
}

// GetRevenueStats returns order statistics (admin).
func (r *GormOrderRepository) GetRevenueStats(ctx context.Context) (*orderDomain.RevenueStats, error) {
	var revenue struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Where("status = ?", string(orderDomain.StatusCompleted)).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&revenue).Error; err != nil {
		return nil, domain.NewPersistenceError("sum revenue", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var statuses []statusCount
	if err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&statuses).Error; err != nil {
		return nil, domain.NewPersistenceError("count orders by status", err)
	}

	type influencerCount struct {
		InfluencerID string
		Count        int64
	}
	var influencers []influencerCount
	if err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("influencer_id, count(*) as count").
		Where("influencer_id IS NOT NULL").
		Group("influencer_id").
		Find(&influencers).Error; err != nil {
		return nil, domain.NewPersistenceError("count redemptions", err)
	}

	stats := &orderDomain.RevenueStats{
		TotalRevenue:            revenue.Total,
		CountByStatus:           make(map[string]int64, len(statuses)),
		RedemptionsByInfluencer: make(map[string]int64, len(influencers)),
	}
	for _, sc := range statuses {
		stats.CountByStatus[sc.Status] = sc.Count
	}
	for _, ic := range influencers {
		stats.RedemptionsByInfluencer[ic.InfluencerID] = ic.Count
	}
	return stats, nil
}

func toOrderDomain(m *OrderModel) *orderDomain.Order {
	var applied *orderDomain.AppliedDiscount
	if m.DiscountCode != nil {
		applied = &orderDomain.AppliedDiscount{
			Code:         *m.DiscountCode,
			Amount:       m.DiscountAmount.Decimal,
			InfluencerID: m.InfluencerID,
		}
	}
	return orderDomain.Reconstruct(
		m.ID,
		m.PayerID,
		m.Amount,
		m.BaseAmount,
		m.Currency,
		applied,
		orderDomain.Status(m.Status),
		m.PayerEmail,
		m.CreatedAt,
		m.CapturedAt,
	)
}

func toOrderModel(o *orderDomain.Order) *OrderModel {
	m := &OrderModel{
		ID:         o.ID(),
		PayerID:    o.PayerID(),
		Amount:     o.Amount(),
		BaseAmount: o.BaseAmount(),
		Currency:   o.Currency(),
		Status:     string(o.Status()),
		PayerEmail: o.PayerEmail(),
		CreatedAt:  o.CreatedAt(),
		CapturedAt: o.CapturedAt(),
	}
	if d := o.Discount(); d != nil {
		code := d.Code
		m.DiscountCode = &code
		m.DiscountAmount = decimal.NewNullDecimal(d.Amount)
		m.InfluencerID = d.InfluencerID
	}
	return m
}
