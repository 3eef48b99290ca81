package order

import (
	"context"

	"github.com/shopspring/decimal"
)

// RevenueStats summarises settled orders for the admin dashboard.
type RevenueStats struct {
	TotalRevenue            decimal.Decimal
	CountByStatus           map[string]int64
	RedemptionsByInfluencer map[string]int64
}

// OrderRepository defines the persistence contract for settlement records.
type OrderRepository interface {
	// Upsert writes the order keyed by its provider id. Writing the same id
	// again overwrites the previous record.
	Upsert(ctx context.Context, o *Order) error

	// FindByID retrieves an order by provider id.
	FindByID(ctx context.Context, id string) (*Order, error)

	// ListAll retrieves orders newest first with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Order, int64, error)

	// GetRevenueStats aggregates revenue and redemption counts (admin).
	GetRevenueStats(ctx context.Context) (*RevenueStats, error)
}
