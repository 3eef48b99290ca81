package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/domain/money"
	"github.com/perfectlystyled/service-checkout/internal/domain/order"
)

// OrderStatsDTO holds order statistics for the admin dashboard.
type OrderStatsDTO struct {
	TotalRevenue            money.Amount     `json:"totalRevenue"`
	CountByStatus           map[string]int64 `json:"countByStatus"`
	RedemptionsByInfluencer map[string]int64 `json:"redemptionsByInfluencer"`
}

// OrderService serves read-only order queries (admin).
type OrderService struct {
	repo   order.OrderRepository
	logger *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo order.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger}
}

// GetOrder retrieves a settlement record by provider order id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*OrderDTO, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(o), nil
}

// ListAllOrders returns a paginated list of all orders.
func (s *OrderService) ListAllOrders(ctx context.Context, page, limit int) ([]*OrderDTO, int64, error) {
	orders, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	dtos := make([]*OrderDTO, len(orders))
	for i, o := range orders {
		dtos[i] = toOrderDTO(o)
	}
	return dtos, total, nil
}

// GetOrderStats returns aggregate order statistics.
func (s *OrderService) GetOrderStats(ctx context.Context) (*OrderStatsDTO, error) {
	stats, err := s.repo.GetRevenueStats(ctx)
	if err != nil {
		return nil, err
	}

	return &OrderStatsDTO{
		TotalRevenue:            money.NewAmount(stats.TotalRevenue),
		CountByStatus:           stats.CountByStatus,
		RedemptionsByInfluencer: stats.RedemptionsByInfluencer,
	}, nil
}
