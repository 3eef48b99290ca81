package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/domain/money"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// CreateDiscountRequest holds data to provision a discount code.
type CreateDiscountRequest struct {
	Code       string          `json:"code" binding:"required"`
	PercentOff decimal.Decimal `json:"percentOff"`
	Owner      string          `json:"owner" binding:"required"`
	MaxUses    *int            `json:"maxUses"`
	ExpiresAt  *time.Time      `json:"expiresAt"`
}

// ValidateDiscountRequest holds data to preview a discount code.
type ValidateDiscountRequest struct {
	Code       string       `json:"code" binding:"required"`
	BaseAmount money.Amount `json:"baseAmount"`
}

// DiscountDTO is the API response representation of a discount code.
type DiscountDTO struct {
	Code          string          `json:"code"`
	PercentOff    decimal.Decimal `json:"percentOff"`
	Owner         string          `json:"owner"`
	Uses          int             `json:"uses"`
	IsActive      bool            `json:"isActive"`
	MaxUses       *int            `json:"maxUses,omitempty"`
	RemainingUses *int            `json:"remainingUses,omitempty"`
	ExpiresAt     *time.Time      `json:"expiresAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// QuoteDTO is the priced result of validating a discount code.
type QuoteDTO struct {
	Code           string          `json:"code"`
	PercentOff     decimal.Decimal `json:"percentOff"`
	BaseAmount     money.Amount    `json:"baseAmount"`
	FinalAmount    money.Amount    `json:"finalAmount"`
	DiscountAmount money.Amount    `json:"discountAmount"`
}

// DiscountService handles discount code use cases.
type DiscountService struct {
	repo   discount.DiscountRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(repo discount.DiscountRepository, logger *zap.Logger) *DiscountService {
	return &DiscountService{repo: repo, now: time.Now, logger: logger}
}

// Validate looks up code and prices baseAmount with it. It has no side
// effects; uses are only counted at settlement.
func (s *DiscountService) Validate(ctx context.Context, code string, baseAmount decimal.Decimal) (*discount.Quote, error) {
	if err := money.ValidatePositive(money.Amount{Decimal: baseAmount}); err != nil {
		return nil, err
	}
	id := discount.NormalizeCode(code)
	if id == "" {
		return nil, discount.ErrDiscountNotFound
	}

	d, err := s.repo.FindByCode(ctx, id)
	if err != nil {
		return nil, err
	}

	q, err := d.Quote(baseAmount, s.now().UTC())
	if err != nil {
		s.logger.Info("discount code rejected",
			zap.String("code", id),
			zap.Int("uses", d.Uses()),
			zap.Error(err),
		)
		return nil, err
	}
	return &q, nil
}

// ValidateCode is the API form of Validate.
func (s *DiscountService) ValidateCode(ctx context.Context, req ValidateDiscountRequest) (*QuoteDTO, error) {
	q, err := s.Validate(ctx, req.Code, req.BaseAmount.Decimal)
	if err != nil {
		return nil, err
	}
	return &QuoteDTO{
		Code:           q.CodeID,
		PercentOff:     q.PercentOff,
		BaseAmount:     money.NewAmount(q.BaseAmount),
		FinalAmount:    money.NewAmount(q.FinalAmount),
		DiscountAmount: money.NewAmount(q.DiscountAmount()),
	}, nil
}

// CreateDiscount provisions a new active code (admin only).
func (s *DiscountService) CreateDiscount(ctx context.Context, req CreateDiscountRequest) (*DiscountDTO, error) {
	d, err := discount.NewDiscountCode(req.Code, req.PercentOff, req.Owner, req.MaxUses, req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save discount code: %w", err)
	}

	s.logger.Info("discount code created",
		zap.String("code", d.ID()),
		zap.String("owner", strings.TrimSpace(req.Owner)),
	)
	return toDiscountDTO(d), nil
}

// DeactivateDiscount switches a code off so it can no longer be redeemed
// (admin only). Uses already counted are kept.
func (s *DiscountService) DeactivateDiscount(ctx context.Context, code, actor string) (*DiscountDTO, error) {
	id := discount.NormalizeCode(code)
	d, err := s.repo.FindByCode(ctx, id)
	if err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			return nil, domain.NewNotFoundError("DiscountCode", id)
		}
		return nil, err
	}

	if err := d.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, d.ID(), d.IsActive()); err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			return nil, domain.NewNotFoundError("DiscountCode", id)
		}
		return nil, fmt.Errorf("failed to deactivate discount code: %w", err)
	}

	s.logger.Info("discount code deactivated",
		zap.String("code", d.ID()),
		zap.String("actor", actor),
	)
	return toDiscountDTO(d), nil
}

// ListDiscounts returns every discount code (admin only).
func (s *DiscountService) ListDiscounts(ctx context.Context) ([]*DiscountDTO, error) {
	codes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]*DiscountDTO, len(codes))
	for i, d := range codes {
		dtos[i] = toDiscountDTO(d)
	}
	return dtos, nil
}

func toDiscountDTO(d *discount.DiscountCode) *DiscountDTO {
	return &DiscountDTO{
		Code:          d.ID(),
		PercentOff:    d.PercentOff(),
		Owner:         d.Owner(),
		Uses:          d.Uses(),
		IsActive:      d.IsActive(),
		MaxUses:       d.MaxUses(),
		RemainingUses: d.RemainingUses(),
		ExpiresAt:     d.ExpiresAt(),
		CreatedAt:     d.CreatedAt(),
	}
}
