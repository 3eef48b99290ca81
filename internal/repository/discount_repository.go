package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	discountDomain "github.com/perfectlystyled/service-checkout/internal/domain/discount"
	"github.com/perfectlystyled/service-checkout/internal/platform/domain"
)

// DiscountCodeModel is the GORM persistence model for the discount_codes table.
type DiscountCodeModel struct {
	ID         string          `gorm:"type:varchar(64);primaryKey"`
	PercentOff decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Owner      string          `gorm:"type:varchar(255);not null"`
	Uses       int             `gorm:"not null;default:0"`
	IsActive   bool            `gorm:"not null"`
	MaxUses    *int
	ExpiresAt  *time.Time `gorm:"type:timestamptz"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (DiscountCodeModel) TableName() string {
	return "discount_codes"
}

// GormDiscountRepository is the GORM-based implementation of DiscountRepository.
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GORM-based discount repository.
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByCode retrieves a discount code by its normalised id.
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*discountDomain.DiscountCode, error) {
	var model DiscountCodeModel
	if err := r.db.WithContext(ctx).Where("id = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, discountDomain.ErrDiscountNotFound
		}
		return nil, domain.NewPersistenceError("find discount code", err)
	}
	return toDiscountDomain(&model), nil
}

// Create inserts a new discount code. An existing id is left untouched.
func (r *GormDiscountRepository) Create(ctx context.Context, d *discountDomain.DiscountCode) error {
	model := toDiscountModel(d)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return domain.NewPersistenceError("create discount code", result.Error)
	}
	if result.RowsAffected == 0 {
		return discountDomain.ErrDiscountExists
	}
	return nil
}

// IncrementUses adds delta to the uses counter in a single UPDATE so
// concurrent settlements never lose an increment.
func (r *GormDiscountRepository) IncrementUses(ctx context.Context, code string, delta int) error {
	expr := gorm.Expr("uses + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("GREATEST(uses + ?, 0)", delta)
	}

	result := r.db.WithContext(ctx).
		Model(&DiscountCodeModel{}).
		Where("id = ?", code).
		UpdateColumn("uses", expr)
	if result.Error != nil {
		return domain.NewPersistenceError("increment discount uses", result.Error)
	}
	if result.RowsAffected == 0 {
		return discountDomain.ErrDiscountNotFound
	}
	return nil
}

// SetActive updates the is_active flag.
func (r *GormDiscountRepository) SetActive(ctx context.Context, code string, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&DiscountCodeModel{}).
		Where("id = ?", code).
		UpdateColumn("is_active", active)
	if result.Error != nil {
		return domain.NewPersistenceError("update discount active flag", result.Error)
	}
	if result.RowsAffected == 0 {
		return discountDomain.ErrDiscountNotFound
	}
	return nil
}

// List returns every discount code, newest first.
func (r *GormDiscountRepository) List(ctx context.Context) ([]*discountDomain.DiscountCode, error) {
	var models []DiscountCodeModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, domain.NewPersistenceError("list discount codes", err)
	}

	codes := make([]*discountDomain.DiscountCode, len(models))
	for i := range models {
		codes[i] = toDiscountDomain(&models[i])
	}
	return codes, nil
}

func toDiscountDomain(m *DiscountCodeModel) *discountDomain.DiscountCode {
	return discountDomain.Reconstruct(
		m.ID,
		m.PercentOff,
		m.Owner,
		m.Uses,
		m.IsActive,
		m.MaxUses,
		m.ExpiresAt,
		m.CreatedAt,
	)
}

func toDiscountModel(d *discountDomain.DiscountCode) *DiscountCodeModel {
	return &DiscountCodeModel{
		ID:         d.ID(),
		PercentOff: d.PercentOff(),
		Owner:      d.Owner(),
		Uses:       d.Uses(),
		IsActive:   d.IsActive(),
		MaxUses:    d.MaxUses(),
		ExpiresAt:  d.ExpiresAt(),
		CreatedAt:  d.CreatedAt(),
	}
}
