package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormPinger reports readiness by pinging the underlying connection pool.
type GormPinger struct {
	db *gorm.DB
}

// NewGormPinger creates a pinger for db.
func NewGormPinger(db *gorm.DB) *GormPinger {
	return &GormPinger{db: db}
}

// Ping checks the database connection.
func (p *GormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
