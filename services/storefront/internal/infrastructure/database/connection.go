package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bitss-one/storefront-monorepo/pkg/logger"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	pingTimeout        = 5 * time.Second
)

// NewConnection opens the checkout ledger and checks that it answers
// within pingTimeout. Ledger timestamps are stored in UTC.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.DSN()}), &gorm.Config{
		Logger:               logger.NewGormLogger(log, gormlogger.Warn, slowQueryThreshold, true),
		PrepareStmt:          true,
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open checkout ledger: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout ledger pool: %w", err)
	}
	configurePool(sqlDB, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("checkout ledger at %s:%d is unreachable: %w", cfg.Host, cfg.Port, err)
	}

	log.Info("Checkout ledger connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Name),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return db, nil
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// Close releases the pool and logs how many connections it still held.
func Close(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get checkout ledger pool: %w", err)
	}

	stats := sqlDB.Stats()
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close checkout ledger: %w", err)
	}

	log.Info("Checkout ledger closed",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse))
	return nil
}
