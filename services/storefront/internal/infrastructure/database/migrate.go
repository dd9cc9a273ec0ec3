package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/model"
)

// Migrate creates the checkout ledger table and its indexes.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(&model.CheckoutAttempt{}); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	// Attempts that never got an answer are looked up by operators.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_checkout_attempts_unresolved ON checkout_attempts (created_at) WHERE status IN ('pending', 'unknown')`).Error; err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
