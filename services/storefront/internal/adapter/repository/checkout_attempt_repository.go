package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/model"
	domainRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

type checkoutAttemptRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCheckoutAttemptRepository creates a Postgres backed checkout ledger
func NewCheckoutAttemptRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CheckoutAttemptRepository {
	return &checkoutAttemptRepository{db: db, logger: logger}
}

func (r *checkoutAttemptRepository) Get(ctx context.Context, key string) (*model.CheckoutAttempt, error) {
	var attempt model.CheckoutAttempt
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get checkout attempt",
			zap.String("idempotency_key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get checkout attempt: %w", err)
	}
	return &attempt, nil
}

func (r *checkoutAttemptRepository) Reserve(ctx context.Context, attempt *model.CheckoutAttempt) (*model.CheckoutAttempt, bool, error) {
	attempt.Status = model.AttemptPending

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).
		Create(attempt)
	if result.Error != nil {
		r.logger.Error("failed to reserve checkout attempt",
			zap.String("idempotency_key", attempt.IdempotencyKey),
			zap.Error(result.Error))
		return nil, false, fmt.Errorf("failed to reserve checkout attempt: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return attempt, true, nil
	}

	var stored model.CheckoutAttempt
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", attempt.IdempotencyKey).
		First(&stored).Error; err != nil {
		r.logger.Error("failed to load existing checkout attempt",
			zap.String("idempotency_key", attempt.IdempotencyKey),
			zap.Error(err))
		return nil, false, fmt.Errorf("failed to load checkout attempt: %w", err)
	}
	return &stored, false, nil
}

func (r *checkoutAttemptRepository) Retry(ctx context.Context, attempt *model.CheckoutAttempt) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.CheckoutAttempt{}).
		Where("idempotency_key = ? AND status = ?", attempt.IdempotencyKey, model.AttemptRejected).
		Updates(map[string]interface{}{
			"status":       model.AttemptPending,
			"message":      "",
			"payment_type": attempt.PaymentType,
			"currency":     attempt.Currency,
			"domain":       attempt.Domain,
		})
	if result.Error != nil {
		r.logger.Error("failed to retry checkout attempt",
			zap.String("idempotency_key", attempt.IdempotencyKey),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to retry checkout attempt: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *checkoutAttemptRepository) Complete(ctx context.Context, key string, outcome model.AttemptOutcome) error {
	updates := map[string]interface{}{
		"status":      outcome.Status,
		"payment_url": outcome.PaymentURL,
		"message":     outcome.Message,
	}
	if outcome.OrderNumber != "" {
		updates["order_number"] = outcome.OrderNumber
	}

	result := r.db.WithContext(ctx).
		Model(&model.CheckoutAttempt{}).
		Where("idempotency_key = ? AND status = ?", key, model.AttemptPending).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("failed to complete checkout attempt",
			zap.String("idempotency_key", key),
			zap.String("status", string(outcome.Status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to complete checkout attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("checkout attempt was not pending",
			zap.String("idempotency_key", key))
	}
	return nil
}
