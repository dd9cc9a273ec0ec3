package repository

import (
	"context"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/model"
)

// CheckoutAttemptRepository is the idempotency ledger for order submissions.
type CheckoutAttemptRepository interface {
	// Get returns the attempt stored under key, or nil when there is none.
	Get(ctx context.Context, key string) (*model.CheckoutAttempt, error)

	// Reserve stores attempt as pending. When the key already exists the
	// stored attempt is returned with created == false and nothing changes.
	Reserve(ctx context.Context, attempt *model.CheckoutAttempt) (stored *model.CheckoutAttempt, created bool, err error)

	// Retry moves a rejected attempt back to pending and replaces its
	// payment type, currency and domain with those of attempt. The order
	// number is kept. It reports false when the stored attempt was not in
	// the rejected state.
	Retry(ctx context.Context, attempt *model.CheckoutAttempt) (bool, error)

	// Complete records the final outcome of a pending attempt.
	Complete(ctx context.Context, key string, outcome model.AttemptOutcome) error
}
