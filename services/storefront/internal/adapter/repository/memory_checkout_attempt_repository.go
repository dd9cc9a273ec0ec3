package repository

import (
	"context"
	"sync"
	"time"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/model"
	domainRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

// memoryCheckoutAttemptRepository is the ledger used when no database is
// configured. Attempts are lost on restart.
type memoryCheckoutAttemptRepository struct {
	mu       sync.Mutex
	attempts map[string]*model.CheckoutAttempt
	nextID   int64
}

// NewMemoryCheckoutAttemptRepository creates an in-process checkout ledger
func NewMemoryCheckoutAttemptRepository() domainRepo.CheckoutAttemptRepository {
	return &memoryCheckoutAttemptRepository{
		attempts: make(map[string]*model.CheckoutAttempt),
	}
}

func (r *memoryCheckoutAttemptRepository) Get(_ context.Context, key string) (*model.CheckoutAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.attempts[key]
	if !ok {
		return nil, nil
	}
	cp := *stored
	return &cp, nil
}

func (r *memoryCheckoutAttemptRepository) Reserve(_ context.Context, attempt *model.CheckoutAttempt) (*model.CheckoutAttempt, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.attempts[attempt.IdempotencyKey]; ok {
		cp := *stored
		return &cp, false, nil
	}

	r.nextID++
	now := time.Now()
	attempt.ID = r.nextID
	attempt.Status = model.AttemptPending
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	cp := *attempt
	r.attempts[attempt.IdempotencyKey] = &cp
	return attempt, true, nil
}

func (r *memoryCheckoutAttemptRepository) Retry(_ context.Context, attempt *model.CheckoutAttempt) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.attempts[attempt.IdempotencyKey]
	if !ok || stored.Status != model.AttemptRejected {
		return false, nil
	}
	stored.Status = model.AttemptPending
	stored.Message = ""
	stored.PaymentType = attempt.PaymentType
	stored.Currency = attempt.Currency
	stored.Domain = attempt.Domain
	stored.UpdatedAt = time.Now()
	return true, nil
}

func (r *memoryCheckoutAttemptRepository) Complete(_ context.Context, key string, outcome model.AttemptOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.attempts[key]
	if !ok || stored.Status != model.AttemptPending {
		return nil
	}
	stored.Status = outcome.Status
	stored.PaymentURL = outcome.PaymentURL
	stored.Message = outcome.Message
	if outcome.OrderNumber != "" {
		stored.OrderNumber = outcome.OrderNumber
	}
	stored.UpdatedAt = time.Now()
	return nil
}
