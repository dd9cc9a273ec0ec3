package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/repository"
	domainRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	CheckoutAttempts domainRepo.CheckoutAttemptRepository
}

// NewRepositories creates Postgres backed repositories
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		CheckoutAttempts: repository.NewCheckoutAttemptRepository(db, logger),
	}
}

// NewMemoryRepositories keeps the ledger in process memory. Attempts are
// lost on restart.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		CheckoutAttempts: repository.NewMemoryCheckoutAttemptRepository(),
	}
}
