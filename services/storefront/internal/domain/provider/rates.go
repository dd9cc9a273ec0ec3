package provider

import (
	"context"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
)

// RateSource fetches the latest EUR based exchange rates.
type RateSource interface {
	Latest(ctx context.Context) (*entity.RateTable, error)
}
