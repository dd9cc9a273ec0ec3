package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// RateProvider returns the current EUR rate table.
type RateProvider interface {
	Table(ctx context.Context) (*entity.RateTable, error)
}

// RatesUsecase caches the rate table for a TTL. Concurrent misses share one
// upstream fetch. When a refresh fails the previous table is served.
type RatesUsecase struct {
	source provider.RateSource
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	cached   *entity.RateTable
	cachedAt time.Time
}

// NewRatesUsecase creates a cached rate provider
func NewRatesUsecase(source provider.RateSource, ttl time.Duration, logger *zap.Logger) *RatesUsecase {
	return &RatesUsecase{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (u *RatesUsecase) fresh() (*entity.RateTable, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.cached == nil {
		return nil, false
	}
	return u.cached, u.now().Sub(u.cachedAt) < u.ttl
}

func (u *RatesUsecase) Table(ctx context.Context) (*entity.RateTable, error) {
	table, ok := u.fresh()
	if ok {
		return table, nil
	}

	v, err, _ := u.group.Do("latest", func() (interface{}, error) {
		// the fetch outlives any single caller that gives up
		latest, err := u.source.Latest(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		u.mu.Lock()
		u.cached = latest
		u.cachedAt = u.now()
		u.mu.Unlock()
		return latest, nil
	})
	if err != nil {
		if table != nil {
			u.logger.Warn("Rate refresh failed, serving stale table",
				zap.Time("fetched_at", table.FetchedAt),
				zap.Error(err))
			return table, nil
		}
		u.logger.Error("Rate table unavailable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrRatesUnavailable, err)
	}

	return v.(*entity.RateTable), nil
}
