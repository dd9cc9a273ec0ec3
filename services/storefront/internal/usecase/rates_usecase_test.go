package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

func rateTable(usd string) *entity.RateTable {
	return &entity.RateTable{
		Base:      "EUR",
		Rates:     map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1), "USD": dec(usd)},
		FetchedAt: time.Now(),
	}
}

func TestRatesUsecase_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	source := new(MockRateSource)
	source.On("Latest", mock.Anything).Return(rateTable("1.08"), nil).Once()

	rates := usecase.NewRatesUsecase(source, time.Hour, zap.NewNop())

	for i := 0; i < 3; i++ {
		table, err := rates.Table(ctx)
		require.NoError(t, err)
		rate, ok := table.Rate("USD")
		require.True(t, ok)
		assert.True(t, dec("1.08").Equal(rate))
	}
	source.AssertNumberOfCalls(t, "Latest", 1)
}

func TestRatesUsecase_ConcurrentMissesShareOneFetch(t *testing.T) {
	ctx := context.Background()
	source := new(MockRateSource)
	release := make(chan struct{})
	source.On("Latest", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(rateTable("1.08"), nil)

	rates := usecase.NewRatesUsecase(source, time.Hour, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rates.Table(ctx)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	source.AssertNumberOfCalls(t, "Latest", 1)
}

func TestRatesUsecase_ServesStaleOnFailure(t *testing.T) {
	ctx := context.Background()
	source := new(MockRateSource)
	source.On("Latest", mock.Anything).Return(rateTable("1.08"), nil).Once()
	source.On("Latest", mock.Anything).Return(nil, errors.New("upstream 503")).Once()

	// a zero TTL refreshes on every call
	rates := usecase.NewRatesUsecase(source, 0, zap.NewNop())

	_, err := rates.Table(ctx)
	require.NoError(t, err)

	table, err := rates.Table(ctx)
	require.NoError(t, err)
	rate, _ := table.Rate("USD")
	assert.True(t, dec("1.08").Equal(rate))
	source.AssertExpectations(t)
}

func TestRatesUsecase_NoTableIsUnavailable(t *testing.T) {
	source := new(MockRateSource)
	source.On("Latest", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	rates := usecase.NewRatesUsecase(source, time.Hour, zap.NewNop())

	_, err := rates.Table(context.Background())
	assert.ErrorIs(t, err, domainErrors.ErrRatesUnavailable)
}

func TestRatesUsecase_CancelledCallerDoesNotCancelFetch(t *testing.T) {
	source := new(MockRateSource)
	source.On("Latest", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	})).Return(rateTable("1.10"), nil).Once()

	rates := usecase.NewRatesUsecase(source, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := rates.Table(ctx)
	require.NoError(t, err)
	source.AssertExpectations(t)
}
