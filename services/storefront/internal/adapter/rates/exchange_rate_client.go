// Package rates fetches EUR based exchange rates from a public rate API.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// ExchangeRateClient reads {base, rates} documents such as the
// exchangerate-api v4 "latest" endpoint.
type ExchangeRateClient struct {
	client *http.Client
	url    string
	logger *zap.Logger
	now    func() time.Time
}

var _ provider.RateSource = (*ExchangeRateClient)(nil)

// NewExchangeRateClient creates a rate source
func NewExchangeRateClient(cfg config.RatesConfig, logger *zap.Logger) *ExchangeRateClient {
	return &ExchangeRateClient{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
		logger: logger,
		now:    time.Now,
	}
}

// Latest fetches the current table. Codes that are not ISO 4217 and
// non-positive rates are dropped.
func (c *ExchangeRateClient) Latest(ctx context.Context) (*entity.RateTable, error) {
	const op = "fetch rates"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("RateClient: HTTP request failed", zap.Error(err))
		return nil, domainErrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("RateClient: non-200 status", zap.Int("status_code", resp.StatusCode))
		return nil, domainErrors.NewStatusError(op, resp.StatusCode, "")
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domainErrors.BackendError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response body", Cause: err}
	}

	base := strings.ToUpper(body.Base)
	if base == "" {
		base = entity.HomeCurrency
	}
	if base != entity.HomeCurrency {
		return nil, domainErrors.NewStatusError(op, resp.StatusCode, "unexpected base currency "+base)
	}

	table := &entity.RateTable{
		Base:      base,
		Rates:     make(map[string]decimal.Decimal, len(body.Rates)),
		FetchedAt: c.now(),
	}
	dropped := 0
	for code, rate := range body.Rates {
		unit, err := currency.ParseISO(code)
		if err != nil || !rate.IsPositive() {
			dropped++
			continue
		}
		table.Rates[unit.String()] = rate
	}
	table.Rates[entity.HomeCurrency] = decimal.NewFromInt(1)

	c.logger.Debug("RateClient: rates fetched",
		zap.Int("currencies", len(table.Rates)),
		zap.Int("dropped", dropped))

	return table, nil
}
