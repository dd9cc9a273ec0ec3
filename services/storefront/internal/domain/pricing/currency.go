package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
)

// Conversion is an amount converted for display.
type Conversion struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	// Degraded is set when no rate was available and the EUR amount is shown as is.
	Degraded bool `json:"degraded"`
}

// Convert converts an EUR amount to code using table. EUR is the identity.
// A missing table or a code absent from it converts at rate 1 and marks the
// result degraded instead of failing.
func Convert(amount decimal.Decimal, code string, table *entity.RateTable) Conversion {
	code = NormalizeCode(code)
	if code == entity.HomeCurrency {
		return Conversion{Amount: amount, Currency: code, Rate: decimal.NewFromInt(1)}
	}

	rate, ok := table.Rate(code)
	if !ok || !rate.IsPositive() {
		return Conversion{Amount: amount, Currency: code, Rate: decimal.NewFromInt(1), Degraded: true}
	}
	return Conversion{Amount: amount.Mul(rate), Currency: code, Rate: rate}
}

// ConvertAt converts an EUR amount at a fixed rate, such as the rate stored
// with a historical order. Non-positive rates convert at 1 and are degraded.
func ConvertAt(amount decimal.Decimal, code string, rate decimal.Decimal) Conversion {
	code = NormalizeCode(code)
	if code == entity.HomeCurrency {
		return Conversion{Amount: amount, Currency: code, Rate: decimal.NewFromInt(1)}
	}
	if !rate.IsPositive() {
		return Conversion{Amount: amount, Currency: code, Rate: decimal.NewFromInt(1), Degraded: true}
	}
	return Conversion{Amount: amount.Mul(rate), Currency: code, Rate: rate}
}

// NormalizeCode upper-cases a currency code; empty means EUR.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entity.HomeCurrency
	}
	return code
}

// Round rounds to cents for display.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Format renders an amount as "230.04 USD".
func Format(amount decimal.Decimal, code string) string {
	return amount.StringFixed(2) + " " + NormalizeCode(code)
}
