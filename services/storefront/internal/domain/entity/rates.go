package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateTable maps ISO 4217 codes to units per 1 EUR.
type RateTable struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

// Rate looks up code. The home currency always has rate 1.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	if code == HomeCurrency {
		return decimal.NewFromInt(1), true
	}
	if t == nil {
		return decimal.Decimal{}, false
	}
	r, ok := t.Rates[code]
	return r, ok
}
