// Package pricing computes cart and order prices. All amounts are EUR unless
// converted with Convert; every function here is pure.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Discount is the discount terms applied to one line.
type Discount struct {
	Amount decimal.Decimal
	Type   entity.DiscountType
}

// DiscountOf returns the discount terms of a subscription period.
func DiscountOf(p entity.SubscriptionPeriod) Discount {
	return Discount{Amount: p.Amount, Type: p.DiscountType}
}

// InRange reports whether the discount is sane: a percent within [0,100],
// a flat amount that is non-negative. Out-of-range discounts are still
// priced (and floored at zero); callers use this to flag bad catalog data.
func (d Discount) InRange() bool {
	if d.Amount.IsNegative() {
		return false
	}
	if d.Type == entity.DiscountPercent {
		return d.Amount.LessThanOrEqual(hundred)
	}
	return true
}

// LinePrice is the one discount formula shared by the cart and order history:
// unit × months minus the discount, never below zero. Percent discounts scale
// with the base; flat discounts do not scale with duration. Unknown discount
// types and negative amounts discount nothing.
func LinePrice(unit decimal.Decimal, months int, d Discount) decimal.Decimal {
	if months <= 0 {
		months = 1
	}
	base := unit.Mul(decimal.NewFromInt(int64(months)))

	var off decimal.Decimal
	switch d.Type {
	case entity.DiscountPercent:
		off = base.Mul(d.Amount).Div(hundred)
	case entity.DiscountFlat:
		off = d.Amount
	}
	if off.IsNegative() {
		off = decimal.Zero
	}

	price := base.Sub(off)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// ItemPrice prices a cart line with its selected period. A line without
// periods costs its unit price.
func ItemPrice(item entity.CartItem) decimal.Decimal {
	period, ok := item.SelectedPeriod()
	if !ok {
		return item.UnitPrice
	}
	return LinePrice(item.UnitPrice, period.Months(), DiscountOf(period))
}

// CartTotal sums ItemPrice over items.
func CartTotal(items []entity.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(ItemPrice(item))
	}
	return total
}

// RecordLinePrice re-prices a historical order line in EUR from the discount
// snapshot stored with it.
func RecordLinePrice(line entity.OrderRecordLine) decimal.Decimal {
	return LinePrice(line.Product.Price, line.Period, Discount{
		Amount: line.Subscription.Amount,
		Type:   line.Subscription.DiscountType,
	})
}

// BuildOrderLines maps the cart to {product, period} pairs in cart order,
// period being the selected duration in months. Prices are never included.
func BuildOrderLines(items []entity.CartItem) []entity.OrderLine {
	lines := make([]entity.OrderLine, 0, len(items))
	for _, item := range items {
		line := entity.OrderLine{Product: item.ProductID}
		if period, ok := item.SelectedPeriod(); ok {
			line.Period = period.Duration
		}
		lines = append(lines, line)
	}
	return lines
}
