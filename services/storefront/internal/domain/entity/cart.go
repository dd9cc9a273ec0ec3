package entity

import "github.com/shopspring/decimal"

// CartItem is a snapshot of a product taken when it was added to the cart.
// Periods is never reordered; the active offer is SelectedPeriodID.
type CartItem struct {
	ProductID        string               `json:"id"`
	Version          string               `json:"version"`
	Name             string               `json:"name"`
	CategoryID       string               `json:"category_id,omitempty"`
	UnitPrice        decimal.Decimal      `json:"price"`
	Periods          []SubscriptionPeriod `json:"subscriptions"`
	SelectedPeriodID string               `json:"selected_period_id,omitempty"`
}

// NewCartItem snapshots product under the given version label and selects
// its first subscription period.
func NewCartItem(product Product, version string) CartItem {
	periods := make([]SubscriptionPeriod, len(product.SubscriptionPeriods))
	copy(periods, product.SubscriptionPeriods)

	item := CartItem{
		ProductID:  product.ID,
		Version:    version,
		Name:       product.Name,
		CategoryID: product.CategoryID(),
		UnitPrice:  product.Price,
		Periods:    periods,
	}
	if len(periods) > 0 {
		item.SelectedPeriodID = periods[0].ID
	}
	return item
}

// Matches reports whether the item has the (product, version) identity.
func (i CartItem) Matches(productID, version string) bool {
	return i.ProductID == productID && i.Version == version
}

// SelectedPeriod returns the active period. A selection that no longer
// matches any period falls back to the first one.
func (i CartItem) SelectedPeriod() (SubscriptionPeriod, bool) {
	if len(i.Periods) == 0 {
		return SubscriptionPeriod{}, false
	}
	for _, p := range i.Periods {
		if p.ID == i.SelectedPeriodID {
			return p, true
		}
	}
	return i.Periods[0], true
}

// HasPeriod reports whether periodID is one of the item's offers.
func (i CartItem) HasPeriod(periodID string) bool {
	for _, p := range i.Periods {
		if p.ID == periodID {
			return true
		}
	}
	return false
}
