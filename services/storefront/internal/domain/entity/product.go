package entity

import "github.com/shopspring/decimal"

// DiscountType is how a subscription period's discount amount is applied.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

// SubscriptionPeriod is a purchasable duration offer of a product.
type SubscriptionPeriod struct {
	ID           string          `json:"_id"`
	Duration     int             `json:"duration"`
	Amount       decimal.Decimal `json:"amount"`
	DiscountType DiscountType    `json:"discount_type"`
}

// Months returns the billed duration. Non-positive durations count as one month.
func (p SubscriptionPeriod) Months() int {
	if p.Duration <= 0 {
		return 1
	}
	return p.Duration
}

type ProductStatus string

const (
	ProductAvailable   ProductStatus = "available"
	ProductUnavailable ProductStatus = "unavailable"
)

type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Product is the catalog entry served by the backend. Price is monthly, in EUR.
type Product struct {
	ID                  string               `json:"_id"`
	Name                string               `json:"name"`
	Price               decimal.Decimal      `json:"price"`
	Status              ProductStatus        `json:"status"`
	ProductDetails      []string             `json:"product_details,omitempty"`
	Category            *CategoryRef         `json:"category,omitempty"`
	Products            []Product            `json:"products,omitempty"`
	SubscriptionPeriods []SubscriptionPeriod `json:"subscription_periods"`
}

func (p Product) Available() bool {
	return p.Status != ProductUnavailable
}

// CategoryID returns the category id or "" when the product is uncategorized.
func (p Product) CategoryID() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.ID
}

// FindProduct looks a product up by id, including bundled sub-products.
func (p Product) FindProduct(id string) (Product, bool) {
	if p.ID == id {
		return p, true
	}
	for _, sub := range p.Products {
		if found, ok := sub.FindProduct(id); ok {
			return found, true
		}
	}
	return Product{}, false
}

// Category is one group of the category-wise catalog listing.
type Category struct {
	ID           string    `json:"_id"`
	CategoryName string    `json:"categoryName"`
	Products     []Product `json:"products"`
}
