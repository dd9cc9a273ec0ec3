package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const HomeCurrency = "EUR"

// PaymentType is the payment channel sent to the backend.
type PaymentType string

const (
	PaymentBank   PaymentType = "bank"
	PaymentOnline PaymentType = "online"
)

// OrderLine is one {product, period} pair of an order payload. It never
// carries a price; the backend prices orders itself.
type OrderLine struct {
	Product string `json:"product"`
	Period  int    `json:"period"`
}

// OrderRequest is the body of POST /orders/order/confirm.
type OrderRequest struct {
	OrderNumber        string          `json:"order_number"`
	Country            string          `json:"country"`
	CurrencyName       string          `json:"currency_name"`
	CurrencyRate       decimal.Decimal `json:"currency_rate"`
	Currency           string          `json:"currency"`
	Rate               decimal.Decimal `json:"rate"`
	PaymentType        PaymentType     `json:"payment_type"`
	TermsAndConditions bool            `json:"terms_and_conditions"`
	Status             string          `json:"status"`
	Domain             string          `json:"domain"`
	Products           []OrderLine     `json:"products"`
	PaymentMethod      string          `json:"payment_method,omitempty"`
}

// OrderConfirmation is what the backend returns for an accepted order.
type OrderConfirmation struct {
	OrderNumber string `json:"order_number"`
	PaymentURL  string `json:"payment_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// OrderSubscription is the discount snapshot stored with an order line.
type OrderSubscription struct {
	Amount       decimal.Decimal `json:"amount"`
	DiscountType DiscountType    `json:"discount_type"`
}

// OrderRecordLine is a purchased product as kept in order history.
type OrderRecordLine struct {
	Product      Product           `json:"product"`
	Period       int               `json:"period"`
	Subscription OrderSubscription `json:"subscription"`
	StartDate    *time.Time        `json:"start_date,omitempty"`
	EndDate      *time.Time        `json:"end_date,omitempty"`
}

// OrderRecord is a historical order as returned by the backend.
type OrderRecord struct {
	ID           string            `json:"_id"`
	OrderNumber  string            `json:"order_number"`
	Currency     string            `json:"currency"`
	CurrencyRate decimal.Decimal   `json:"currency_rate"`
	PaymentType  PaymentType       `json:"payment_type"`
	Status       string            `json:"status"`
	Domain       string            `json:"domain"`
	CreatedAt    time.Time         `json:"createdAt"`
	Products     []OrderRecordLine `json:"products"`
}
