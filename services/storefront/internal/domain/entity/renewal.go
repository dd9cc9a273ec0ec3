package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RenewalOrder groups the renewal invoices issued for one order.
type RenewalOrder struct {
	ID          string           `json:"_id"`
	OrderNumber string           `json:"order_number"`
	Invoices    []RenewalInvoice `json:"invoices"`
}

// RenewalInvoice is a renewal bill for an existing order.
type RenewalInvoice struct {
	ID           string          `json:"_id"`
	InvoiceID    string          `json:"invoice_id"`
	OrderNumber  string          `json:"order_number,omitempty"`
	Order        *InvoiceOrder   `json:"order,omitempty"`
	Paid         bool            `json:"paid"`
	IssuedAt     *time.Time      `json:"issued_at,omitempty"`
	Currency     string          `json:"currency"`
	CurrencyRate decimal.Decimal `json:"currency_rate"`
	PaymentType  PaymentType     `json:"payment_type,omitempty"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// InvoiceOrder is the order a renewal invoice belongs to.
type InvoiceOrder struct {
	ID          string `json:"id"`
	OrderNumber string `json:"order_number,omitempty"`
	Domain      string `json:"domain,omitempty"`
}

// OrderID returns the renewed order id, or "" when the invoice carries none.
func (i RenewalInvoice) OrderID() string {
	if i.Order == nil {
		return ""
	}
	return i.Order.ID
}

// BankDetails are the transfer instructions shown for bank payments.
type BankDetails struct {
	BankName string `json:"bank_name" yaml:"bank_name"`
	IBAN     string `json:"iban" yaml:"iban"`
	BIC      string `json:"bic" yaml:"bic"`
}
