package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

var _ provider.RenewalGateway = (*Client)(nil)

// ListInvoices flattens the per-order invoice groups, stamping each invoice
// with its order number.
func (c *Client) ListInvoices(ctx context.Context, token string) ([]entity.RenewalInvoice, error) {
	var orders []entity.RenewalOrder
	if err := c.getJSON(ctx, "list renewal invoices", "/orders/order/customer/renew/invoice/list", token, &orders); err != nil {
		return nil, err
	}

	invoices := make([]entity.RenewalInvoice, 0, len(orders))
	for _, order := range orders {
		for _, inv := range order.Invoices {
			inv.OrderNumber = order.OrderNumber
			invoices = append(invoices, inv)
		}
	}
	return invoices, nil
}

type invoiceDetail struct {
	Invoice *entity.RenewalInvoice `json:"invoice"`
}

func (c *Client) GetInvoice(ctx context.Context, token, invoiceID string) (*entity.RenewalInvoice, error) {
	const op = "get renewal invoice"

	var detail invoiceDetail
	path := "/orders/order/show/renew/invoice?invoice_id=" + url.QueryEscape(invoiceID)
	if err := c.getJSON(ctx, op, path, token, &detail); err != nil {
		return nil, err
	}
	if detail.Invoice == nil {
		return nil, domainErrors.NewStatusError(op, http.StatusNotFound, "invoice not found")
	}
	return detail.Invoice, nil
}

type stripeRenewRequest struct {
	InvoiceID string `json:"invoice_id"`
	OrderID   string `json:"order_id"`
}

type stripeRenewResponse struct {
	CheckoutURL string `json:"checkout_url"`
	Data        *struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// StartStripeRenewal opens a hosted payment for an invoice. The checkout
// URL is read from the top level or from data.
func (c *Client) StartStripeRenewal(ctx context.Context, token, invoiceID, orderID string) (string, error) {
	const op = "start stripe renewal"

	raw, err := c.call(ctx, op, request{
		method:  http.MethodPost,
		path:    "/payment/stripe/renew",
		token:   token,
		body:    stripeRenewRequest{InvoiceID: invoiceID, OrderID: orderID},
		timeout: c.orderTimeout,
	})
	if err != nil {
		return "", err
	}

	if _, err := decode(op, raw, nil); err != nil {
		return "", err
	}
	var resp stripeRenewResponse
	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return "", &domainErrors.BackendError{Op: op, StatusCode: raw.status, Message: "unexpected response shape", Cause: err}
	}

	checkoutURL := resp.CheckoutURL
	if checkoutURL == "" && resp.Data != nil {
		checkoutURL = resp.Data.CheckoutURL
	}
	if checkoutURL == "" {
		return "", domainErrors.NewStatusError(op, raw.status, "no checkout url returned")
	}
	return checkoutURL, nil
}
