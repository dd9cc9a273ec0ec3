package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// RenewalFilter selects invoices by payment state: "paid", "pending" or all.
type RenewalFilter string

const (
	RenewalAll     RenewalFilter = ""
	RenewalPaid    RenewalFilter = "paid"
	RenewalPending RenewalFilter = "pending"
)

// RenewalStats counts invoices by payment state.
type RenewalStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Paid    int `json:"paid"`
}

// InvoiceView is an invoice with the transfer details for bank payment.
type InvoiceView struct {
	Invoice     entity.RenewalInvoice `json:"invoice"`
	BankDetails entity.BankDetails    `json:"bank_details"`
}

type RenewalUsecase struct {
	renewals provider.RenewalGateway
	bank     entity.BankDetails
	logger   *zap.Logger
}

// NewRenewalUsecase creates the renewal usecase
func NewRenewalUsecase(renewals provider.RenewalGateway, bank entity.BankDetails, logger *zap.Logger) *RenewalUsecase {
	return &RenewalUsecase{renewals: renewals, bank: bank, logger: logger}
}

// List returns invoices newest first, filtered, with stats over all of them.
func (u *RenewalUsecase) List(ctx context.Context, token string, filter RenewalFilter) ([]entity.RenewalInvoice, RenewalStats, error) {
	invoices, err := u.renewals.ListInvoices(ctx, token)
	if err != nil {
		return nil, RenewalStats{}, err
	}

	stats := RenewalStats{Total: len(invoices)}
	out := make([]entity.RenewalInvoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.Paid {
			stats.Paid++
		} else {
			stats.Pending++
		}

		switch RenewalFilter(strings.ToLower(string(filter))) {
		case RenewalPaid:
			if !inv.Paid {
				continue
			}
		case RenewalPending:
			if inv.Paid {
				continue
			}
		}
		out = append(out, inv)
	}

	sortInvoicesNewestFirst(out)
	return out, stats, nil
}

func (u *RenewalUsecase) Get(ctx context.Context, token, invoiceID string) (*InvoiceView, error) {
	inv, err := u.renewals.GetInvoice(ctx, token, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceView{Invoice: *inv, BankDetails: u.bank}, nil
}

// PayWithStripe opens a hosted payment for an unpaid invoice and returns the
// URL to redirect to.
func (u *RenewalUsecase) PayWithStripe(ctx context.Context, token, invoiceID string) (string, error) {
	inv, err := u.renewals.GetInvoice(ctx, token, invoiceID)
	if err != nil {
		return "", err
	}
	if inv.Paid {
		return "", domainErrors.ErrInvoicePaid
	}
	orderID := inv.OrderID()
	if orderID == "" {
		return "", domainErrors.ErrInvoiceOrderMissing
	}

	url, err := u.renewals.StartStripeRenewal(ctx, token, invoiceID, orderID)
	if err != nil {
		return "", err
	}
	u.logger.Info("Stripe renewal started",
		zap.String("invoice_id", invoiceID),
		zap.String("order_id", orderID))
	return url, nil
}

// sortInvoicesNewestFirst orders by issue date; undated invoices go last.
func sortInvoicesNewestFirst(invoices []entity.RenewalInvoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		a, b := invoices[i].IssuedAt, invoices[j].IssuedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
