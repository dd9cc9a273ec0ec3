package provider

import (
	"context"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
)

// Catalog reads products from the backend.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
}

// OrderGateway submits and reads orders. ConfirmOrder must not be retried.
type OrderGateway interface {
	ConfirmOrder(ctx context.Context, token string, req entity.OrderRequest) (*entity.OrderConfirmation, error)
	ListOrders(ctx context.Context, token string) ([]entity.OrderRecord, error)
	GetOrder(ctx context.Context, token, orderID string) (*entity.OrderRecord, error)
}

// AccountGateway exchanges credentials for an access token.
type AccountGateway interface {
	Login(ctx context.Context, creds entity.LoginCredentials) (*entity.AuthInfo, error)
	Register(ctx context.Context, reg entity.Registration) (*entity.AuthInfo, error)
}

// RenewalGateway reads renewal invoices and starts hosted renewal payments.
type RenewalGateway interface {
	ListInvoices(ctx context.Context, token string) ([]entity.RenewalInvoice, error)
	GetInvoice(ctx context.Context, token, invoiceID string) (*entity.RenewalInvoice, error)
	StartStripeRenewal(ctx context.Context, token, invoiceID, orderID string) (checkoutURL string, err error)
}

// LicenseGateway activates distributor product keys.
type LicenseGateway interface {
	Activate(ctx context.Context, token, productKey string) (*entity.LicenseActivation, error)
}

// MailboxChecker asks the mail provider whether a mailbox address is free.
type MailboxChecker interface {
	Available(ctx context.Context, address string) (bool, error)
}
