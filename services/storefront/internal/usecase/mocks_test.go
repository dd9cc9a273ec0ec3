package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// MockCatalog is a mock implementation of provider.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockCatalog) ListCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

// MockOrderGateway is a mock implementation of provider.OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) ConfirmOrder(ctx context.Context, token string, req entity.OrderRequest) (*entity.OrderConfirmation, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderConfirmation), args.Error(1)
}

func (m *MockOrderGateway) ListOrders(ctx context.Context, token string) ([]entity.OrderRecord, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderRecord), args.Error(1)
}

func (m *MockOrderGateway) GetOrder(ctx context.Context, token, orderID string) (*entity.OrderRecord, error) {
	args := m.Called(ctx, token, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderRecord), args.Error(1)
}

// MockAccountGateway is a mock implementation of provider.AccountGateway
type MockAccountGateway struct {
	mock.Mock
}

func (m *MockAccountGateway) Login(ctx context.Context, creds entity.LoginCredentials) (*entity.AuthInfo, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthInfo), args.Error(1)
}

func (m *MockAccountGateway) Register(ctx context.Context, reg entity.Registration) (*entity.AuthInfo, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthInfo), args.Error(1)
}

// MockMailboxChecker is a mock implementation of provider.MailboxChecker
type MockMailboxChecker struct {
	mock.Mock
}

func (m *MockMailboxChecker) Available(ctx context.Context, address string) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

// MockRenewalGateway is a mock implementation of provider.RenewalGateway
type MockRenewalGateway struct {
	mock.Mock
}

func (m *MockRenewalGateway) ListInvoices(ctx context.Context, token string) ([]entity.RenewalInvoice, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RenewalInvoice), args.Error(1)
}

func (m *MockRenewalGateway) GetInvoice(ctx context.Context, token, invoiceID string) (*entity.RenewalInvoice, error) {
	args := m.Called(ctx, token, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RenewalInvoice), args.Error(1)
}

func (m *MockRenewalGateway) StartStripeRenewal(ctx context.Context, token, invoiceID, orderID string) (string, error) {
	args := m.Called(ctx, token, invoiceID, orderID)
	return args.String(0), args.Error(1)
}

// MockLicenseGateway is a mock implementation of provider.LicenseGateway
type MockLicenseGateway struct {
	mock.Mock
}

func (m *MockLicenseGateway) Activate(ctx context.Context, token, productKey string) (*entity.LicenseActivation, error) {
	args := m.Called(ctx, token, productKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LicenseActivation), args.Error(1)
}

// MockRateSource is a mock implementation of provider.RateSource
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Latest(ctx context.Context) (*entity.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateTable), args.Error(1)
}

// MockRateProvider is a mock implementation of usecase.RateProvider
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Table(ctx context.Context) (*entity.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateTable), args.Error(1)
}

// MockEventPublisher is a mock implementation of provider.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderConfirmed(ctx context.Context, event provider.OrderConfirmedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockMailer is a mock implementation of provider.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, mail provider.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

// MockPaymentVerifier is a mock implementation of provider.PaymentVerifier
type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) VerifySession(ctx context.Context, sessionID string) (*provider.PaymentSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PaymentSession), args.Error(1)
}

// MockSessionStore is a mock implementation of repository.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	args := m.Called(ctx, sessionID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSessionStore) Set(ctx context.Context, sessionID, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, key, value, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID, key string) error {
	args := m.Called(ctx, sessionID, key)
	return args.Error(0)
}
