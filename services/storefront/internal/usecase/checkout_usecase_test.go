package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/repository"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/model"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/order"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

var testBank = entity.BankDetails{BankName: "LCL Bank France", IBAN: "FR62 3000 2030 3700 0007 3125 M63", BIC: "CRLYFRPP"}

type checkoutFixture struct {
	*cartFixture
	orders   *MockOrderGateway
	attempts repository.CheckoutAttemptRepository
	events   *MockEventPublisher
	checkout *usecase.CheckoutUsecase
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	f := &checkoutFixture{
		cartFixture: newCartFixture(t),
		orders:      new(MockOrderGateway),
		attempts:    adapterRepo.NewMemoryCheckoutAttemptRepository(),
		events:      new(MockEventPublisher),
	}
	numbers := order.NewNumberGenerator(func() time.Time {
		return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	})
	f.checkout = usecase.NewCheckoutUsecase(f.cart, f.rates, f.orders, f.attempts, f.events, numbers, testBank, zap.NewNop())
	return f
}

// fillCart adds the two reference lines: 108 EUR and 105 EUR.
func (f *checkoutFixture) fillCart(t *testing.T, ctx context.Context) {
	f.catalog.On("GetProduct", mock.Anything, "a").Return(testProduct("a", "10", yearly("pa", "10", entity.DiscountPercent)), nil)
	f.catalog.On("GetProduct", mock.Anything, "b").Return(testProduct("b", "10", yearly("pb", "15", entity.DiscountFlat)), nil)
	_, err := f.cart.AddItem(ctx, "s1", usecase.AddItemInput{ProductID: "a"})
	require.NoError(t, err)
	_, err = f.cart.AddItem(ctx, "s1", usecase.AddItemInput{ProductID: "b"})
	require.NoError(t, err)
}

func (f *checkoutFixture) withRates() {
	f.rates.On("Table", mock.Anything).Return(&entity.RateTable{
		Base:  "EUR",
		Rates: map[string]decimal.Decimal{"EUR": decimal.NewFromInt(1), "USD": dec("1.08")},
	}, nil)
}

func testAuth() *entity.AuthInfo {
	return &entity.AuthInfo{AccessToken: "token", User: entity.User{ID: "u1", Country: "FR"}}
}

func validInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		SessionID:     "s1",
		Auth:          testAuth(),
		Domain:        "https://www.Example.com/shop",
		Currency:      "usd",
		PaymentType:   "bank",
		TermsAccepted: true,
	}
}

func TestParsePaymentType(t *testing.T) {
	tests := []struct {
		in      string
		want    entity.PaymentType
		wantErr bool
	}{
		{"", entity.PaymentBank, false},
		{"bank", entity.PaymentBank, false},
		{"Stripe", entity.PaymentOnline, false},
		{"online", entity.PaymentOnline, false},
		{"paypal", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := usecase.ParsePaymentType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainErrors.ErrUnsupportedPayment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckoutUsecase_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		empty   bool
		noRates bool
		rateErr error
		mutate  func(*usecase.CheckoutInput)
		check   func(t *testing.T, err error)
	}{
		{
			name:   "empty cart wins over every other problem",
			empty:  true,
			mutate: func(in *usecase.CheckoutInput) { in.TermsAccepted = false; in.Domain = "" },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrEmptyCart) },
		},
		{
			name:   "terms before domain",
			mutate: func(in *usecase.CheckoutInput) { in.TermsAccepted = false; in.Domain = "" },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrTermsNotAccepted) },
		},
		{
			name:   "missing domain",
			mutate: func(in *usecase.CheckoutInput) { in.Domain = "  " },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrDomainRequired) },
		},
		{
			name:   "invalid domain",
			mutate: func(in *usecase.CheckoutInput) { in.Domain = "not a domain" },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrDomainInvalid) },
		},
		{
			name:   "unsupported payment",
			mutate: func(in *usecase.CheckoutInput) { in.PaymentType = "paypal" },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrUnsupportedPayment) },
		},
		{
			name:    "rates unavailable",
			rateErr: domainErrors.ErrRatesUnavailable,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrRatesUnavailable) },
		},
		{
			name:   "currency missing from table",
			mutate: func(in *usecase.CheckoutInput) { in.Currency = "XYZ" },
			check: func(t *testing.T, err error) {
				var ce *domainErrors.CurrencyError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "XYZ", ce.Currency)
			},
		},
		{
			name:   "not logged in",
			mutate: func(in *usecase.CheckoutInput) { in.Auth = nil },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, domainErrors.ErrNotLoggedIn) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			if !tt.empty {
				f.fillCart(t, ctx)
			}
			if tt.rateErr != nil {
				f.rates.On("Table", mock.Anything).Return(nil, tt.rateErr)
			} else {
				f.withRates()
			}

			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			_, err := f.checkout.Checkout(ctx, in)
			require.Error(t, err)
			tt.check(t, err)

			f.orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything)
			count, _ := f.cart.ItemCount(ctx, "s1")
			if !tt.empty {
				assert.Equal(t, 2, count, "cart is kept")
			}
		})
	}
}

func TestCheckoutUsecase_PeriodMissing(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.withRates()
	f.catalog.On("GetProduct", ctx, "bare").Return(testProduct("bare", "10"), nil)
	_, err := f.cart.AddItem(ctx, "s1", usecase.AddItemInput{ProductID: "bare"})
	require.NoError(t, err)

	_, err = f.checkout.Checkout(ctx, validInput())
	assert.ErrorIs(t, err, domainErrors.ErrPeriodMissing)
	f.orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_BankSuccess(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	numberPattern := regexp.MustCompile(`^BITSS181026[A-Z]{6}$`)
	var sent entity.OrderRequest
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.AnythingOfType("entity.OrderRequest")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(entity.OrderRequest) }).
		Return(&entity.OrderConfirmation{Message: "Order placed"}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.AnythingOfType("provider.OrderConfirmedEvent")).Return(nil).Once()

	result, err := f.checkout.Checkout(ctx, validInput())
	require.NoError(t, err)

	assert.Regexp(t, numberPattern, sent.OrderNumber)
	assert.Equal(t, "FR", sent.Country)
	assert.Equal(t, "USD", sent.Currency)
	assert.Equal(t, "USD", sent.CurrencyName)
	assert.True(t, dec("1.08").Equal(sent.CurrencyRate))
	assert.True(t, dec("1.08").Equal(sent.Rate))
	assert.Equal(t, entity.PaymentBank, sent.PaymentType)
	assert.Empty(t, sent.PaymentMethod)
	assert.True(t, sent.TermsAndConditions)
	assert.Equal(t, "due", sent.Status)
	assert.Equal(t, "example.com", sent.Domain)
	assert.Equal(t, []entity.OrderLine{{Product: "a", Period: 12}, {Product: "b", Period: 12}}, sent.Products)

	assert.Equal(t, sent.OrderNumber, result.OrderNumber)
	assert.NotEmpty(t, result.IdempotencyKey)
	assert.Equal(t, "example.com", result.Domain)
	assert.True(t, dec("213").Equal(result.TotalEUR))
	assert.True(t, dec("230.04").Equal(result.Total.Amount))
	require.NotNil(t, result.BankDetails)
	assert.Equal(t, "CRLYFRPP", result.BankDetails.BIC)
	assert.False(t, result.Replayed)

	count, _ := f.cart.ItemCount(ctx, "s1")
	assert.Zero(t, count, "cart is cleared after success")

	stored, err := f.attempts.Get(ctx, result.IdempotencyKey)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.AttemptConfirmed, stored.Status)

	f.orders.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestCheckoutUsecase_OnlinePayment(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.MatchedBy(func(req entity.OrderRequest) bool {
		return req.PaymentType == entity.PaymentOnline && req.PaymentMethod == "stripe"
	})).Return(&entity.OrderConfirmation{PaymentURL: "https://checkout.stripe.com/c/pay/cs_1"}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	in := validInput()
	in.PaymentType = "stripe"
	result, err := f.checkout.Checkout(ctx, in)
	require.NoError(t, err, "a failed event publish does not fail checkout")

	assert.Equal(t, entity.PaymentOnline, result.PaymentType)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", result.PaymentURL)
	assert.Nil(t, result.BankDetails)
	f.orders.AssertExpectations(t)
}

func TestCheckoutUsecase_ReplayConfirmed(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).
		Return(&entity.OrderConfirmation{Message: "ok"}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.IdempotencyKey = "key-1"
	first, err := f.checkout.Checkout(ctx, in)
	require.NoError(t, err)

	second, err := f.checkout.Checkout(ctx, in)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, "key-1", second.IdempotencyKey)
	require.NotNil(t, second.BankDetails)

	f.orders.AssertNumberOfCalls(t, "ConfirmOrder", 1)
}

func TestCheckoutUsecase_RejectedIsRetryable(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	var numbers []string
	capture := func(args mock.Arguments) {
		numbers = append(numbers, args.Get(2).(entity.OrderRequest).OrderNumber)
	}
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).Run(capture).
		Return(nil, domainErrors.NewStatusError("confirm order", 200, "Domain is already taken")).Once()
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).Run(capture).
		Return(&entity.OrderConfirmation{}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.IdempotencyKey = "key-2"
	_, err := f.checkout.Checkout(ctx, in)

	var rejected *domainErrors.OrderRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Domain is already taken", rejected.Message)
	count, _ := f.cart.ItemCount(ctx, "s1")
	assert.Equal(t, 2, count, "cart is kept after a rejection")

	stored, _ := f.attempts.Get(ctx, "key-2")
	require.NotNil(t, stored)
	assert.Equal(t, model.AttemptRejected, stored.Status)

	result, err := f.checkout.Checkout(ctx, in)
	require.NoError(t, err)
	require.Len(t, numbers, 2)
	assert.Equal(t, numbers[0], numbers[1], "a retried key reuses its order number")
	assert.Equal(t, numbers[0], result.OrderNumber)
	f.orders.AssertExpectations(t)
}

func TestCheckoutUsecase_LostAnswerIsNotResubmitted(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"network failure", domainErrors.NewNetworkError("confirm order", context.DeadlineExceeded)},
		{"server error", domainErrors.NewStatusError("confirm order", 502, "bad gateway")},
		{"unreadable success body", domainErrors.NewMalformedError("confirm order", 200, "unexpected response shape", errors.New("cannot unmarshal array"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newCheckoutFixture(t)
			f.fillCart(t, ctx)
			f.withRates()
			f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).Return(nil, tt.err).Once()

			in := validInput()
			in.IdempotencyKey = "key-3"
			_, err := f.checkout.Checkout(ctx, in)
			require.Error(t, err)
			var rejected *domainErrors.OrderRejectedError
			assert.False(t, errors.As(err, &rejected))

			count, _ := f.cart.ItemCount(ctx, "s1")
			assert.Equal(t, 2, count)

			stored, _ := f.attempts.Get(ctx, "key-3")
			require.NotNil(t, stored)
			assert.Equal(t, model.AttemptUnknown, stored.Status)

			_, err = f.checkout.Checkout(ctx, in)
			assert.ErrorIs(t, err, domainErrors.ErrOutcomeUnknown)
			f.orders.AssertNumberOfCalls(t, "ConfirmOrder", 1)
			f.events.AssertNotCalled(t, "PublishOrderConfirmed", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutUsecase_UnsentIsRetryable(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	unsent := domainErrors.NewUnsentError("confirm order", errors.New("circuit breaker is open"))
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).Return(nil, unsent).Once()
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).Return(&entity.OrderConfirmation{}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.IdempotencyKey = "key-4"
	_, err := f.checkout.Checkout(ctx, in)
	assert.ErrorIs(t, err, unsent)

	_, err = f.checkout.Checkout(ctx, in)
	require.NoError(t, err)
	f.orders.AssertExpectations(t)
}

func TestCheckoutUsecase_PendingKeyInProgress(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	_, created, err := f.attempts.Reserve(ctx, &model.CheckoutAttempt{
		IdempotencyKey: "key-5",
		SessionID:      "s1",
		UserID:         "u1",
		OrderNumber:    "BITSS181026AAAAAA",
	})
	require.NoError(t, err)
	require.True(t, created)

	in := validInput()
	in.IdempotencyKey = "key-5"
	_, err = f.checkout.Checkout(ctx, in)
	assert.ErrorIs(t, err, domainErrors.ErrCheckoutInProgress)
	f.orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_ConcurrentSessionCheckout(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&entity.OrderConfirmation{}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.Checkout(ctx, validInput())
		done <- err
	}()

	<-entered
	_, err := f.checkout.Checkout(ctx, validInput())
	assert.ErrorIs(t, err, domainErrors.ErrCheckoutInProgress)

	close(release)
	require.NoError(t, <-done)
	f.orders.AssertNumberOfCalls(t, "ConfirmOrder", 1)
}

func TestCheckoutUsecase_KeyBoundToOwner(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		session   string
		user      string
		firstErr  error
		firstConf *entity.OrderConfirmation
	}{
		{"confirmed key from another session", "s2", "u2", nil, &entity.OrderConfirmation{PaymentURL: "https://pay/a"}},
		{"confirmed key from another user", "s1", "u2", nil, &entity.OrderConfirmation{PaymentURL: "https://pay/a"}},
		{"rejected key from another session", "s2", "u2", domainErrors.NewStatusError("confirm order", 422, "Domain is already taken"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t)
			f.fillCart(t, ctx)
			f.withRates()
			f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).Return(tt.firstConf, tt.firstErr).Once()
			f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

			in := validInput()
			in.IdempotencyKey = "shared"
			in.PaymentType = "stripe"
			_, _ = f.checkout.Checkout(ctx, in)
			before, _ := f.attempts.Get(ctx, "shared")
			require.NotNil(t, before)

			other := in
			other.SessionID = tt.session
			other.Auth = &entity.AuthInfo{AccessToken: "token", User: entity.User{ID: tt.user, Country: "DE"}}
			result, err := f.checkout.Checkout(ctx, other)
			assert.ErrorIs(t, err, domainErrors.ErrIdempotencyKeyConflict)
			assert.Nil(t, result, "nothing of the other checkout is revealed")

			after, _ := f.attempts.Get(ctx, "shared")
			assert.Equal(t, before.Status, after.Status)
			f.orders.AssertNumberOfCalls(t, "ConfirmOrder", 1)
		})
	}
}

func TestCheckoutUsecase_RetryUsesNewOrderDetails(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()

	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).
		Return(nil, domainErrors.NewStatusError("confirm order", 422, "Domain is already taken")).Once()
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.MatchedBy(func(req entity.OrderRequest) bool {
		return req.PaymentType == entity.PaymentOnline && req.Domain == "other-site.org"
	})).Return(&entity.OrderConfirmation{PaymentURL: "https://pay"}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.IdempotencyKey = "key-6"
	_, err := f.checkout.Checkout(ctx, in)
	var rejected *domainErrors.OrderRejectedError
	require.ErrorAs(t, err, &rejected)

	in.PaymentType = "stripe"
	in.Domain = "other-site.org"
	in.Currency = "EUR"
	_, err = f.checkout.Checkout(ctx, in)
	require.NoError(t, err)

	replayed, err := f.checkout.Checkout(ctx, in)
	require.NoError(t, err)
	assert.True(t, replayed.Replayed)
	assert.Equal(t, entity.PaymentOnline, replayed.PaymentType)
	assert.Equal(t, "other-site.org", replayed.Domain)
	assert.Equal(t, "https://pay", replayed.PaymentURL)
	assert.Nil(t, replayed.BankDetails)

	stored, _ := f.attempts.Get(ctx, "key-6")
	require.NotNil(t, stored)
	assert.Equal(t, "EUR", stored.Currency)
	f.orders.AssertExpectations(t)
}

func TestCheckoutUsecase_KeepsLinesAddedDuringSubmission(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.fillCart(t, ctx)
	f.withRates()
	f.catalog.On("GetProduct", mock.Anything, "c").Return(testProduct("c", "10", yearly("pc", "0", entity.DiscountPercent)), nil)

	var addErr error
	f.orders.On("ConfirmOrder", mock.Anything, "token", mock.Anything).
		Run(func(mock.Arguments) {
			_, addErr = f.cart.AddItem(ctx, "s1", usecase.AddItemInput{ProductID: "c"})
		}).
		Return(&entity.OrderConfirmation{}, nil).Once()
	f.events.On("PublishOrderConfirmed", mock.Anything, mock.Anything).Return(nil)

	_, err := f.checkout.Checkout(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, addErr)

	items, err := f.cart.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1, "only the ordered lines are removed")
	assert.Equal(t, "c", items[0].ProductID)
}
