package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/domainname"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/model"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/order"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/pricing"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

const orderStatusDue = "due"

// CheckoutInput is one order submission from the checkout form.
type CheckoutInput struct {
	SessionID      string
	IdempotencyKey string
	Auth           *entity.AuthInfo
	Domain         string
	Currency       string
	// PaymentType is "bank", or "stripe"/"online" for hosted card payment.
	PaymentType   string
	TermsAccepted bool
}

// CheckoutResult is the confirmed order. PaymentURL is set for online
// payments; BankDetails for bank transfers.
type CheckoutResult struct {
	OrderNumber    string              `json:"order_number"`
	IdempotencyKey string              `json:"idempotency_key"`
	PaymentType    entity.PaymentType  `json:"payment_type"`
	PaymentURL     string              `json:"payment_url,omitempty"`
	Message        string              `json:"message,omitempty"`
	Domain         string              `json:"domain"`
	TotalEUR       decimal.Decimal     `json:"total_eur"`
	Total          pricing.Conversion  `json:"total"`
	BankDetails    *entity.BankDetails `json:"bank_details,omitempty"`
	Replayed       bool                `json:"replayed"`
}

// CheckoutUsecase validates the cart, submits the order exactly once per
// idempotency key and removes the ordered lines only after a confirmed
// success. A key is bound to the session and user that first used it.
type CheckoutUsecase struct {
	cart     *CartUsecase
	rates    RateProvider
	orders   provider.OrderGateway
	attempts repository.CheckoutAttemptRepository
	events   provider.EventPublisher
	numbers  *order.NumberGenerator
	bank     entity.BankDetails
	locks    *sessionLocks
	logger   *zap.Logger
}

// NewCheckoutUsecase creates the checkout usecase
func NewCheckoutUsecase(
	cart *CartUsecase,
	rates RateProvider,
	orders provider.OrderGateway,
	attempts repository.CheckoutAttemptRepository,
	events provider.EventPublisher,
	numbers *order.NumberGenerator,
	bank entity.BankDetails,
	logger *zap.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		cart:     cart,
		rates:    rates,
		orders:   orders,
		attempts: attempts,
		events:   events,
		numbers:  numbers,
		bank:     bank,
		locks:    newSessionLocks(),
		logger:   logger,
	}
}

// ParsePaymentType maps the form value to the backend payment type.
func ParsePaymentType(v string) (entity.PaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "bank":
		return entity.PaymentBank, nil
	case "stripe", "online":
		return entity.PaymentOnline, nil
	default:
		return "", domainErrors.ErrUnsupportedPayment
	}
}

type validatedOrder struct {
	items       []entity.CartItem
	domain      string
	currency    string
	rate        decimal.Decimal
	paymentType entity.PaymentType
	totalEUR    decimal.Decimal
	total       pricing.Conversion
}

// validate runs every local check, in order, before anything is sent.
func (u *CheckoutUsecase) validate(ctx context.Context, in CheckoutInput) (*validatedOrder, error) {
	items, err := u.cart.Items(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	if !in.TermsAccepted {
		return nil, domainErrors.ErrTermsNotAccepted
	}

	domain, err := domainname.Validate(in.Domain)
	if err != nil {
		if errors.Is(err, domainname.ErrEmpty) {
			return nil, domainErrors.ErrDomainRequired
		}
		return nil, domainErrors.ErrDomainInvalid
	}

	paymentType, err := ParsePaymentType(in.PaymentType)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if _, ok := item.SelectedPeriod(); !ok {
			return nil, domainErrors.ErrPeriodMissing
		}
	}

	table, err := u.rates.Table(ctx)
	if err != nil {
		return nil, err
	}
	currency := pricing.NormalizeCode(in.Currency)
	rate, ok := table.Rate(currency)
	if !ok || !rate.IsPositive() {
		return nil, &domainErrors.CurrencyError{Currency: currency}
	}

	totalEUR := pricing.CartTotal(items)
	total := pricing.Convert(totalEUR, currency, table)
	total.Amount = pricing.Round(total.Amount)

	return &validatedOrder{
		items:       items,
		domain:      domain,
		currency:    currency,
		rate:        rate,
		paymentType: paymentType,
		totalEUR:    totalEUR,
		total:       total,
	}, nil
}

func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.Auth == nil || in.Auth.AccessToken == "" {
		return nil, domainErrors.ErrNotLoggedIn
	}

	unlock, ok := u.locks.TryLock(in.SessionID)
	if !ok {
		return nil, domainErrors.ErrCheckoutInProgress
	}
	defer unlock()

	// a confirmed key replays even though the cart is already empty
	if in.IdempotencyKey != "" {
		stored, err := u.attempts.Get(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			if !stored.OwnedBy(in.SessionID, in.Auth.User.ID) {
				return nil, u.conflict(in, stored)
			}
			switch stored.Status {
			case model.AttemptConfirmed:
				return u.replay(stored), nil
			case model.AttemptUnknown:
				return nil, domainErrors.ErrOutcomeUnknown
			}
		}
	} else {
		in.IdempotencyKey = uuid.NewString()
	}

	v, err := u.validate(ctx, in)
	if err != nil {
		u.logger.Info("Checkout rejected",
			zap.String("session_id", in.SessionID),
			zap.Error(err))
		return nil, err
	}

	orderNumber, err := u.numbers.Next()
	if err != nil {
		return nil, err
	}

	attempt, err := u.reserve(ctx, in, v, orderNumber)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptConfirmed {
		return u.replay(attempt), nil
	}

	req := entity.OrderRequest{
		OrderNumber:        attempt.OrderNumber,
		Country:            in.Auth.User.Country,
		CurrencyName:       v.currency,
		CurrencyRate:       v.rate,
		Currency:           v.currency,
		Rate:               v.rate,
		PaymentType:        v.paymentType,
		TermsAndConditions: true,
		Status:             orderStatusDue,
		Domain:             v.domain,
		Products:           pricing.BuildOrderLines(v.items),
	}
	if v.paymentType == entity.PaymentOnline {
		req.PaymentMethod = "stripe"
	}

	// the outcome must be recorded even if the caller goes away
	submitCtx := context.WithoutCancel(ctx)
	conf, err := u.orders.ConfirmOrder(submitCtx, in.Auth.AccessToken, req)
	if err != nil {
		return nil, u.fail(submitCtx, in, attempt, err)
	}

	u.complete(submitCtx, in.IdempotencyKey, model.AttemptOutcome{
		Status:      model.AttemptConfirmed,
		OrderNumber: conf.OrderNumber,
		PaymentURL:  conf.PaymentURL,
		Message:     conf.Message,
	})
	if v.paymentType == entity.PaymentOnline && conf.PaymentURL == "" {
		u.logger.Warn("Online order confirmed without payment url",
			zap.String("order_number", conf.OrderNumber))
	}

	if _, err := u.cart.RemoveLines(submitCtx, in.SessionID, v.items); err != nil {
		u.logger.Error("Failed to remove ordered lines after checkout",
			zap.String("session_id", in.SessionID),
			zap.Error(err))
	}

	event := provider.OrderConfirmedEvent{
		OrderNumber: conf.OrderNumber,
		SessionID:   in.SessionID,
		UserID:      in.Auth.User.ID,
		PaymentType: v.paymentType,
		Currency:    v.currency,
		Domain:      v.domain,
		Lines:       req.Products,
	}
	if err := u.events.PublishOrderConfirmed(submitCtx, event); err != nil {
		u.logger.Warn("Failed to publish order event",
			zap.String("order_number", conf.OrderNumber),
			zap.Error(err))
	}

	u.logger.Info("Order confirmed",
		zap.String("session_id", in.SessionID),
		zap.String("order_number", conf.OrderNumber),
		zap.String("payment_type", string(v.paymentType)),
		zap.String("currency", v.currency),
		zap.Int("lines", len(req.Products)))

	result := &CheckoutResult{
		OrderNumber:    conf.OrderNumber,
		IdempotencyKey: in.IdempotencyKey,
		PaymentType:    v.paymentType,
		PaymentURL:     conf.PaymentURL,
		Message:        conf.Message,
		Domain:         v.domain,
		TotalEUR:       v.totalEUR,
		Total:          v.total,
	}
	if v.paymentType == entity.PaymentBank {
		bank := u.bank
		result.BankDetails = &bank
	}
	return result, nil
}

// reserve writes the pending ledger row or resolves an existing one.
func (u *CheckoutUsecase) reserve(ctx context.Context, in CheckoutInput, v *validatedOrder, orderNumber string) (*model.CheckoutAttempt, error) {
	attempt := &model.CheckoutAttempt{
		IdempotencyKey: in.IdempotencyKey,
		SessionID:      in.SessionID,
		UserID:         in.Auth.User.ID,
		OrderNumber:    orderNumber,
		PaymentType:    string(v.paymentType),
		Currency:       v.currency,
		Domain:         v.domain,
	}
	stored, created, err := u.attempts.Reserve(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if created {
		return stored, nil
	}
	if !stored.OwnedBy(in.SessionID, in.Auth.User.ID) {
		return nil, u.conflict(in, stored)
	}

	switch stored.Status {
	case model.AttemptConfirmed:
		return stored, nil
	case model.AttemptPending:
		return nil, domainErrors.ErrCheckoutInProgress
	case model.AttemptRejected:
		ok, err := u.attempts.Retry(ctx, attempt)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domainErrors.ErrCheckoutInProgress
		}
		stored.Status = model.AttemptPending
		stored.PaymentType = attempt.PaymentType
		stored.Currency = attempt.Currency
		stored.Domain = attempt.Domain
		stored.Message = ""
		return stored, nil
	default:
		return nil, domainErrors.ErrOutcomeUnknown
	}
}

func (u *CheckoutUsecase) conflict(in CheckoutInput, stored *model.CheckoutAttempt) error {
	u.logger.Warn("Idempotency key used by another checkout",
		zap.String("session_id", in.SessionID),
		zap.String("user_id", in.Auth.User.ID),
		zap.String("owner_session_id", stored.SessionID),
		zap.String("idempotency_key", in.IdempotencyKey))
	return domainErrors.ErrIdempotencyKeyConflict
}

// refused reports whether the backend certainly did not create the order:
// the request was never sent, or it was answered with a readable refusal.
// An unreadable 2xx may still have created it.
func refused(err error) bool {
	if !domainErrors.WasSent(err) {
		return true
	}
	status := domainErrors.StatusOf(err)
	if status == 0 || status >= http.StatusInternalServerError {
		return false
	}
	return !domainErrors.IsMalformed(err)
}

// fail records a failed submission. Refused submissions leave the key
// retryable; lost or unreadable answers do not.
func (u *CheckoutUsecase) fail(ctx context.Context, in CheckoutInput, attempt *model.CheckoutAttempt, err error) error {
	status := domainErrors.StatusOf(err)
	rejected := refused(err)

	var be *domainErrors.BackendError
	message := err.Error()
	if errors.As(err, &be) && be.Message != "" {
		message = be.Message
	}

	if rejected {
		u.complete(ctx, in.IdempotencyKey, model.AttemptOutcome{Status: model.AttemptRejected, Message: message})
		u.logger.Warn("Order rejected",
			zap.String("session_id", in.SessionID),
			zap.String("order_number", attempt.OrderNumber),
			zap.Int("status", status),
			zap.Error(err))
		if !domainErrors.WasSent(err) {
			return err
		}
		return &domainErrors.OrderRejectedError{OrderNumber: attempt.OrderNumber, Message: be.Message}
	}

	u.complete(ctx, in.IdempotencyKey, model.AttemptOutcome{Status: model.AttemptUnknown, Message: message})
	u.logger.Error("Order submission outcome unknown",
		zap.String("session_id", in.SessionID),
		zap.String("order_number", attempt.OrderNumber),
		zap.String("idempotency_key", in.IdempotencyKey),
		zap.Error(err))
	return fmt.Errorf("order %s: %w", attempt.OrderNumber, err)
}

func (u *CheckoutUsecase) complete(ctx context.Context, key string, outcome model.AttemptOutcome) {
	if err := u.attempts.Complete(ctx, key, outcome); err != nil {
		u.logger.Error("Failed to record checkout outcome",
			zap.String("idempotency_key", key),
			zap.String("status", string(outcome.Status)),
			zap.Error(err))
	}
}

func (u *CheckoutUsecase) replay(stored *model.CheckoutAttempt) *CheckoutResult {
	u.logger.Info("Replaying confirmed checkout",
		zap.String("idempotency_key", stored.IdempotencyKey),
		zap.String("order_number", stored.OrderNumber))

	result := &CheckoutResult{
		OrderNumber:    stored.OrderNumber,
		IdempotencyKey: stored.IdempotencyKey,
		PaymentType:    entity.PaymentType(stored.PaymentType),
		PaymentURL:     stored.PaymentURL,
		Message:        stored.Message,
		Domain:         stored.Domain,
		Replayed:       true,
	}
	if result.PaymentType == entity.PaymentBank {
		bank := u.bank
		result.BankDetails = &bank
	}
	return result
}
