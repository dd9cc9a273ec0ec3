package errors

import (
	"errors"
	"fmt"
)

// Checkout validation errors. All of them are raised before any order is sent.
var (
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrTermsNotAccepted   = errors.New("please agree to the terms and conditions")
	ErrDomainRequired     = errors.New("please enter your domain name")
	ErrDomainInvalid      = errors.New("please enter a valid domain name")
	ErrUnsupportedPayment = errors.New("unsupported payment type")
	ErrRatesUnavailable   = errors.New("currency rates are unavailable, please try again later")
	ErrPeriodMissing      = errors.New("a cart item has no subscription period")
	ErrNotLoggedIn        = errors.New("please log in to continue")
)

// ErrCheckoutInProgress is returned when the same session or idempotency key
// already has a submission in flight.
var ErrCheckoutInProgress = errors.New("a checkout for this cart is already in progress")

// ErrIdempotencyKeyConflict is returned when a key belongs to another
// session or user. Nothing about the other attempt is revealed.
var ErrIdempotencyKeyConflict = errors.New("this idempotency key is already used by another checkout")

// CurrencyError reports a currency missing from the rate table.
type CurrencyError struct {
	Currency string
}

func (e *CurrencyError) Error() string {
	return fmt.Sprintf("no exchange rate for currency %s", e.Currency)
}

// OrderRejectedError is a non-success answer from the backend to an order
// submission. The cart is kept.
type OrderRejectedError struct {
	OrderNumber string
	Message     string
}

func (e *OrderRejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order %s was not accepted", e.OrderNumber)
	}
	return fmt.Sprintf("order %s was not accepted: %s", e.OrderNumber, e.Message)
}

// ErrOutcomeUnknown is returned when an earlier submission with the same
// idempotency key got no answer from the backend. The order may exist, so
// it is not resubmitted.
var ErrOutcomeUnknown = errors.New("the previous order submission has an unknown outcome, please check your orders before retrying")
