package http

import (
	"errors"
	"net/http"

	apperrors "github.com/bitss-one/storefront-monorepo/pkg/errors"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
)

var (
	badRequestErrors = []error{
		domainErrors.ErrEmptyCart,
		domainErrors.ErrTermsNotAccepted,
		domainErrors.ErrDomainRequired,
		domainErrors.ErrDomainInvalid,
		domainErrors.ErrUnsupportedPayment,
		domainErrors.ErrPeriodMissing,
		domainErrors.ErrPeriodNotFound,
		domainErrors.ErrVariantNotFound,
		domainErrors.ErrProductKeyRequired,
		domainErrors.ErrForbiddenContent,
		domainErrors.ErrUnknownCountry,
		domainErrors.ErrInvoiceOrderMissing,
	}
	conflictErrors = []error{
		domainErrors.ErrDuplicateItem,
		domainErrors.ErrProductUnavailable,
		domainErrors.ErrCheckoutInProgress,
		domainErrors.ErrIdempotencyKeyConflict,
		domainErrors.ErrOutcomeUnknown,
		domainErrors.ErrMailboxTaken,
		domainErrors.ErrInvoicePaid,
	}
	unauthenticatedErrors = []error{
		domainErrors.ErrNotLoggedIn,
		domainErrors.ErrInvalidCredentials,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// toAppError maps domain and backend errors to pkg/errors codes. The
// message of the returned error is what the customer sees.
func toAppError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case isAny(err, badRequestErrors):
		return apperrors.InvalidArgument(rootMessage(err, badRequestErrors), err)
	case isAny(err, conflictErrors):
		return apperrors.Conflict(rootMessage(err, conflictErrors), err)
	case isAny(err, unauthenticatedErrors):
		return apperrors.Unauthenticated(rootMessage(err, unauthenticatedErrors), err)
	case errors.Is(err, domainErrors.ErrItemNotFound):
		return apperrors.NotFound(domainErrors.ErrItemNotFound.Error(), err)
	case errors.Is(err, domainErrors.ErrRatesUnavailable):
		return apperrors.Unavailable(domainErrors.ErrRatesUnavailable.Error(), err)
	}

	var currencyErr *domainErrors.CurrencyError
	if errors.As(err, &currencyErr) {
		return apperrors.InvalidArgument(currencyErr.Error(), err)
	}

	var rejected *domainErrors.OrderRejectedError
	if errors.As(err, &rejected) {
		return apperrors.InvalidArgument(rejected.Error(), err)
	}

	var backendErr *domainErrors.BackendError
	if errors.As(err, &backendErr) {
		return fromBackendError(backendErr, err)
	}

	return err
}

func fromBackendError(be *domainErrors.BackendError, err error) error {
	if be.Network() {
		return apperrors.Unavailable("the store backend is unreachable, please try again later", err)
	}

	if be.Malformed {
		return apperrors.Upstream("the store backend sent an unreadable answer, please check your orders before retrying", err)
	}

	message := be.Message
	if message == "" {
		message = http.StatusText(be.StatusCode)
	}
	switch {
	case be.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(message, err)
	case be.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthenticated(domainErrors.ErrNotLoggedIn.Error(), err)
	case be.StatusCode >= http.StatusInternalServerError:
		return apperrors.Upstream("the store backend failed, please try again later", err)
	default:
		return apperrors.NewAppError(apperrors.FromHTTPStatus(be.StatusCode), message, err)
	}
}

// rootMessage returns the message of the sentinel err matched, dropping any
// wrapping context.
func rootMessage(err error, targets []error) string {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
