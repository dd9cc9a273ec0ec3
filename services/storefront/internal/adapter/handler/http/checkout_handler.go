package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/bitss-one/storefront-monorepo/pkg/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/domainname"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/auth"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/session"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

// HeaderIdempotencyKey carries the client chosen key of a checkout attempt.
const HeaderIdempotencyKey = "Idempotency-Key"

// checkoutRequest is not tag-validated; the usecase checks fields in a
// fixed order after the cart.
type checkoutRequest struct {
	Domain        string `json:"domain"`
	Currency      string `json:"currency"`
	PaymentType   string `json:"payment_type"`
	TermsAccepted bool   `json:"terms_and_conditions"`
}

type domainCheckRequest struct {
	Domain string `json:"domain" validate:"required,domainname"`
}

type CheckoutHandler struct {
	checkout *usecase.CheckoutUsecase
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout *usecase.CheckoutUsecase, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	info, ok := auth.FromContext(c)
	if !ok {
		return apperrors.Unauthenticated("please log in to continue", nil)
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body", err)
	}

	result, err := h.checkout.Checkout(c.Request().Context(), usecase.CheckoutInput{
		SessionID:      session.ID(c),
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
		Auth:           info,
		Domain:         req.Domain,
		Currency:       req.Currency,
		PaymentType:    req.PaymentType,
		TermsAccepted:  req.TermsAccepted,
	})
	if err != nil {
		return toAppError(err)
	}

	c.Response().Header().Set(HeaderIdempotencyKey, result.IdempotencyKey)
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, result)
}

// CheckDomain normalizes a domain for the checkout form.
func (h *CheckoutHandler) CheckDomain(c echo.Context) error {
	var req domainCheckRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"domain": domainname.Normalize(req.Domain), "valid": true})
}
