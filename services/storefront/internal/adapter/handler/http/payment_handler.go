package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

// PaymentHandler serves the pages the payment processor redirects back to.
type PaymentHandler struct {
	payments *usecase.PaymentUsecase
}

func NewPaymentHandler(payments *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Success reads ?session_id= set by the processor's success URL template.
func (h *PaymentHandler) Success(c echo.Context) error {
	return c.JSON(http.StatusOK, h.payments.Success(c.Request().Context(), c.QueryParam("session_id")))
}

func (h *PaymentHandler) Cancel(c echo.Context) error {
	return c.JSON(http.StatusOK, h.payments.Cancel())
}
