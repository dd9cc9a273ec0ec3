package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/auth"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type RenewalHandler struct {
	renewals *usecase.RenewalUsecase
	logger   *zap.Logger
}

func NewRenewalHandler(renewals *usecase.RenewalUsecase, logger *zap.Logger) *RenewalHandler {
	return &RenewalHandler{renewals: renewals, logger: logger}
}

// ListInvoices accepts ?status=paid|pending.
func (h *RenewalHandler) ListInvoices(c echo.Context) error {
	info, _ := auth.FromContext(c)

	invoices, stats, err := h.renewals.List(c.Request().Context(), info.AccessToken, usecase.RenewalFilter(c.QueryParam("status")))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": invoices, "stats": stats})
}

func (h *RenewalHandler) GetInvoice(c echo.Context) error {
	info, _ := auth.FromContext(c)

	view, err := h.renewals.Get(c.Request().Context(), info.AccessToken, c.Param("invoiceId"))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *RenewalHandler) PayWithStripe(c echo.Context) error {
	info, _ := auth.FromContext(c)
	invoiceID := c.Param("invoiceId")

	url, err := h.renewals.PayWithStripe(c.Request().Context(), info.AccessToken, invoiceID)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"invoice_id": invoiceID, "checkout_url": url})
}
