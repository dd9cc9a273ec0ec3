package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type RatesHandler struct {
	rates usecase.RateProvider
}

func NewRatesHandler(rates usecase.RateProvider) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// GetRates returns the cached EUR rate table.
func (h *RatesHandler) GetRates(c echo.Context) error {
	table, err := h.rates.Table(c.Request().Context())
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, table)
}
