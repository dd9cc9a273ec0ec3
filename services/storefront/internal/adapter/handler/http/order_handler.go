package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/auth"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

// OrderHandler serves order history. Routes sit behind RequireLogin.
type OrderHandler struct {
	orders *usecase.OrderUsecase
	logger *zap.Logger
}

func NewOrderHandler(orders *usecase.OrderUsecase, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	info, _ := auth.FromContext(c)

	orders, err := h.orders.List(c.Request().Context(), info.AccessToken)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	info, _ := auth.FromContext(c)

	order, err := h.orders.Get(c.Request().Context(), info.AccessToken, c.Param("id"))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, order)
}
