package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/session"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant"`
	PeriodID  string `json:"period_id"`
}

type selectPeriodRequest struct {
	Version  string `json:"version"`
	PeriodID string `json:"period_id" validate:"required"`
}

type summaryQuery struct {
	Currency string `query:"currency" json:"currency" validate:"omitempty,iso4217"`
}

// CartHandler serves the session cart. Adding needs no login.
type CartHandler struct {
	cart   *usecase.CartUsecase
	logger *zap.Logger
}

func NewCartHandler(cart *usecase.CartUsecase, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	items, err := h.cart.Items(c.Request().Context(), session.ID(c))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req addItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	sid := session.ID(c)
	item, err := h.cart.AddItem(ctx, sid, usecase.AddItemInput{
		ProductID: req.ProductID,
		Variant:   req.Variant,
		PeriodID:  req.PeriodID,
	})
	if err != nil {
		return toAppError(err)
	}

	count, err := h.cart.ItemCount(ctx, sid)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Added to cart",
		"item":    item,
		"count":   count,
	})
}

// RemoveItem removes the product version given by ?version=. Removing an
// item that is not in the cart still succeeds.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	sid := session.ID(c)

	removed, err := h.cart.RemoveItem(ctx, sid, c.Param("productId"), c.QueryParam("version"))
	if err != nil {
		return toAppError(err)
	}
	count, err := h.cart.ItemCount(ctx, sid)
	if err != nil {
		return toAppError(err)
	}

	message := "Removed from cart"
	if removed == 0 {
		message = "Item was not in your cart"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": message,
		"removed": removed,
		"count":   count,
	})
}

func (h *CartHandler) SelectPeriod(c echo.Context) error {
	var req selectPeriodRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.cart.SelectPeriod(c.Request().Context(), session.ID(c), c.Param("productId"), req.Version, req.PeriodID)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) Clear(c echo.Context) error {
	if err := h.cart.Clear(c.Request().Context(), session.ID(c)); err != nil {
		return toAppError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary prices the cart in ?currency= (EUR when empty).
func (h *CartHandler) Summary(c echo.Context) error {
	q := summaryQuery{Currency: strings.ToUpper(strings.TrimSpace(c.QueryParam("currency")))}
	if err := c.Validate(&q); err != nil {
		return err
	}

	summary, err := h.cart.Summary(c.Request().Context(), session.ID(c), q.Currency)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, summary)
}
