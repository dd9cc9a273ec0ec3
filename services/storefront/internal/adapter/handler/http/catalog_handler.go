package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type CatalogHandler struct {
	catalog *usecase.CatalogUsecase
	logger  *zap.Logger
}

func NewCatalogHandler(catalog *usecase.CatalogUsecase, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListProducts returns the category-wise catalog, optionally filtered by
// ?q= and ?category=.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter := usecase.CatalogFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
	}

	categories, err := h.catalog.ListCategories(c.Request().Context(), filter)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, product)
}
