package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/auth"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type activateRequest struct {
	ProductKey string `json:"product_key"`
}

type LicenseHandler struct {
	licenses *usecase.LicenseUsecase
	logger   *zap.Logger
}

func NewLicenseHandler(licenses *usecase.LicenseUsecase, logger *zap.Logger) *LicenseHandler {
	return &LicenseHandler{licenses: licenses, logger: logger}
}

// Activate returns 200 with success=false when the backend refuses the key.
func (h *LicenseHandler) Activate(c echo.Context) error {
	info, _ := auth.FromContext(c)

	var req activateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.licenses.Activate(c.Request().Context(), info.AccessToken, req.ProductKey)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, result)
}
