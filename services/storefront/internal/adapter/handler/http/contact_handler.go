package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	SkypeID string `json:"skype_id"`
	Message string `json:"message" validate:"required"`
}

type ContactHandler struct {
	contact *usecase.ContactUsecase
	logger  *zap.Logger
}

func NewContactHandler(contact *usecase.ContactUsecase, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, logger: logger}
}

func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.contact.Submit(c.Request().Context(), entity.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Phone:   req.Phone,
		Country: req.Country,
		SkypeID: req.SkypeID,
		Message: req.Message,
	})
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "Thank you, we will get back to you shortly"})
}

func (h *ContactHandler) Countries(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"countries": h.contact.Countries()})
}
