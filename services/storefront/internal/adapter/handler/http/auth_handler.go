package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/bitss-one/storefront-monorepo/pkg/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/session"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name          string `json:"name" validate:"required"`
	Username      string `json:"username" validate:"required,alphanum"`
	PersonalEmail string `json:"personal_email" validate:"required,email"`
	Country       string `json:"country" validate:"required"`
	Address       string `json:"address"`
	Password      string `json:"password" validate:"required,min=8"`
}

// AuthHandler logs customers in against the backend. Logging out keeps
// the cart.
type AuthHandler struct {
	auth      *usecase.AuthUsecase
	countries usecase.CountryDirectory
	logger    *zap.Logger
}

func NewAuthHandler(auth *usecase.AuthUsecase, countries usecase.CountryDirectory, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, countries: countries, logger: logger}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	info, err := h.auth.Login(c.Request().Context(), session.ID(c), entity.LoginCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": info.User})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	country, ok := h.countries.Lookup(req.Country)
	if !ok {
		return apperrors.InvalidArgument("unknown country", nil)
	}

	info, err := h.auth.Register(c.Request().Context(), session.ID(c), entity.Registration{
		Name:          req.Name,
		Username:      req.Username,
		PersonalEmail: req.PersonalEmail,
		Country:       country.Name,
		Address:       req.Address,
		Password:      req.Password,
	})
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"user":      info.User,
		"logged_in": info.AccessToken != "",
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), session.ID(c)); err != nil {
		return toAppError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	info, err := h.auth.Current(c.Request().Context(), session.ID(c))
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": info.User})
}

// MailboxAvailable answers ?name= for the registration form.
func (h *AuthHandler) MailboxAvailable(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return apperrors.InvalidArgument("name is required", nil)
	}

	free, err := h.auth.MailboxAvailable(c.Request().Context(), name)
	if err != nil {
		return toAppError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"name": name, "available": free})
}
