package auth

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/bitss-one/storefront-monorepo/pkg/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/session"
)

const authInfoKey = "auth_info"

// LoginResolver returns the login stored for a session.
type LoginResolver interface {
	Current(ctx context.Context, sessionID string) (*entity.AuthInfo, error)
}

// RequireLogin rejects requests whose session holds no valid login and
// exposes the login to handlers through FromContext.
func RequireLogin(resolver LoginResolver, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := session.ID(c)
			if sid == "" {
				return apperrors.Unauthenticated(domainErrors.ErrNotLoggedIn.Error(), nil)
			}

			info, err := resolver.Current(c.Request().Context(), sid)
			if err != nil {
				if errors.Is(err, domainErrors.ErrNotLoggedIn) {
					logger.Debug("Login required",
						zap.String("session_id", sid),
						zap.String("path", c.Request().URL.Path))
					return apperrors.Unauthenticated(err.Error(), err)
				}
				return apperrors.Wrap(err, "failed to load login")
			}

			c.Set(authInfoKey, info)
			return next(c)
		}
	}
}

// FromContext returns the login set by RequireLogin.
func FromContext(c echo.Context) (*entity.AuthInfo, bool) {
	info, ok := c.Get(authInfoKey).(*entity.AuthInfo)
	return info, ok && info != nil
}
