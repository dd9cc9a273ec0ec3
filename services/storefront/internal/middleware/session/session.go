// Package session gives every visitor a stable session id carried in a
// signed cookie. Carts and logins are stored server side under that id.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/pkg/logger"
)

const (
	// CookieName is the session cookie.
	CookieName = "bitss_session"

	idValue = "sid"
)

// NewCookieStore creates the signed cookie store. The cookie only holds the
// session id.
func NewCookieStore(secret string, secure bool, maxAge time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Middleware installs the cookie store and resolves the session id. A
// missing or tampered cookie starts a new session instead of failing the
// request.
func Middleware(store sessions.Store, log *zap.Logger) echo.MiddlewareFunc {
	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := echosession.Get(CookieName, c)
			if err != nil {
				if sess == nil {
					return err
				}
				log.Warn("Invalid session cookie, starting a new session",
					zap.String("ip", c.RealIP()),
					zap.Error(err))
			}

			id, ok := sess.Values[idValue].(string)
			if !ok || id == "" {
				id = uuid.NewString()
				sess.Values[idValue] = id
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					log.Error("Failed to save session cookie", zap.Error(err))
					return err
				}
			}

			c.Set(logger.SessionIDKey, id)
			return next(c)
		}
	}

	contrib := echosession.Middleware(store)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return contrib(resolve(next))
	}
}

// ID returns the session id resolved by Middleware, or "".
func ID(c echo.Context) string {
	id, _ := c.Get(logger.SessionIDKey).(string)
	return id
}
