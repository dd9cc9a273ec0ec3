package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/bitss-one/storefront-monorepo/pkg/errors"
	"github.com/bitss-one/storefront-monorepo/pkg/logger"
	handlers "github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/handler/http"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/auth"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/session"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

// Usecases is everything the HTTP routes are served from.
type Usecases struct {
	Catalog   *usecase.CatalogUsecase
	Cart      *usecase.CartUsecase
	Checkout  *usecase.CheckoutUsecase
	Rates     usecase.RateProvider
	Auth      *usecase.AuthUsecase
	Orders    *usecase.OrderUsecase
	Renewals  *usecase.RenewalUsecase
	Licenses  *usecase.LicenseUsecase
	Payments  *usecase.PaymentUsecase
	Contact   *usecase.ContactUsecase
	Countries usecase.CountryDirectory
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	usecases *Usecases
}

func NewServer(cfg *config.Config, log *zap.Logger, usecases *Usecases, sessionStore sessions.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	validator, err := handlers.NewRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create request validator: %w", err)
	}
	e.Validator = validator

	// Middleware
	logger.WithEchoLogger(e, log)
	e.Use(middleware.Recover())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.Service.ClientURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, handlers.HeaderIdempotencyKey},
		ExposeHeaders:    []string{handlers.HeaderIdempotencyKey},
		AllowCredentials: true,
	}))
	if cfg.Server.HTTP.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(cfg.Server.HTTP.RateLimit)))
	}
	e.Use(session.Middleware(sessionStore, log))

	return &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		usecases: usecases,
	}, nil
}

func rateLimiterConfig(perSecond float64) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(perSecond),
				Burst:     int(perSecond*2) + 1,
				ExpiresIn: 3 * time.Minute,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.NewAppError(apperrors.ErrUnauthorized, "Unable to identify client", err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return apperrors.NewAppError(apperrors.ErrTooManyRequests, "Too many requests. Please try again later.", nil)
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	s.setupRoutes()
	return s.echo
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	if len(s.echo.Routes()) > 0 {
		return
	}

	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	u := s.usecases
	catalogHandler := handlers.NewCatalogHandler(u.Catalog, s.logger)
	cartHandler := handlers.NewCartHandler(u.Cart, s.logger)
	checkoutHandler := handlers.NewCheckoutHandler(u.Checkout, s.logger)
	ratesHandler := handlers.NewRatesHandler(u.Rates)
	authHandler := handlers.NewAuthHandler(u.Auth, u.Countries, s.logger)
	orderHandler := handlers.NewOrderHandler(u.Orders, s.logger)
	renewalHandler := handlers.NewRenewalHandler(u.Renewals, s.logger)
	licenseHandler := handlers.NewLicenseHandler(u.Licenses, s.logger)
	paymentHandler := handlers.NewPaymentHandler(u.Payments)
	contactHandler := handlers.NewContactHandler(u.Contact, s.logger)

	requireLogin := auth.RequireLogin(u.Auth, s.logger)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Catalog
	v1.GET("/products", catalogHandler.ListProducts)
	v1.GET("/products/:id", catalogHandler.GetProduct)

	// Cart, scoped to the session cookie
	v1.GET("/cart", cartHandler.GetCart)
	v1.DELETE("/cart", cartHandler.Clear)
	v1.GET("/cart/summary", cartHandler.Summary)
	v1.POST("/cart/items", cartHandler.AddItem)
	v1.DELETE("/cart/items/:productId", cartHandler.RemoveItem)
	v1.PUT("/cart/items/:productId/period", cartHandler.SelectPeriod)

	v1.GET("/rates", ratesHandler.GetRates)
	v1.GET("/countries", contactHandler.Countries)
	v1.POST("/contact", contactHandler.Submit)

	// Checkout
	v1.POST("/checkout/domain", checkoutHandler.CheckDomain)
	v1.POST("/checkout", checkoutHandler.Checkout, requireLogin)

	// Account
	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/mailbox", authHandler.MailboxAvailable)
	authGroup.GET("/me", authHandler.Me, requireLogin)

	// Payment return pages
	v1.GET("/payment/success", paymentHandler.Success)
	v1.GET("/payment/cancel", paymentHandler.Cancel)

	// Protected routes
	v1.GET("/orders", orderHandler.ListOrders, requireLogin)
	v1.GET("/orders/:id", orderHandler.GetOrder, requireLogin)
	v1.GET("/renewals", renewalHandler.ListInvoices, requireLogin)
	v1.GET("/renewals/:invoiceId", renewalHandler.GetInvoice, requireLogin)
	v1.POST("/renewals/:invoiceId/stripe", renewalHandler.PayWithStripe, requireLogin)
	v1.POST("/licenses/activate", licenseHandler.Activate, requireLogin)
}
