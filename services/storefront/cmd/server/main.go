package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/pkg/logger"
	"github.com/bitss-one/storefront-monorepo/pkg/messaging"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/backend"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/events"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/mail"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/payment/stripe"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/rates"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/reference"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/adapter/repository"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/config"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/order"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
	domainRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/infrastructure/cache"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/infrastructure/database"
	grpcServer "github.com/bitss-one/storefront-monorepo/services/storefront/internal/infrastructure/grpc"
	httpServer "github.com/bitss-one/storefront-monorepo/services/storefront/internal/infrastructure/http"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/middleware/session"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Checkout ledger
	repos := database.NewMemoryRepositories()
	if cfg.Database.Enabled() {
		db, err := database.NewConnection(context.Background(), &cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := database.Close(db, zapLogger); err != nil {
				zapLogger.Error("Failed to close database connection", zap.Error(err))
			}
		}()

		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		repos = database.NewRepositories(db, zapLogger)
	} else {
		zapLogger.Warn("No database configured, checkout ledger is kept in memory")
	}

	// Session storage and order events
	var (
		sessionStore domainRepo.SessionStore
		orderEvents  provider.EventPublisher = events.NopPublisher{}
		probe        grpcServer.Probe
	)
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient, err := cache.NewRedisClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		sessionStore = repository.NewRedisSessionStore(redisClient, zapLogger)
		orderEvents = newOrderEvents(cfg.Redis, redisClient, zapLogger)
		probe = cache.Ping(redisClient)
	} else {
		sessionStore = repository.NewMemorySessionStore()
	}

	usecases, err := buildUsecases(cfg, zapLogger, sessionStore, repos, orderEvents)
	if err != nil {
		zapLogger.Fatal("Failed to initialize usecases", zap.Error(err))
	}

	cookieStore := session.NewCookieStore(cfg.Session.Secret, cfg.Session.CookieSecure, cfg.Session.AuthTTL)

	// Initialize servers
	grpcSrv := grpcServer.NewServer(cfg, zapLogger, probe)
	httpSrv, err := httpServer.NewServer(cfg, zapLogger, usecases, cookieStore)
	if err != nil {
		zapLogger.Fatal("Failed to initialize HTTP server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}

func newOrderEvents(cfg config.RedisConfig, client redis.UniversalClient, log *zap.Logger) provider.EventPublisher {
	if cfg.EventsChannel == "" {
		return events.NopPublisher{}
	}
	return events.NewOrderPublisher(messaging.NewRedisBus(client), cfg.EventsChannel, log)
}

func buildUsecases(
	cfg *config.Config,
	log *zap.Logger,
	sessionStore domainRepo.SessionStore,
	repos *database.Repositories,
	orderEvents provider.EventPublisher,
) (*httpServer.Usecases, error) {
	countries, err := reference.LoadCountries()
	if err != nil {
		return nil, err
	}

	backendClient := backend.NewClient(cfg.Backend, log)
	ratesUsecase := usecase.NewRatesUsecase(rates.NewExchangeRateClient(cfg.Rates, log), cfg.Rates.CacheTTL, log)

	bank := entity.BankDetails{
		BankName: cfg.Bank.BankName,
		IBAN:     cfg.Bank.IBAN,
		BIC:      cfg.Bank.BIC,
	}

	var mailbox provider.MailboxChecker
	if cfg.Mailbox.URL != "" {
		mailbox = backend.NewMailboxClient(cfg.Mailbox, log)
	}

	var verifier provider.PaymentVerifier
	if cfg.Stripe.SecretKey != "" {
		verifier = stripe.NewSessionVerifier(cfg.Stripe.SecretKey, log)
	}

	if cfg.Mail.Host == "" {
		log.Warn("No SMTP relay configured, contact messages will fail to send")
	}

	cart := usecase.NewCartUsecase(sessionStore, backendClient, ratesUsecase, cfg.Session.CartTTL, log)
	checkout := usecase.NewCheckoutUsecase(
		cart,
		ratesUsecase,
		backendClient,
		repos.CheckoutAttempts,
		orderEvents,
		order.NewNumberGenerator(nil),
		bank,
		log,
	)

	return &httpServer.Usecases{
		Catalog:   usecase.NewCatalogUsecase(backendClient, log),
		Cart:      cart,
		Checkout:  checkout,
		Rates:     ratesUsecase,
		Auth:      usecase.NewAuthUsecase(backendClient, mailbox, sessionStore, cfg.Session.AuthTTL, log),
		Orders:    usecase.NewOrderUsecase(backendClient, log),
		Renewals:  usecase.NewRenewalUsecase(backendClient, bank, log),
		Licenses:  usecase.NewLicenseUsecase(backendClient, log),
		Payments:  usecase.NewPaymentUsecase(verifier, log),
		Contact:   usecase.NewContactUsecase(mail.NewSMTPMailer(cfg.Mail, log), countries, cfg.Contact.SupportAddress, cfg.Contact.ForbiddenWords, log),
		Countries: countries,
	}, nil
}
