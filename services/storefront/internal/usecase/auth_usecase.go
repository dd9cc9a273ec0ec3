package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	domainErrors "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/errors"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

// AuthUsecase keeps the backend login in the session. Logging out removes
// the login only; the cart stays.
type AuthUsecase struct {
	accounts provider.AccountGateway
	mailbox  provider.MailboxChecker
	store    repository.SessionStore
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthUsecase creates the auth usecase. mailbox may be nil.
func NewAuthUsecase(
	accounts provider.AccountGateway,
	mailbox provider.MailboxChecker,
	store repository.SessionStore,
	ttl time.Duration,
	logger *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		accounts: accounts,
		mailbox:  mailbox,
		store:    store,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *AuthUsecase) Login(ctx context.Context, sessionID string, creds entity.LoginCredentials) (*entity.AuthInfo, error) {
	info, err := u.accounts.Login(ctx, creds)
	if err != nil {
		status := domainErrors.StatusOf(err)
		if status > 0 && status < http.StatusInternalServerError {
			u.logger.Info("Login refused", zap.String("session_id", sessionID), zap.Int("status", status))
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	if info.AccessToken == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	if err := u.save(ctx, sessionID, info); err != nil {
		return nil, err
	}
	u.logger.Info("User logged in",
		zap.String("session_id", sessionID),
		zap.String("user_id", info.User.ID))
	return info, nil
}

// Register creates the account. The chosen mailbox name is checked first
// when a checker is configured. A returned token logs the user in.
func (u *AuthUsecase) Register(ctx context.Context, sessionID string, reg entity.Registration) (*entity.AuthInfo, error) {
	if u.mailbox != nil && reg.Username != "" {
		free, err := u.mailbox.Available(ctx, reg.Username)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, domainErrors.ErrMailboxTaken
		}
	}

	info, err := u.accounts.Register(ctx, reg)
	if err != nil {
		return nil, err
	}

	if info.AccessToken != "" {
		if err := u.save(ctx, sessionID, info); err != nil {
			return nil, err
		}
	}
	u.logger.Info("User registered",
		zap.String("session_id", sessionID),
		zap.Bool("logged_in", info.AccessToken != ""))
	return info, nil
}

// MailboxAvailable reports whether a mailbox name can still be registered.
func (u *AuthUsecase) MailboxAvailable(ctx context.Context, name string) (bool, error) {
	if u.mailbox == nil {
		return true, nil
	}
	return u.mailbox.Available(ctx, name)
}

func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if err := u.store.Delete(ctx, sessionID, repository.AuthKey); err != nil {
		return fmt.Errorf("failed to clear login: %w", err)
	}
	return nil
}

// Current returns the stored login. Missing, corrupt and expired logins are
// ErrNotLoggedIn.
func (u *AuthUsecase) Current(ctx context.Context, sessionID string) (*entity.AuthInfo, error) {
	data, err := u.store.Get(ctx, sessionID, repository.AuthKey)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, domainErrors.ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to load login: %w", err)
	}

	var info entity.AuthInfo
	if err := json.Unmarshal(data, &info); err != nil || info.AccessToken == "" {
		u.logger.Warn("Discarding corrupt login", zap.String("session_id", sessionID))
		return nil, domainErrors.ErrNotLoggedIn
	}

	if u.expired(info.AccessToken) {
		u.logger.Info("Access token expired", zap.String("session_id", sessionID))
		if err := u.store.Delete(ctx, sessionID, repository.AuthKey); err != nil {
			u.logger.Warn("Failed to drop expired login", zap.Error(err))
		}
		return nil, domainErrors.ErrNotLoggedIn
	}
	return &info, nil
}

// expired reads exp without verifying the signature; the backend verifies
// the token on every call. Opaque tokens never expire here.
func (u *AuthUsecase) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !u.now().Before(exp.Time)
}

func (u *AuthUsecase) save(ctx context.Context, sessionID string, info *entity.AuthInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode login: %w", err)
	}
	if err := u.store.Set(ctx, sessionID, repository.AuthKey, data, u.ttl); err != nil {
		return fmt.Errorf("failed to save login: %w", err)
	}
	return nil
}
