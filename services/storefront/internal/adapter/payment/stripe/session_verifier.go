// Package stripe verifies hosted checkout sessions with the Stripe API.
package stripe

import (
	"context"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

// SessionVerifier looks up Checkout Sessions with its own API key instead of
// the package-global stripe.Key.
type SessionVerifier struct {
	client checkoutsession.Client
	logger *zap.Logger
}

var _ provider.PaymentVerifier = (*SessionVerifier)(nil)

// NewSessionVerifier creates a verifier against the live Stripe API
func NewSessionVerifier(secretKey string, logger *zap.Logger) *SessionVerifier {
	return NewSessionVerifierWithBackend(secretKey, stripeapi.GetBackend(stripeapi.APIBackend), logger)
}

// NewSessionVerifierWithBackend creates a verifier using backend for API calls
func NewSessionVerifierWithBackend(secretKey string, backend stripeapi.Backend, logger *zap.Logger) *SessionVerifier {
	return &SessionVerifier{
		client: checkoutsession.Client{B: backend, Key: secretKey},
		logger: logger,
	}
}

func (v *SessionVerifier) VerifySession(ctx context.Context, sessionID string) (*provider.PaymentSession, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx

	s, err := v.client.Get(sessionID, params)
	if err != nil {
		v.logger.Error("Error retrieving checkout session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}

	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}

	v.logger.Info("Checkout session retrieved",
		zap.String("session_id", s.ID),
		zap.String("status", string(s.Status)),
		zap.String("payment_status", string(s.PaymentStatus)))

	return &provider.PaymentSession{
		ID:            s.ID,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CustomerEmail: email,
	}, nil
}
