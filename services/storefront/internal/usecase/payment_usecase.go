package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

const (
	PaymentReturned  = "returned"
	PaymentPaid      = "paid"
	PaymentUnpaid    = "unpaid"
	PaymentCancelled = "cancelled"
)

// PaymentResult is what the payment return pages show. Verification is
// informational; order state is owned by the backend.
type PaymentResult struct {
	Status   string                   `json:"status"`
	Verified bool                     `json:"verified"`
	Session  *provider.PaymentSession `json:"session,omitempty"`
}

type PaymentUsecase struct {
	verifier provider.PaymentVerifier
	logger   *zap.Logger
}

// NewPaymentUsecase creates the payment return usecase. verifier may be nil.
func NewPaymentUsecase(verifier provider.PaymentVerifier, logger *zap.Logger) *PaymentUsecase {
	return &PaymentUsecase{verifier: verifier, logger: logger}
}

func (u *PaymentUsecase) Success(ctx context.Context, checkoutSessionID string) *PaymentResult {
	if u.verifier == nil || checkoutSessionID == "" {
		return &PaymentResult{Status: PaymentReturned}
	}

	session, err := u.verifier.VerifySession(ctx, checkoutSessionID)
	if err != nil {
		u.logger.Warn("Could not verify checkout session",
			zap.String("checkout_session_id", checkoutSessionID),
			zap.Error(err))
		return &PaymentResult{Status: PaymentReturned}
	}

	status := PaymentUnpaid
	if session.Paid() {
		status = PaymentPaid
	}
	return &PaymentResult{Status: status, Verified: true, Session: session}
}

func (u *PaymentUsecase) Cancel() *PaymentResult {
	return &PaymentResult{Status: PaymentCancelled}
}
