package provider

import "context"

// PaymentSession is the state of a hosted checkout session at the processor.
type PaymentSession struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Paid reports whether the processor captured the payment.
func (s PaymentSession) Paid() bool {
	return s.PaymentStatus == "paid" || s.PaymentStatus == "no_payment_required"
}

// PaymentVerifier looks up hosted checkout sessions after the customer returns.
type PaymentVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (*PaymentSession, error)
}
