package model

import "time"

// AttemptStatus is the lifecycle of an order submission.
type AttemptStatus string

const (
	AttemptPending   AttemptStatus = "pending"
	AttemptConfirmed AttemptStatus = "confirmed"
	// AttemptRejected means the backend answered success=false; resubmitting is safe.
	AttemptRejected AttemptStatus = "rejected"
	// AttemptUnknown means no answer was received; the order may exist.
	AttemptUnknown AttemptStatus = "unknown"
)

// CheckoutAttempt is one row of the checkout idempotency ledger.
type CheckoutAttempt struct {
	ID             int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	IdempotencyKey string        `gorm:"size:128;not null;uniqueIndex" json:"idempotency_key"`
	SessionID      string        `gorm:"size:64;not null;index" json:"session_id"`
	UserID         string        `gorm:"size:64;not null;default:''" json:"user_id"`
	OrderNumber    string        `gorm:"size:32;not null" json:"order_number"`
	Status         AttemptStatus `gorm:"size:16;not null;default:pending" json:"status"`
	PaymentType    string        `gorm:"size:16;not null" json:"payment_type"`
	Currency       string        `gorm:"size:3;not null" json:"currency"`
	Domain         string        `gorm:"size:253;not null" json:"domain"`
	PaymentURL     string        `gorm:"type:text" json:"payment_url,omitempty"`
	Message        string        `gorm:"type:text" json:"message,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CheckoutAttempt) TableName() string {
	return "checkout_attempts"
}

// OwnedBy reports whether the attempt was started by this session and user.
func (a *CheckoutAttempt) OwnedBy(sessionID, userID string) bool {
	return a.SessionID == sessionID && a.UserID == userID
}

// AttemptOutcome is the result written by Complete.
type AttemptOutcome struct {
	Status      AttemptStatus
	OrderNumber string
	PaymentURL  string
	Message     string
}
