package provider

import (
	"context"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
)

// Mail is an outgoing plain-text email.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// OrderConfirmedEvent is published after the backend accepts an order.
type OrderConfirmedEvent struct {
	OrderNumber string             `json:"order_number"`
	SessionID   string             `json:"session_id"`
	UserID      string             `json:"user_id,omitempty"`
	PaymentType entity.PaymentType `json:"payment_type"`
	Currency    string             `json:"currency"`
	Domain      string             `json:"domain"`
	Lines       []entity.OrderLine `json:"lines"`
}

type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, event OrderConfirmedEvent) error
}
