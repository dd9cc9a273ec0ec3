// Package events publishes storefront domain events.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/pkg/messaging"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

const TypeOrderConfirmed = "order.confirmed"

// Event is the envelope written to the events channel.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// OrderPublisher sends order events over a messaging.Publisher.
type OrderPublisher struct {
	publisher messaging.Publisher
	channel   string
	logger    *zap.Logger
}

var _ provider.EventPublisher = (*OrderPublisher)(nil)

// NewOrderPublisher creates an order event publisher
func NewOrderPublisher(publisher messaging.Publisher, channel string, logger *zap.Logger) *OrderPublisher {
	return &OrderPublisher{
		publisher: publisher,
		channel:   channel,
		logger:    logger,
	}
}

func (p *OrderPublisher) PublishOrderConfirmed(ctx context.Context, event provider.OrderConfirmedEvent) error {
	err := p.publisher.Publish(ctx, p.channel, Event{
		Type:       TypeOrderConfirmed,
		OccurredAt: time.Now().UTC(),
		Data:       event,
	})
	if err != nil {
		return err
	}

	p.logger.Debug("Event published",
		zap.String("type", TypeOrderConfirmed),
		zap.String("channel", p.channel),
		zap.String("order_number", event.OrderNumber))
	return nil
}

// NopPublisher drops events. It is used when no events channel is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderConfirmed(context.Context, provider.OrderConfirmedEvent) error {
	return nil
}
