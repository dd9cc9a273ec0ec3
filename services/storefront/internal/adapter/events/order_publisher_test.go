package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bitss-one/storefront-monorepo/pkg/messaging"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/provider"
)

func TestOrderPublisher_PublishOrderConfirmed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	bus := messaging.NewRedisBus(client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, "storefront.events")
	require.NoError(t, err)

	publisher := NewOrderPublisher(bus, "storefront.events", zap.NewNop())
	err = publisher.PublishOrderConfirmed(ctx, provider.OrderConfirmedEvent{
		OrderNumber: "BITSS010125ABCDEF",
		SessionID:   "sess",
		PaymentType: entity.PaymentBank,
		Currency:    "EUR",
		Domain:      "example.com",
		Lines:       []entity.OrderLine{{Product: "p1", Period: 12}},
	})
	require.NoError(t, err)

	select {
	case msg := <-messages:
		var got struct {
			Type string                       `json:"type"`
			Data provider.OrderConfirmedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, TypeOrderConfirmed, got.Type)
		assert.Equal(t, "BITSS010125ABCDEF", got.Data.OrderNumber)
		assert.Equal(t, []entity.OrderLine{{Product: "p1", Period: 12}}, got.Data.Lines)
	case <-ctx.Done():
		t.Fatal("event not received")
	}
}

func TestOrderPublisher_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	publisher := NewOrderPublisher(messaging.NewRedisBus(client), "storefront.events", zap.NewNop())
	err := publisher.PublishOrderConfirmed(context.Background(), provider.OrderConfirmedEvent{OrderNumber: "X"})
	assert.Error(t, err)
}
