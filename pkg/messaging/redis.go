// Package messaging은 Redis pub/sub 기반의 이벤트 발행/구독을 제공합니다.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher는 채널에 메시지를 발행합니다.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// Subscriber는 채널을 구독합니다. ctx가 종료되면 반환된 채널도 닫힙니다.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan Message, error)
}

// Message 메시지 구조체
type Message struct {
	Channel    string
	Payload    []byte
	ReceivedAt time.Time
}

// Decode는 JSON 페이로드를 디코딩합니다.
func (m Message) Decode(out interface{}) error {
	return json.Unmarshal(m.Payload, out)
}

// RedisBus는 이미 연결된 go-redis 클라이언트 위에서 동작합니다.
// 세션 저장소와 같은 클라이언트를 공유하므로 Close는 호출자가 담당합니다.
type RedisBus struct {
	client redis.UniversalClient
}

// NewRedisBus Redis pub/sub 버스 생성
func NewRedisBus(client redis.UniversalClient) *RedisBus {
	return &RedisBus{client: client}
}

// Publish 메시지를 JSON으로 직렬화해 발행
func (b *RedisBus) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("메시지 직렬화 실패: %w", err)
	}

	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("메시지 발행 실패 (%s): %w", channel, err)
	}
	return nil
}

// Subscribe 채널 구독
func (b *RedisBus) Subscribe(ctx context.Context, channel string) (<-chan Message, error) {
	pubsub := b.client.Subscribe(ctx, channel)

	// 구독 확인
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("채널 구독 실패: %w", err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- Message{Channel: msg.Channel, Payload: []byte(msg.Payload), ReceivedAt: time.Now()}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
