package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domainRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

// redisSessionStore keeps session values under session:{id}:{key}.
type redisSessionStore struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisSessionStore creates a Redis backed session store
func NewRedisSessionStore(client redis.UniversalClient, logger *zap.Logger) domainRepo.SessionStore {
	return &redisSessionStore{
		client: client,
		logger: logger,
	}
}

func sessionKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainRepo.ErrKeyNotFound
		}
		s.logger.Error("Failed to read session value",
			zap.String("session_id", sessionID),
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read session value %s: %w", key, err)
	}
	return data, nil
}

func (s *redisSessionStore) Set(ctx context.Context, sessionID, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(sessionID, key), value, ttl).Err(); err != nil {
		s.logger.Error("Failed to write session value",
			zap.String("session_id", sessionID),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to write session value %s: %w", key, err)
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session value %s: %w", key, err)
	}
	return nil
}
