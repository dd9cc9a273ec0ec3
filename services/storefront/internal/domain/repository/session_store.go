package repository

import (
	"context"
	"errors"
	"time"
)

// Session keys.
const (
	// CartKey holds the serialized cart line array; it lives as long as the session.
	CartKey = "cartItems"
	// AuthKey holds the serialized login; it outlives the cart.
	AuthKey = "authInfo"
)

// ErrKeyNotFound is returned by SessionStore.Get for absent or expired keys.
var ErrKeyNotFound = errors.New("session key not found")

// SessionStore is an opaque key-value store scoped by session id.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, sessionID, key string) error
}
