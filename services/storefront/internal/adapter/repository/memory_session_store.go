package repository

import (
	"context"
	"sync"
	"time"

	domainRepo "github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/repository"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memorySessionStore is a process-local session store for development and
// single-instance deployments. Expired entries are dropped lazily.
type memorySessionStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemorySessionStore creates an in-process session store
func NewMemorySessionStore() domainRepo.SessionStore {
	return newMemorySessionStore(time.Now)
}

func newMemorySessionStore(now func() time.Time) *memorySessionStore {
	return &memorySessionStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (s *memorySessionStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := sessionKey(sessionID, key)
	e, ok := s.entries[k]
	if !ok {
		return nil, domainRepo.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		return nil, domainRepo.ErrKeyNotFound
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *memorySessionStore) Set(_ context.Context, sessionID, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[sessionKey(sessionID, key)] = e
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionKey(sessionID, key))
	return nil
}
