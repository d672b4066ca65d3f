package cache

import (
	"context"
	"sync"
	"time"

	"library-lending/internal/pkg/clock"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a process-local Store for tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   clock.Clock

	// Disabled makes every operation a no-op so callers can be verified
	// to work without a cache backend.
	Disabled bool
}

func NewMemoryStore(c clock.Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   c,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	if s.Disabled {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.clock.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if s.Disabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl),
	}
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) {
	if s.Disabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
}

// Len reports the number of live entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
