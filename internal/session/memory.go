package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is a single-process backend over an expirable LRU. Meant
// for deployments without Redis and for tests. The TTL runs from bind
// time rather than last access, which is strict enough for a window
// that only needs to outlive one verification exchange.
type MemoryStore struct {
	cache *expirable.LRU[string, int64]
}

func NewMemoryStore(size int, idleTTL time.Duration) *MemoryStore {
	if size <= 0 {
		size = 4096
	}
	return &MemoryStore{cache: expirable.NewLRU[string, int64](size, nil, idleTTL)}
}

func (s *MemoryStore) Bind(ctx context.Context, token string, userID int64) error {
	s.cache.Add(token, userID)
	return nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (int64, error) {
	userID, ok := s.cache.Get(token)
	if !ok {
		return 0, ErrNoBinding
	}
	return userID, nil
}

func (s *MemoryStore) Clear(ctx context.Context, token string) error {
	s.cache.Remove(token)
	return nil
}
