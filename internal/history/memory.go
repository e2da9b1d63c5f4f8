package history

import (
	"context"
	"sync"
)

// InMemoryStore is an in-memory InteractionStore for tests. Thread-safe.
// Interactions are kept newest-first.
type InMemoryStore struct {
	mu   sync.RWMutex
	seen map[string][]Key
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seen: make(map[string][]Key)}
}

// Record notes that userID interacted with the given content, most
// recent first.
func (s *InMemoryStore) Record(userID string, k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[userID] = append([]Key{k}, s.seen[userID]...)
}

// RecentlySeen returns up to limit of userID's most recent interactions.
func (s *InMemoryStore) RecentlySeen(ctx context.Context, userID string, limit int) (map[Key]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSeenLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := s.seen[userID]
	if len(keys) > limit {
		keys = keys[:limit]
	}
	out := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out, nil
}
