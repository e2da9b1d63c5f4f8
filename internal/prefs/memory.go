package prefs

import (
	"context"
	"sync"
)

// InMemoryStore is an in-memory PreferenceStore for tests. Thread-safe.
type InMemoryStore struct {
	mu    sync.RWMutex
	prefs map[string]Preferences
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{prefs: make(map[string]Preferences)}
}

// Set stores preferences for userID.
func (s *InMemoryStore) Set(userID string, p Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = p
}

// Preferences returns the stored preferences for userID, or defaults.
func (s *InMemoryStore) Preferences(ctx context.Context, userID string) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return DefaultPreferences(), err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	return DefaultPreferences(), nil
}
