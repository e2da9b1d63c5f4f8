package social

import (
	"context"
	"sync"
)

// InMemoryGraph is an in-memory GraphStore for tests. Thread-safe.
type InMemoryGraph struct {
	mu      sync.RWMutex
	blocks  map[string]map[string]struct{}
	follows map[string]map[string]struct{}
}

// NewInMemoryGraph creates an empty InMemoryGraph.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{
		blocks:  make(map[string]map[string]struct{}),
		follows: make(map[string]map[string]struct{}),
	}
}

// Block records that blocker blocks blocked.
func (g *InMemoryGraph) Block(blocker, blocked string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.blocks[blocker] == nil {
		g.blocks[blocker] = make(map[string]struct{})
	}
	g.blocks[blocker][blocked] = struct{}{}
}

// Follow records that follower follows followed.
func (g *InMemoryGraph) Follow(follower, followed string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.follows[follower] == nil {
		g.follows[follower] = make(map[string]struct{})
	}
	g.follows[follower][followed] = struct{}{}
}

// BlockedAuthors returns a copy of userID's block set.
func (g *InMemoryGraph) BlockedAuthors(ctx context.Context, userID string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copySet(g.blocks[userID]), nil
}

// FollowedAuthors returns a copy of userID's follow set.
func (g *InMemoryGraph) FollowedAuthors(ctx context.Context, userID string) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copySet(g.follows[userID]), nil
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
