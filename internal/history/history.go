// Package history provides read access to a user's recent content
// interactions. The recommendation pipeline excludes already-seen
// content so the fallback list stays fresh.
package history

import (
	"context"
)

// DefaultSeenLimit caps how many recent interactions are considered.
const DefaultSeenLimit = 100

// Key identifies a content item across kinds.
type Key struct {
	Kind string
	ID   string
}

// InteractionStore defines the interaction-history read API. Users with
// no recorded interactions get an empty set, never an error.
type InteractionStore interface {
	// RecentlySeen returns the keys of the most recent content items the
	// user has interacted with, capped at limit.
	RecentlySeen(ctx context.Context, userID string, limit int) (map[Key]struct{}, error)
}
