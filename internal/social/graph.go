// Package social provides read access to the social graph: who a user
// blocks and who they follow. The feed pipeline consumes both as sets.
package social

import (
	"context"
)

// GraphStore defines the social graph read API. Users with no block or
// follow rows get empty sets, never errors; the ranking pipeline treats
// missing graph data as "no personalization".
type GraphStore interface {
	// BlockedAuthors returns the set of author IDs userID has blocked.
	BlockedAuthors(ctx context.Context, userID string) (map[string]struct{}, error)

	// FollowedAuthors returns the set of author IDs userID follows.
	FollowedAuthors(ctx context.Context, userID string) (map[string]struct{}, error)
}
