// Package prefs provides read access to the content preferences stored
// on a user's profile: the mature-content filter flag and topical
// interests mapped to category IDs.
package prefs

import (
	"context"
)

// Preferences are the personalization inputs the feed pipeline reads.
type Preferences struct {
	// MatureFilterEnabled controls whether mature content is excluded.
	// Defaults to true; only an explicit opt-out in the stored profile
	// disables it.
	MatureFilterEnabled bool

	// InterestCategoryIDs are the category IDs derived from the user's
	// stored interest slugs. Empty when no interests are configured.
	InterestCategoryIDs []string
}

// DefaultPreferences returns the preferences applied when a user has no
// stored profile or preference blob.
func DefaultPreferences() Preferences {
	return Preferences{MatureFilterEnabled: true}
}

// PreferenceStore defines the preference read API. A missing profile is
// not an error; implementations return DefaultPreferences instead.
type PreferenceStore interface {
	Preferences(ctx context.Context, userID string) (Preferences, error)
}
