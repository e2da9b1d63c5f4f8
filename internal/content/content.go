// Package content provides read access to rankable content rows
// (posts and lessons) from the content store and the trending cache.
package content

import (
	"context"
	"errors"
	"time"
)

// Kind identifies the content variant of a row.
type Kind string

// Content kind constants.
const (
	// KindPost is short-form user content shown in the feed.
	KindPost Kind = "post"

	// KindLesson is structured learning content shown in the feed.
	KindLesson Kind = "lesson"
)

// Kinds lists every kind eligible for ranking, in fetch order.
var Kinds = []Kind{KindPost, KindLesson}

// ErrUnknownKind is returned when a kind string is not recognized.
var ErrUnknownKind = errors.New("unknown content kind")

// ParseKind validates a kind string from an untrusted boundary.
// The empty string is valid and means "all kinds".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindPost, KindLesson:
		return Kind(s), nil
	default:
		return "", ErrUnknownKind
	}
}

// Row is a raw candidate row as returned by a source query, before any
// personalization or scoring. EngagementScore is precomputed upstream;
// this service never derives it.
type Row struct {
	ID              string    `json:"id" cbor:"id"`
	Kind            Kind      `json:"kind" cbor:"kind"`
	AuthorID        string    `json:"author_id,omitempty" cbor:"author_id,omitempty"`
	EngagementScore float64   `json:"engagement_score" cbor:"engagement_score"`
	IsMature        bool      `json:"is_mature,omitempty" cbor:"is_mature,omitempty"`
	Title           string    `json:"title,omitempty" cbor:"title,omitempty"`
	Body            string    `json:"body,omitempty" cbor:"body,omitempty"`
	CreatedAt       time.Time `json:"created_at" cbor:"created_at"`
}

// Store defines the read API for content sources. Every implementation
// must return only approved content; rows that have not passed moderation
// are never eligible for ranking.
type Store interface {
	// FetchTrending returns the top trending rows of the given kind,
	// ordered by engagement score descending.
	FetchTrending(ctx context.Context, kind Kind, limit int) ([]Row, error)

	// FetchByAuthors returns the most recent approved rows of the given
	// kind authored by any of authorIDs, newest first.
	FetchByAuthors(ctx context.Context, kind Kind, authorIDs []string, limit int) ([]Row, error)

	// FetchByCategories returns approved rows of the given kind in any of
	// categoryIDs, ordered by engagement score descending.
	FetchByCategories(ctx context.Context, kind Kind, categoryIDs []string, limit int) ([]Row, error)
}
