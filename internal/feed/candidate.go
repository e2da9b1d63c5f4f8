// Package feed implements the candidate aggregation, ranking, and
// diversity-selection pipeline behind the personalized feed and the
// fallback recommendation list.
//
// The pipeline runs once per request over request-scoped state only:
// concurrent source fetches feed a personalization filter, score
// blending, keyed deduplication, a global sort, a single-pass diversity
// selection, and finally result assembly.
package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/AmirmLotfy/skrolz/internal/content"
	"github.com/AmirmLotfy/skrolz/internal/ranking"
)

// Limits on the ranking run.
const (
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 50

	// DefaultLimit is applied when a request omits the limit.
	DefaultLimit = 20

	// DiversityLimit is the maximum number of consecutive output items
	// that may share an author.
	DiversityLimit = 3
)

// Per-source fetch caps. Each source bounds its own work; the global
// page cap is enforced after ranking.
const (
	TrendingFetchLimit = 20
	FollowedFetchLimit = 10
	InterestFetchLimit = 15
)

// ErrInvalidLimit rejects a non-positive requested limit.
var ErrInvalidLimit = errors.New("requested limit must be positive")

// ContentKey identifies a logical content item across sources. Two rows
// with the same key are the same item and must be merged before ranking.
type ContentKey struct {
	Kind content.Kind
	ID   string
}

// Candidate is a unit of content moving through the pipeline. A single
// candidate may carry several provenances when multiple sources
// surfaced the same item; its final score applies only the strongest
// boost among them.
type Candidate struct {
	ID         string
	Kind       content.Kind
	AuthorID   string
	BaseScore  float64
	IsMature   bool
	Provenance []ranking.Provenance
	Title      string
	Body       string
	CreatedAt  time.Time

	// FinalScore is BaseScore plus the max provenance boost, computed
	// during merge.
	FinalScore float64

	// arrival preserves discovery order for deterministic tie-breaking.
	arrival int
}

// Key returns the candidate's dedup key.
func (c *Candidate) Key() ContentKey {
	return ContentKey{Kind: c.Kind, ID: c.ID}
}

// RankingContext is the per-request input to Rank. It is assembled by
// the request shell from the social graph, preference, and history
// collaborators; the pipeline itself never reads user state.
type RankingContext struct {
	// UserID is empty for anonymous requests, which rank trending
	// content only.
	UserID string

	// BlockedAuthorIDs excludes authors the user has blocked. Never
	// contains the user's own ID.
	BlockedAuthorIDs map[string]struct{}

	// FollowedAuthorIDs drives the followed-author sources and boost.
	FollowedAuthorIDs map[string]struct{}

	// InterestCategoryIDs drives the interest-match sources and boost.
	InterestCategoryIDs []string

	// MatureFilterEnabled excludes mature content when true. Defaults
	// on; only an explicit stored opt-out disables it.
	MatureFilterEnabled bool

	// Limit is the requested page size. Must be positive; capped at
	// MaxLimit.
	Limit int

	// Kind restricts ranking to a single content kind when non-empty.
	Kind content.Kind

	// Curated attaches the shared curated label to every item instead
	// of per-provenance explanations.
	Curated bool

	// ExcludeSeen drops content the user has recently interacted with.
	// Used by the recommendations operation.
	ExcludeSeen map[ContentKey]struct{}
}

// Validate checks the context before any fetch is issued.
func (rc *RankingContext) Validate() error {
	if rc.Limit <= 0 {
		return ErrInvalidLimit
	}
	if _, err := content.ParseKind(string(rc.Kind)); err != nil {
		return fmt.Errorf("invalid content kind %q: %w", rc.Kind, err)
	}
	return nil
}

// EffectiveLimit returns the page size after applying the global cap.
func (rc *RankingContext) EffectiveLimit() int {
	if rc.Limit > MaxLimit {
		return MaxLimit
	}
	return rc.Limit
}

// kinds returns the content kinds this request ranks.
func (rc *RankingContext) kinds() []content.Kind {
	if rc.Kind != "" {
		return []content.Kind{rc.Kind}
	}
	return content.Kinds
}

// RankedItem is the output unit: a selected candidate with its display
// metadata and explanation attached.
type RankedItem struct {
	ID        string       `json:"id"`
	Kind      content.Kind `json:"type"`
	AuthorID  string       `json:"author_id,omitempty"`
	Title     string       `json:"title,omitempty"`
	Body      string       `json:"body,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	WhyShown  string       `json:"why_shown,omitempty"`
}

// SourceWarning reports a source that contributed nothing because its
// fetch failed or timed out. Warnings never fail the ranking run.
type SourceWarning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Result is the outcome of one ranking run.
type Result struct {
	Items    []RankedItem    `json:"items"`
	Warnings []SourceWarning `json:"warnings,omitempty"`
}
