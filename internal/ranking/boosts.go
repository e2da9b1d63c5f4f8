// Package ranking provides the centralized score calculations for feed
// ranking, with calibration support for deploy-time tuning.
package ranking

import (
	"fmt"
)

// Provenance identifies why a candidate was surfaced. The boost applied
// to a candidate's base engagement score depends on its provenance.
type Provenance string

// Provenance constants, ordered from highest to lowest intent.
const (
	// ProvenanceFollowed marks content from an author the user follows.
	ProvenanceFollowed Provenance = "followed_author"

	// ProvenanceInterest marks content in a category matching the user's
	// stored interests.
	ProvenanceInterest Provenance = "interest_match"

	// ProvenanceTrending marks content surfaced by the trending views.
	ProvenanceTrending Provenance = "trending"
)

// Boosts holds the additive score boost per provenance. The invariants
// Followed > Interest > Trending and Trending >= 0 must hold so that
// higher-intent provenance wins at equal base score.
type Boosts struct {
	Followed float64 `json:"followed"` // Boost for followed-author content (default: 20)
	Interest float64 `json:"interest"` // Boost for interest-matched content (default: 10)
	Trending float64 `json:"trending"` // Boost for trending content (default: 0)
}

// DefaultBoosts returns the default boost configuration.
//
// Formula: final_score = base_engagement_score + max(boost per provenance)
//   - Followed-author content outranks everything else at equal base score
//   - Interest matches rank between followed and trending
//   - Trending carries no boost; it competes on engagement alone
func DefaultBoosts() *Boosts {
	return &Boosts{
		Followed: 20,
		Interest: 10,
		Trending: 0,
	}
}

// Validate checks the ordering invariant on the boost values.
func (b *Boosts) Validate() error {
	if b.Trending < 0 {
		return fmt.Errorf("trending boost must be >= 0 (got %v)", b.Trending)
	}
	if b.Interest <= b.Trending {
		return fmt.Errorf("interest boost (%v) must exceed trending boost (%v)", b.Interest, b.Trending)
	}
	if b.Followed <= b.Interest {
		return fmt.Errorf("followed boost (%v) must exceed interest boost (%v)", b.Followed, b.Interest)
	}
	return nil
}

// For returns the boost for a single provenance. Unknown provenances
// get the trending boost, the lowest tier.
func (b *Boosts) For(p Provenance) float64 {
	switch p {
	case ProvenanceFollowed:
		return b.Followed
	case ProvenanceInterest:
		return b.Interest
	default:
		return b.Trending
	}
}

// Max returns the highest boost among the given provenances. A candidate
// surfaced by several sources gets the strongest single boost, never a
// sum, so multi-source duplication cannot inflate scores.
func (b *Boosts) Max(provenances []Provenance) float64 {
	best := 0.0
	for i, p := range provenances {
		if v := b.For(p); i == 0 || v > best {
			best = v
		}
	}
	return best
}

// FinalScore computes a candidate's composite score from its base
// engagement score and provenance set.
func (b *Boosts) FinalScore(baseScore float64, provenances []Provenance) float64 {
	return baseScore + b.Max(provenances)
}

// Primary returns the highest-priority provenance for explanation text:
// followed-author over interest-match over trending. Returns
// ProvenanceTrending for an empty set.
func Primary(provenances []Provenance) Provenance {
	best := ProvenanceTrending
	for _, p := range provenances {
		switch p {
		case ProvenanceFollowed:
			return ProvenanceFollowed
		case ProvenanceInterest:
			best = ProvenanceInterest
		}
	}
	return best
}
