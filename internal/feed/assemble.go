package feed

import (
	"github.com/AmirmLotfy/skrolz/internal/ranking"
)

// Why-shown explanation strings. Stable copy shared with clients.
const (
	WhyShownFollowed = "From creators you follow"
	WhyShownInterest = "Matches your interests"
	WhyShownTrending = "Trending now"

	// WhyShownCurated is the shared label used in curated mode.
	WhyShownCurated = "From your interests and trending"
)

// whyShown maps a candidate's provenance set to its explanation text.
// The followed-author reason wins over interest-match, which wins over
// trending.
func whyShown(provenances []ranking.Provenance) string {
	switch ranking.Primary(provenances) {
	case ranking.ProvenanceFollowed:
		return WhyShownFollowed
	case ranking.ProvenanceInterest:
		return WhyShownInterest
	default:
		return WhyShownTrending
	}
}

// assemble converts the selected candidates into ranked items with
// display metadata and explanations, truncated to limit. Truncation is
// a safety net; the selector already stops at the limit.
func assemble(selected []*Candidate, rc RankingContext) []RankedItem {
	limit := rc.EffectiveLimit()
	if len(selected) > limit {
		selected = selected[:limit]
	}

	items := make([]RankedItem, 0, len(selected))
	for _, c := range selected {
		item := RankedItem{
			ID:        c.ID,
			Kind:      c.Kind,
			AuthorID:  c.AuthorID,
			Title:     c.Title,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		}
		if rc.Curated {
			item.WhyShown = WhyShownCurated
		} else {
			item.WhyShown = whyShown(c.Provenance)
		}
		items = append(items, item)
	}
	return items
}
