package feed

import (
	"slices"

	"github.com/AmirmLotfy/skrolz/internal/ranking"
)

// merge collapses rows sharing a (kind, id) key into single candidates,
// keeping the union of their provenances, then computes each final
// score as base plus the strongest single boost. The index map makes
// membership checks O(1) per row; candidates come back in discovery
// order, which later tie-breaking depends on.
//
// Provenance union is commutative, so the merged set does not depend on
// which source happened to return the item first.
func merge(rows []sourcedRow, boosts *ranking.Boosts) []*Candidate {
	index := make(map[ContentKey]*Candidate, len(rows))
	out := make([]*Candidate, 0, len(rows))

	for _, sr := range rows {
		key := ContentKey{Kind: sr.row.Kind, ID: sr.row.ID}

		if c, ok := index[key]; ok {
			if !slices.Contains(c.Provenance, sr.provenance) {
				c.Provenance = append(c.Provenance, sr.provenance)
			}
			continue
		}

		c := &Candidate{
			ID:         sr.row.ID,
			Kind:       sr.row.Kind,
			AuthorID:   sr.row.AuthorID,
			BaseScore:  sr.row.EngagementScore,
			IsMature:   sr.row.IsMature,
			Provenance: []ranking.Provenance{sr.provenance},
			Title:      sr.row.Title,
			Body:       sr.row.Body,
			CreatedAt:  sr.row.CreatedAt,
			arrival:    len(out),
		}
		index[key] = c
		out = append(out, c)
	}

	for _, c := range out {
		c.FinalScore = boosts.FinalScore(c.BaseScore, c.Provenance)
	}

	return out
}
