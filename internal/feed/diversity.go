package feed

import (
	"sort"
)

// rank orders merged candidates by final score descending. Ties break
// on newer created_at first, then on discovery order, so identical
// input always produces identical output.
func rank(cands []*Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].FinalScore != cands[j].FinalScore {
			return cands[i].FinalScore > cands[j].FinalScore
		}
		if !cands[i].CreatedAt.Equal(cands[j].CreatedAt) {
			return cands[i].CreatedAt.After(cands[j].CreatedAt)
		}
		return cands[i].arrival < cands[j].arrival
	})
}

// selectDiverse walks the score-sorted list once and fills up to limit
// slots, allowing at most DiversityLimit consecutive picks from the
// same author. A skipped candidate is not discarded: the walk continues
// past it, and nothing prevents the same author reappearing after an
// intervening different-author pick breaks the streak.
//
// Candidates without an author never extend a streak and always break
// one, i.e. a missing author is its own unique author every time.
//
// Single forward pass, no backtracking, no re-sort after a skip.
func selectDiverse(cands []*Candidate, limit int) []*Candidate {
	if limit <= 0 {
		return nil
	}

	selected := make([]*Candidate, 0, limit)
	var (
		streakAuthor string
		streakLen    int
	)

	for _, c := range cands {
		if len(selected) >= limit {
			break
		}

		if c.AuthorID != "" && c.AuthorID == streakAuthor {
			if streakLen >= DiversityLimit {
				continue
			}
			streakLen++
		} else {
			streakAuthor = c.AuthorID
			streakLen = 1
		}

		selected = append(selected, c)
	}

	return selected
}
