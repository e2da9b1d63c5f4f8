package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AmirmLotfy/skrolz/internal/content"
	"github.com/AmirmLotfy/skrolz/internal/ranking"
)

// DefaultSourceTimeout bounds each source fetch. A source that exceeds
// it contributes zero candidates instead of stalling the request.
const DefaultSourceTimeout = 2 * time.Second

// sourceSpec describes one independent candidate source: a named fetch
// plus the provenance its rows carry into scoring.
type sourceSpec struct {
	name       string
	provenance ranking.Provenance
	fetch      func(ctx context.Context) ([]content.Row, error)
}

// sourcedRow is a raw row annotated with the provenance of the source
// that returned it.
type sourcedRow struct {
	row        content.Row
	provenance ranking.Provenance
}

// sourcesFor builds the source set for a request. Trending sources are
// always queried. Followed-author and interest-match sources require a
// signed-in user with a non-empty followed set or interest list.
// Blocked authors are removed from the followed set before it reaches
// the store.
func (r *Ranker) sourcesFor(rc RankingContext) []sourceSpec {
	var specs []sourceSpec

	followed := followedMinusBlocked(rc)

	for _, kind := range rc.kinds() {
		specs = append(specs, sourceSpec{
			name:       "trending_" + string(kind),
			provenance: ranking.ProvenanceTrending,
			fetch: func(ctx context.Context) ([]content.Row, error) {
				return r.store.FetchTrending(ctx, kind, r.caps.Trending)
			},
		})

		if rc.UserID == "" {
			continue
		}

		if len(followed) > 0 {
			specs = append(specs, sourceSpec{
				name:       "followed_" + string(kind),
				provenance: ranking.ProvenanceFollowed,
				fetch: func(ctx context.Context) ([]content.Row, error) {
					return r.store.FetchByAuthors(ctx, kind, followed, r.caps.Followed)
				},
			})
		}

		if len(rc.InterestCategoryIDs) > 0 {
			specs = append(specs, sourceSpec{
				name:       "interest_" + string(kind),
				provenance: ranking.ProvenanceInterest,
				fetch: func(ctx context.Context) ([]content.Row, error) {
					return r.store.FetchByCategories(ctx, kind, rc.InterestCategoryIDs, r.caps.Interest)
				},
			})
		}
	}

	return specs
}

// followedMinusBlocked returns the followed set as a slice with blocked
// authors removed. A block always wins over a follow.
func followedMinusBlocked(rc RankingContext) []string {
	if len(rc.FollowedAuthorIDs) == 0 {
		return nil
	}
	out := make([]string, 0, len(rc.FollowedAuthorIDs))
	for id := range rc.FollowedAuthorIDs {
		if _, blocked := rc.BlockedAuthorIDs[id]; blocked {
			continue
		}
		out = append(out, id)
	}
	return out
}

// fetchAll fans out one goroutine per source and joins their results.
// Each fetch runs under its own timeout; a failed or timed-out source
// yields a warning and an empty slot, never a request failure. Slots
// are flattened in spec order so discovery order stays deterministic
// regardless of goroutine scheduling.
func (r *Ranker) fetchAll(ctx context.Context, specs []sourceSpec) ([]sourcedRow, []SourceWarning) {
	slots := make([][]content.Row, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec sourceSpec) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, r.sourceTimeout)
			defer cancel()
			slots[i], errs[i] = spec.fetch(fctx)
		}(i, spec)
	}
	wg.Wait()

	var (
		rows     []sourcedRow
		warnings []SourceWarning
	)
	for i, spec := range specs {
		if errs[i] != nil {
			r.metrics.IncSourceFailure(spec.name)
			r.logger.WarnContext(ctx, "candidate source failed",
				"source", spec.name, "error", errs[i])
			warnings = append(warnings, SourceWarning{
				Source:  spec.name,
				Message: fmt.Sprintf("source unavailable: %v", errs[i]),
			})
			continue
		}
		r.metrics.AddSourceRows(spec.name, len(slots[i]))
		for _, row := range slots[i] {
			rows = append(rows, sourcedRow{row: row, provenance: spec.provenance})
		}
	}

	return rows, warnings
}
