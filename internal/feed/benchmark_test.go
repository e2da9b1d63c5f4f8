package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AmirmLotfy/skrolz/internal/content"
	"github.com/AmirmLotfy/skrolz/internal/ranking"
)

func benchCandidates(n int) []*Candidate {
	ts := time.Now()
	cands := make([]*Candidate, 0, n)
	for i := 0; i < n; i++ {
		cands = append(cands, &Candidate{
			ID:         fmt.Sprintf("c%d", i),
			Kind:       content.KindPost,
			AuthorID:   fmt.Sprintf("a%d", i%7),
			FinalScore: float64(i % 13),
			CreatedAt:  ts.Add(time.Duration(i) * time.Second),
			arrival:    i,
		})
	}
	return cands
}

// BenchmarkSelectDiverse benchmarks the single-pass diversity selection.
func BenchmarkSelectDiverse(b *testing.B) {
	cands := benchCandidates(200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		selectDiverse(cands, MaxLimit)
	}
}

// BenchmarkMerge benchmarks deduplication and score blending over a
// source mix with heavy key overlap.
func BenchmarkMerge(b *testing.B) {
	boosts := ranking.DefaultBoosts()
	rows := make([]sourcedRow, 0, 300)
	for i := 0; i < 300; i++ {
		rows = append(rows, sourcedRow{
			row: content.Row{
				ID:              fmt.Sprintf("p%d", i%100),
				Kind:            content.KindPost,
				AuthorID:        fmt.Sprintf("a%d", i%11),
				EngagementScore: float64(i % 29),
			},
			provenance: []ranking.Provenance{
				ranking.ProvenanceTrending,
				ranking.ProvenanceFollowed,
				ranking.ProvenanceInterest,
			}[i%3],
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		merge(rows, boosts)
	}
}

// BenchmarkRank benchmarks a full pipeline run against an in-memory
// store with all three source classes active.
func BenchmarkRank(b *testing.B) {
	store := content.NewInMemoryStore()
	ts := time.Now()
	for i := 0; i < 100; i++ {
		store.AddWithMeta(content.Row{
			ID:              fmt.Sprintf("p%d", i),
			Kind:            content.KindPost,
			AuthorID:        fmt.Sprintf("a%d", i%9),
			EngagementScore: float64(i),
			CreatedAt:       ts,
		}, "approved", "cat-go")
	}

	r := NewRanker(store, nil, RankerConfig{})
	rc := RankingContext{
		UserID:              "bench-user",
		FollowedAuthorIDs:   map[string]struct{}{"a1": {}, "a2": {}},
		InterestCategoryIDs: []string{"cat-go"},
		MatureFilterEnabled: true,
		Limit:               DefaultLimit,
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Rank(ctx, rc); err != nil {
			b.Fatalf("rank: %v", err)
		}
	}
}
