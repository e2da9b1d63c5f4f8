package content

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// InMemoryStore is an in-memory implementation of Store for tests and
// local development. Thread-safe via RWMutex.
//
// Rows added with a Moderation value other than "approved" are excluded
// from every fetch, matching the approved-only contract of the SQL
// implementation.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []memoryRow
}

type memoryRow struct {
	Row
	moderation string
	categoryID string
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Add inserts an approved row with no category.
func (s *InMemoryStore) Add(row Row) {
	s.AddWithMeta(row, "approved", "")
}

// AddWithMeta inserts a row with explicit moderation status and category.
func (s *InMemoryStore) AddWithMeta(row Row, moderation, categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, memoryRow{Row: row, moderation: moderation, categoryID: categoryID})
}

// FetchTrending returns approved rows of kind ordered by engagement
// score descending.
func (s *InMemoryStore) FetchTrending(ctx context.Context, kind Kind, limit int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Row
	for _, r := range s.rows {
		if r.Kind == kind && r.moderation == "approved" {
			out = append(out, r.Row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementScore > out[j].EngagementScore
	})
	return truncate(out, limit), nil
}

// FetchByAuthors returns approved rows of kind by any listed author,
// newest first.
func (s *InMemoryStore) FetchByAuthors(ctx context.Context, kind Kind, authorIDs []string, limit int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(authorIDs) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Row
	for _, r := range s.rows {
		if r.Kind == kind && r.moderation == "approved" && slices.Contains(authorIDs, r.AuthorID) {
			out = append(out, r.Row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return truncate(out, limit), nil
}

// FetchByCategories returns approved rows of kind in any listed
// category, highest engagement first.
func (s *InMemoryStore) FetchByCategories(ctx context.Context, kind Kind, categoryIDs []string, limit int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Row
	for _, r := range s.rows {
		if r.Kind == kind && r.moderation == "approved" && slices.Contains(categoryIDs, r.categoryID) {
			out = append(out, r.Row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementScore > out[j].EngagementScore
	})
	return truncate(out, limit), nil
}

func truncate(rows []Row, limit int) []Row {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
