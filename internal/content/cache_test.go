package content

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRowCodec_RoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{ID: "p1", Kind: KindPost, AuthorID: "a1", EngagementScore: 4.5, Body: "hello", CreatedAt: created},
		{ID: "l1", Kind: KindLesson, IsMature: true, Title: "Intro", CreatedAt: created},
	}

	data, err := encodeRows(rows)
	if err != nil {
		t.Fatalf("encodeRows failed: %v", err)
	}

	decoded, err := decodeRows(data)
	if err != nil {
		t.Fatalf("decodeRows failed: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(decoded))
	}
	if decoded[0].ID != "p1" || decoded[0].EngagementScore != 4.5 {
		t.Errorf("post row corrupted: %+v", decoded[0])
	}
	if !decoded[1].IsMature || decoded[1].Title != "Intro" {
		t.Errorf("lesson row corrupted: %+v", decoded[1])
	}
	if !decoded[0].CreatedAt.Equal(created) {
		t.Errorf("timestamp not preserved: %v", decoded[0].CreatedAt)
	}
}

func TestDecodeRows_Garbage(t *testing.T) {
	if _, err := decodeRows([]byte{0xff, 0x00, 0x01}); err == nil {
		t.Error("expected error decoding garbage payload")
	}
}

// TestTrendingCache_FallsBackWhenRedisUnavailable verifies the central
// resilience contract of the cache: if Redis cannot be reached, trending
// reads transparently hit the inner store.
func TestTrendingCache_FallsBackWhenRedisUnavailable(t *testing.T) {
	inner := NewInMemoryStore()
	inner.Add(Row{ID: "p1", Kind: KindPost, EngagementScore: 3})

	// Port 1 is reserved; nothing listens there.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache := NewTrendingCache(client, inner, 0, nil)

	rows, err := cache.FetchTrending(context.Background(), KindPost, 10)
	if err != nil {
		t.Fatalf("expected fallback to inner store, got error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "p1" {
		t.Errorf("expected inner store rows, got %+v", rows)
	}
}

func TestTrendingCache_DelegatesPersonalizedFetches(t *testing.T) {
	inner := NewInMemoryStore()
	inner.Add(Row{ID: "p1", Kind: KindPost, AuthorID: "a1", CreatedAt: time.Now()})

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	cache := NewTrendingCache(client, inner, 0, nil)

	rows, err := cache.FetchByAuthors(context.Background(), KindPost, []string{"a1"}, 10)
	if err != nil {
		t.Fatalf("FetchByAuthors failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 row from inner store, got %d", len(rows))
	}
}
