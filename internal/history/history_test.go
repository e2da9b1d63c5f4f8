package history

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemoryStore_RecentlySeen(t *testing.T) {
	store := NewInMemoryStore()
	store.Record("u1", Key{Kind: "post", ID: "p1"})
	store.Record("u1", Key{Kind: "lesson", ID: "l1"})

	seen, err := store.RecentlySeen(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("RecentlySeen failed: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(seen))
	}
	if _, ok := seen[Key{Kind: "post", ID: "p1"}]; !ok {
		t.Error("expected post p1 in seen set")
	}
}

func TestInMemoryStore_LimitKeepsNewest(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 5; i++ {
		store.Record("u1", Key{Kind: "post", ID: fmt.Sprintf("p%d", i)})
	}

	seen, err := store.RecentlySeen(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("RecentlySeen failed: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(seen))
	}
	// Most recent records are p4 and p3.
	if _, ok := seen[Key{Kind: "post", ID: "p4"}]; !ok {
		t.Error("expected newest interaction retained")
	}
	if _, ok := seen[Key{Kind: "post", ID: "p0"}]; ok {
		t.Error("expected oldest interaction dropped")
	}
}

func TestInMemoryStore_UnknownUserIsEmpty(t *testing.T) {
	store := NewInMemoryStore()

	seen, err := store.RecentlySeen(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("expected no error for unknown user, got %v", err)
	}
	if len(seen) != 0 {
		t.Errorf("expected empty set, got %d", len(seen))
	}
}
