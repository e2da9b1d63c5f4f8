package prefs

import (
	"context"
	"testing"
)

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()
	if !p.MatureFilterEnabled {
		t.Error("mature filter must default to enabled")
	}
	if len(p.InterestCategoryIDs) != 0 {
		t.Error("default preferences must have no interests")
	}
}

func TestInMemoryStore_MissingUserGetsDefaults(t *testing.T) {
	store := NewInMemoryStore()

	p, err := store.Preferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("missing profile must not be an error, got %v", err)
	}
	if !p.MatureFilterEnabled {
		t.Error("expected default mature filter for missing profile")
	}
}

func TestInMemoryStore_StoredPreferences(t *testing.T) {
	store := NewInMemoryStore()
	store.Set("u1", Preferences{
		MatureFilterEnabled: false,
		InterestCategoryIDs: []string{"cat-math", "cat-art"},
	})

	p, err := store.Preferences(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Preferences failed: %v", err)
	}
	if p.MatureFilterEnabled {
		t.Error("expected mature filter disabled")
	}
	if len(p.InterestCategoryIDs) != 2 {
		t.Errorf("expected 2 interests, got %d", len(p.InterestCategoryIDs))
	}
}
