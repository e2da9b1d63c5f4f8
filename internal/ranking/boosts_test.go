package ranking

import (
	"testing"
)

func TestDefaultBoosts_Ordering(t *testing.T) {
	b := DefaultBoosts()
	if err := b.Validate(); err != nil {
		t.Fatalf("default boosts must validate: %v", err)
	}
	if b.Followed <= b.Interest || b.Interest <= b.Trending {
		t.Errorf("boost ordering broken: followed=%v interest=%v trending=%v",
			b.Followed, b.Interest, b.Trending)
	}
}

func TestBoosts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		boosts  Boosts
		wantErr bool
	}{
		{"default ordering", Boosts{Followed: 20, Interest: 10, Trending: 0}, false},
		{"custom ordering", Boosts{Followed: 5, Interest: 2, Trending: 1}, false},
		{"negative trending", Boosts{Followed: 20, Interest: 10, Trending: -1}, true},
		{"interest below trending", Boosts{Followed: 20, Interest: 0, Trending: 5}, true},
		{"followed equals interest", Boosts{Followed: 10, Interest: 10, Trending: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.boosts.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestBoosts_MaxNotSum(t *testing.T) {
	b := DefaultBoosts()

	// A candidate that is both trending and followed gets only the
	// followed boost.
	got := b.FinalScore(5, []Provenance{ProvenanceTrending, ProvenanceFollowed})
	want := 5 + b.Followed
	if got != want {
		t.Errorf("FinalScore = %v, want %v (max boost, not sum)", got, want)
	}

	// All three provenances still yield only the followed boost.
	got = b.FinalScore(5, []Provenance{ProvenanceTrending, ProvenanceInterest, ProvenanceFollowed})
	if got != want {
		t.Errorf("FinalScore with all provenances = %v, want %v", got, want)
	}
}

func TestBoosts_EmptyProvenance(t *testing.T) {
	b := DefaultBoosts()
	if got := b.FinalScore(7, nil); got != 7 {
		t.Errorf("FinalScore with no provenance = %v, want base score 7", got)
	}
}

func TestBoosts_Monotonicity(t *testing.T) {
	b := DefaultBoosts()

	followed := b.FinalScore(5, []Provenance{ProvenanceFollowed})
	interest := b.FinalScore(5, []Provenance{ProvenanceInterest})
	trending := b.FinalScore(5, []Provenance{ProvenanceTrending})

	if followed <= interest {
		t.Errorf("followed (%v) must outrank interest (%v) at equal base", followed, interest)
	}
	if interest <= trending {
		t.Errorf("interest (%v) must outrank trending (%v) at equal base", interest, trending)
	}
}

func TestPrimary(t *testing.T) {
	tests := []struct {
		name string
		in   []Provenance
		want Provenance
	}{
		{"empty set", nil, ProvenanceTrending},
		{"trending only", []Provenance{ProvenanceTrending}, ProvenanceTrending},
		{"interest beats trending", []Provenance{ProvenanceTrending, ProvenanceInterest}, ProvenanceInterest},
		{"followed beats all", []Provenance{ProvenanceTrending, ProvenanceInterest, ProvenanceFollowed}, ProvenanceFollowed},
		{"order independent", []Provenance{ProvenanceFollowed, ProvenanceTrending}, ProvenanceFollowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Primary(tt.in); got != tt.want {
				t.Errorf("Primary(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
