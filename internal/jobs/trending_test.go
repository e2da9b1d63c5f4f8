package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AmirmLotfy/skrolz/internal/content"
)

type stubViews struct {
	calls int
	err   error
}

func (s *stubViews) RefreshTrendingViews(ctx context.Context) error {
	s.calls++
	return s.err
}

type stubPrimer struct {
	primed map[content.Kind][]content.Row
	err    error
}

func (s *stubPrimer) Prime(ctx context.Context, kind content.Kind, rows []content.Row) error {
	if s.err != nil {
		return s.err
	}
	if s.primed == nil {
		s.primed = make(map[content.Kind][]content.Row)
	}
	s.primed[kind] = rows
	return nil
}

func TestTrendingRefresher_RefreshOnce(t *testing.T) {
	store := content.NewInMemoryStore()
	store.Add(content.Row{ID: "p1", Kind: content.KindPost, EngagementScore: 9})
	store.Add(content.Row{ID: "p2", Kind: content.KindPost, EngagementScore: 5})
	store.Add(content.Row{ID: "l1", Kind: content.KindLesson, EngagementScore: 7})

	views := &stubViews{}
	primer := &stubPrimer{}
	r := NewTrendingRefresher(views, store, primer, NewMetrics(), nil)

	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce() error: %v", err)
	}

	if views.calls != 1 {
		t.Errorf("expected 1 view refresh, got %d", views.calls)
	}
	if got := len(primer.primed[content.KindPost]); got != 2 {
		t.Errorf("expected 2 primed posts, got %d", got)
	}
	if got := len(primer.primed[content.KindLesson]); got != 1 {
		t.Errorf("expected 1 primed lesson, got %d", got)
	}
}

func TestTrendingRefresher_ViewFailureAborts(t *testing.T) {
	store := content.NewInMemoryStore()
	views := &stubViews{err: errors.New("deadlock")}
	primer := &stubPrimer{}
	m := NewMetrics()
	r := NewTrendingRefresher(views, store, primer, m, nil)

	if err := r.RefreshOnce(context.Background()); err == nil {
		t.Fatal("expected error when view refresh fails")
	}
	if len(primer.primed) != 0 {
		t.Error("cache must not be primed after a failed view refresh")
	}

	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var sawFailure bool
	for _, fam := range families {
		if fam.GetName() != MetricBackgroundJobsTotal {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == StatusFailure {
					sawFailure = true
				}
			}
		}
	}
	if !sawFailure {
		t.Error("expected a failure sample in background_jobs_total")
	}
}

func TestTrendingRefresher_PrimeFailure(t *testing.T) {
	store := content.NewInMemoryStore()
	store.Add(content.Row{ID: "p1", Kind: content.KindPost, EngagementScore: 1})

	primer := &stubPrimer{err: errors.New("redis down")}
	r := NewTrendingRefresher(nil, store, primer, nil, nil)

	if err := r.RefreshOnce(context.Background()); err == nil {
		t.Fatal("expected error when cache prime fails")
	}
}

func TestTrendingRefresher_NilCacheSkipsPriming(t *testing.T) {
	store := content.NewInMemoryStore()
	views := &stubViews{}
	r := NewTrendingRefresher(views, store, nil, nil, nil)

	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce() error: %v", err)
	}
	if views.calls != 1 {
		t.Errorf("expected 1 view refresh, got %d", views.calls)
	}
}

func TestTrendingRefresher_RunStopsOnCancel(t *testing.T) {
	store := content.NewInMemoryStore()
	r := NewTrendingRefresher(nil, store, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, DefaultRefreshInterval)
		close(done)
	}()

	cancel()
	<-done
}
