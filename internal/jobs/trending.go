package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AmirmLotfy/skrolz/internal/content"
)

// DefaultRefreshInterval is how often the trending refresher runs. It is
// well inside the cache TTL so a single failed cycle never serves stale
// trending rows.
const DefaultRefreshInterval = 5 * time.Minute

// PrimeLimit is how many trending rows per kind get written into the
// cache on each cycle. It comfortably covers the per-request trending
// fetch cap.
const PrimeLimit = 50

// ViewRefresher rebuilds the trending materialized views.
type ViewRefresher interface {
	RefreshTrendingViews(ctx context.Context) error
}

// CachePrimer writes trending rows into the shared cache.
type CachePrimer interface {
	Prime(ctx context.Context, kind content.Kind, rows []content.Row) error
}

// TrendingRefresher periodically rebuilds the trending materialized views
// and re-primes the Redis trending cache from them. The feed path never
// refreshes anything itself; it only reads what this job leaves behind.
type TrendingRefresher struct {
	views   ViewRefresher
	store   content.Store
	cache   CachePrimer
	metrics *Metrics
	logger  *slog.Logger
}

// NewTrendingRefresher wires a refresher. views and cache may be nil, in
// which case the corresponding step is skipped; store must not be nil.
func NewTrendingRefresher(views ViewRefresher, store content.Store, cache CachePrimer, metrics *Metrics, logger *slog.Logger) *TrendingRefresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendingRefresher{
		views:   views,
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Run executes RefreshOnce every interval until ctx is canceled. A zero
// interval uses DefaultRefreshInterval. Errors are logged and counted
// but never stop the loop.
func (r *TrendingRefresher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := r.RefreshOnce(ctx); err != nil && ctx.Err() == nil {
			r.logger.ErrorContext(ctx, "trending refresh failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshOnce runs a single refresh cycle: rebuild the views, then fetch
// fresh rows for every content kind and prime the cache with them.
func (r *TrendingRefresher) RefreshOnce(ctx context.Context) error {
	start := time.Now()
	err := r.refresh(ctx)
	if r.metrics != nil {
		r.metrics.ObserveJobDuration(JobTypeTrendingRefresh, time.Since(start).Seconds())
		status := StatusSuccess
		if err != nil {
			status = StatusFailure
		}
		r.metrics.IncJobsTotal(JobTypeTrendingRefresh, status)
	}
	return err
}

func (r *TrendingRefresher) refresh(ctx context.Context) error {
	if r.views != nil {
		if err := r.views.RefreshTrendingViews(ctx); err != nil {
			if r.metrics != nil {
				r.metrics.IncJobErrors(JobTypeTrendingRefresh, "view_refresh")
			}
			return fmt.Errorf("refresh trending views: %w", err)
		}
	}

	if r.cache == nil {
		return nil
	}

	for _, kind := range content.Kinds {
		rows, err := r.store.FetchTrending(ctx, kind, PrimeLimit)
		if err != nil {
			if r.metrics != nil {
				r.metrics.IncJobErrors(JobTypeCachePrime, "fetch")
			}
			return fmt.Errorf("fetch trending %s: %w", kind, err)
		}
		if err := r.cache.Prime(ctx, kind, rows); err != nil {
			if r.metrics != nil {
				r.metrics.IncJobErrors(JobTypeCachePrime, "cache_write")
			}
			return fmt.Errorf("prime %s: %w", kind, err)
		}
		r.logger.DebugContext(ctx, "trending cache primed",
			"kind", string(kind), "rows", len(rows))
	}
	return nil
}
