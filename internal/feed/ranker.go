package feed

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AmirmLotfy/skrolz/internal/content"
	"github.com/AmirmLotfy/skrolz/internal/ranking"
	"github.com/AmirmLotfy/skrolz/internal/tracing"
)

// FetchCaps bounds the rows requested from each source class.
type FetchCaps struct {
	Trending int
	Followed int
	Interest int
}

// DefaultFetchCaps returns the standard per-source caps.
func DefaultFetchCaps() FetchCaps {
	return FetchCaps{
		Trending: TrendingFetchLimit,
		Followed: FollowedFetchLimit,
		Interest: InterestFetchLimit,
	}
}

// RankerConfig carries the optional knobs for a Ranker. Zero values
// fall back to defaults.
type RankerConfig struct {
	// SourceTimeout bounds each individual source fetch.
	SourceTimeout time.Duration

	// Caps overrides the per-source fetch limits.
	Caps FetchCaps

	// Metrics receives pipeline observations. Nil disables metering.
	Metrics *Metrics

	// Logger receives per-source failure warnings.
	Logger *slog.Logger
}

// Ranker runs the full candidate aggregation and ranking pipeline. It
// is safe for concurrent use; every run is built from request-scoped
// state only.
type Ranker struct {
	store         content.Store
	boosts        *ranking.Boosts
	caps          FetchCaps
	sourceTimeout time.Duration
	metrics       *Metrics
	logger        *slog.Logger
}

// NewRanker creates a Ranker over the given content store and boost
// configuration.
func NewRanker(store content.Store, boosts *ranking.Boosts, cfg RankerConfig) *Ranker {
	if boosts == nil {
		boosts = ranking.DefaultBoosts()
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = DefaultSourceTimeout
	}
	if cfg.Caps == (FetchCaps{}) {
		cfg.Caps = DefaultFetchCaps()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Ranker{
		store:         store,
		boosts:        boosts,
		caps:          cfg.Caps,
		sourceTimeout: cfg.SourceTimeout,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}
}

// Rank executes one ranking run: concurrent source fetches, the
// personalization filter, score blending with keyed dedup, the global
// sort, the diversity pass, and assembly. A failing source degrades to
// a warning; only an invalid context fails the run.
func (r *Ranker) Rank(ctx context.Context, rc RankingContext) (*Result, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer("skrolz/feed").Start(ctx, "feed.rank")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("feed.anonymous", rc.UserID == ""),
		attribute.Int("feed.limit", rc.EffectiveLimit()),
		attribute.Bool("feed.curated", rc.Curated),
	)

	start := time.Now()

	specs := r.sourcesFor(rc)
	rows, warnings := r.fetchAll(ctx, specs)
	tracing.AddEvent(ctx, "feed.sources_fetched",
		attribute.Int("rows", len(rows)),
		attribute.Int("failures", len(warnings)))

	rows = personalize(rows, rc)
	tracing.AddEvent(ctx, "feed.personalized", attribute.Int("rows", len(rows)))

	cands := merge(rows, r.boosts)
	rank(cands)
	tracing.AddEvent(ctx, "feed.ranked", attribute.Int("candidates", len(cands)))

	selected := selectDiverse(cands, rc.EffectiveLimit())
	items := assemble(selected, rc)

	r.metrics.ObserveRank(time.Since(start).Seconds(), len(cands))
	span.SetAttributes(
		attribute.Int("feed.sources", len(specs)),
		attribute.Int("feed.source_failures", len(warnings)),
		attribute.Int("feed.candidates", len(cands)),
		attribute.Int("feed.items", len(items)),
	)

	return &Result{Items: items, Warnings: warnings}, nil
}
