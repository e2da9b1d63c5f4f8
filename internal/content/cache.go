package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
)

// Trending cache keys are versioned so an encoding change never has to
// decode stale payloads; bump the version when the Row shape changes.
const trendingKeyPrefix = "skrolz:trending:v1:"

// DefaultTrendingTTL is how long primed trending rows stay valid. The
// refresh job re-primes well inside this window; the TTL only bounds
// staleness if that job stalls.
const DefaultTrendingTTL = 10 * time.Minute

// TrendingCache serves trending rows from Redis, falling back to the
// wrapped Store on a miss or any Redis error. Hot feed traffic therefore
// hits Postgres only when the cache is cold or Redis is down; the
// fallback keeps a Redis outage invisible to callers.
//
// Payloads are CBOR-encoded row slices written by Prime.
type TrendingCache struct {
	client *redis.Client
	inner  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewTrendingCache creates a TrendingCache over inner. A zero ttl uses
// DefaultTrendingTTL.
func NewTrendingCache(client *redis.Client, inner Store, ttl time.Duration, logger *slog.Logger) *TrendingCache {
	if ttl <= 0 {
		ttl = DefaultTrendingTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendingCache{client: client, inner: inner, ttl: ttl, logger: logger}
}

func trendingKey(kind Kind) string {
	return trendingKeyPrefix + string(kind)
}

// FetchTrending returns cached trending rows for kind, truncated to limit.
// Cache misses and decode failures fall through to the inner store.
func (c *TrendingCache) FetchTrending(ctx context.Context, kind Kind, limit int) ([]Row, error) {
	data, err := c.client.Get(ctx, trendingKey(kind)).Bytes()
	switch {
	case err == nil:
		rows, decErr := decodeRows(data)
		if decErr == nil {
			if len(rows) > limit {
				rows = rows[:limit]
			}
			return rows, nil
		}
		c.logger.Warn("trending cache payload undecodable, falling back",
			"kind", string(kind), "error", decErr)
	case errors.Is(err, redis.Nil):
		// cold cache
	default:
		c.logger.Warn("trending cache read failed, falling back",
			"kind", string(kind), "error", err)
	}

	return c.inner.FetchTrending(ctx, kind, limit)
}

// FetchByAuthors delegates to the inner store; follow feeds are too
// personal to share a cache entry.
func (c *TrendingCache) FetchByAuthors(ctx context.Context, kind Kind, authorIDs []string, limit int) ([]Row, error) {
	return c.inner.FetchByAuthors(ctx, kind, authorIDs, limit)
}

// FetchByCategories delegates to the inner store.
func (c *TrendingCache) FetchByCategories(ctx context.Context, kind Kind, categoryIDs []string, limit int) ([]Row, error) {
	return c.inner.FetchByCategories(ctx, kind, categoryIDs, limit)
}

// Prime writes trending rows for kind into Redis. Called by the
// trending refresh job after it rebuilds the materialized views, and by
// tests.
func (c *TrendingCache) Prime(ctx context.Context, kind Kind, rows []Row) error {
	data, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("encode trending rows: %w", err)
	}
	if err := c.client.Set(ctx, trendingKey(kind), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("prime trending cache for %s: %w", kind, err)
	}
	return nil
}

// encodeRows serializes rows as CBOR. CBOR keeps hot payloads compact
// and preserves timestamps without string round-trips.
func encodeRows(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	enc := cbor.NewEncoder(&buf)
	if err := enc.Encode(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeRows deserializes a CBOR row slice.
func decodeRows(data []byte) ([]Row, error) {
	var rows []Row
	dec := cbor.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
