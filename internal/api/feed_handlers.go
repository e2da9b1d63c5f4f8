package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/AmirmLotfy/skrolz/internal/content"
	"github.com/AmirmLotfy/skrolz/internal/feed"
	"github.com/AmirmLotfy/skrolz/internal/history"
	"github.com/AmirmLotfy/skrolz/internal/middleware"
	"github.com/AmirmLotfy/skrolz/internal/prefs"
	"github.com/AmirmLotfy/skrolz/internal/social"
)

// FeedRanker runs one ranking request. Implemented by feed.Ranker.
type FeedRanker interface {
	Rank(ctx context.Context, rc feed.RankingContext) (*feed.Result, error)
}

// FeedHandlers serves the feed ranking endpoints. It assembles the
// per-request ranking context from the social graph, preference, and
// history stores, then delegates to the ranker.
type FeedHandlers struct {
	ranker  FeedRanker
	graph   social.GraphStore
	prefs   prefs.PreferenceStore
	history history.InteractionStore
	logger  *slog.Logger
}

// NewFeedHandlers creates the feed handler set.
func NewFeedHandlers(ranker FeedRanker, graph social.GraphStore, prefStore prefs.PreferenceStore, interactions history.InteractionStore, logger *slog.Logger) *FeedHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandlers{
		ranker:  ranker,
		graph:   graph,
		prefs:   prefStore,
		history: interactions,
		logger:  logger,
	}
}

// feedRequest is the body accepted by both feed endpoints.
type feedRequest struct {
	Limit       *int   `json:"limit,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	UseCurated  bool   `json:"use_curated,omitempty"`
}

// feedResponse is the success envelope.
type feedResponse struct {
	Items    []feed.RankedItem    `json:"items"`
	Warnings []feed.SourceWarning `json:"warnings,omitempty"`
}

// RankFeed handles POST /feed/rank: the personalized feed for the
// authenticated user, or trending content for anonymous callers.
func (h *FeedHandlers) RankFeed(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// Recommendations handles POST /feed/recommendations: the same pipeline
// with recently seen content excluded, used as the fallback list when
// the main feed runs dry.
func (h *FeedHandlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *FeedHandlers) serve(w http.ResponseWriter, r *http.Request, excludeSeen bool) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	rc := h.buildContext(ctx, req, excludeSeen)

	result, err := h.ranker.Rank(ctx, rc)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrInvalidLimit):
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidLimit, "limit must be positive")
		case errors.Is(err, content.ErrUnknownKind):
			WriteError(w, ctx, http.StatusBadRequest, ErrCodeInvalidContentType, "unknown content_type")
		default:
			h.logger.ErrorContext(ctx, "feed ranking failed", "error", err)
			WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to rank feed")
		}
		return
	}

	writeJSON(w, ctx, http.StatusOK, feedResponse{
		Items:    result.Items,
		Warnings: result.Warnings,
	})
}

func (h *FeedHandlers) decodeRequest(w http.ResponseWriter, r *http.Request) (feedRequest, bool) {
	var req feedRequest
	if r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body")
			return feedRequest{}, false
		}
	}

	if req.Limit != nil && *req.Limit <= 0 {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeInvalidLimit, "limit must be positive")
		return feedRequest{}, false
	}
	if _, err := content.ParseKind(req.ContentType); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeInvalidContentType, "unknown content_type")
		return feedRequest{}, false
	}
	return req, true
}

// buildContext assembles the ranking context. Personalization inputs
// are fetched concurrently; a failing store degrades that input to its
// default instead of failing the request.
func (h *FeedHandlers) buildContext(ctx context.Context, req feedRequest, excludeSeen bool) feed.RankingContext {
	rc := feed.RankingContext{
		UserID:              middleware.GetUserID(ctx),
		MatureFilterEnabled: true,
		Limit:               feed.DefaultLimit,
		Kind:                content.Kind(req.ContentType),
		Curated:             req.UseCurated,
	}
	if req.Limit != nil {
		rc.Limit = *req.Limit
	}

	if rc.UserID == "" {
		return rc
	}

	var (
		wg      sync.WaitGroup
		blocked map[string]struct{}
		follows map[string]struct{}
		p       prefs.Preferences
		seen    map[history.Key]struct{}
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if blocked, err = h.graph.BlockedAuthors(ctx, rc.UserID); err != nil {
			h.logger.WarnContext(ctx, "failed to load blocked authors", "user_id", rc.UserID, "error", err)
			blocked = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if follows, err = h.graph.FollowedAuthors(ctx, rc.UserID); err != nil {
			h.logger.WarnContext(ctx, "failed to load followed authors", "user_id", rc.UserID, "error", err)
			follows = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if p, err = h.prefs.Preferences(ctx, rc.UserID); err != nil {
			h.logger.WarnContext(ctx, "failed to load preferences", "user_id", rc.UserID, "error", err)
			p = prefs.DefaultPreferences()
		}
	}()
	if excludeSeen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if seen, err = h.history.RecentlySeen(ctx, rc.UserID, history.DefaultSeenLimit); err != nil {
				h.logger.WarnContext(ctx, "failed to load interaction history", "user_id", rc.UserID, "error", err)
				seen = nil
			}
		}()
	}
	wg.Wait()

	rc.BlockedAuthorIDs = blocked
	rc.FollowedAuthorIDs = follows
	rc.MatureFilterEnabled = p.MatureFilterEnabled
	rc.InterestCategoryIDs = p.InterestCategoryIDs

	if len(seen) > 0 {
		rc.ExcludeSeen = make(map[feed.ContentKey]struct{}, len(seen))
		for key := range seen {
			rc.ExcludeSeen[feed.ContentKey{Kind: content.Kind(key.Kind), ID: key.ID}] = struct{}{}
		}
	}

	return rc
}

func writeJSON(w http.ResponseWriter, ctx context.Context, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
