package content

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// Table and view names per kind. Trending reads go through materialized
// views refreshed upstream; the views already exclude unapproved rows.
const (
	postsTable          = "posts"
	lessonsTable        = "lessons"
	trendingPostsView   = "mv_trending_posts"
	trendingLessonsView = "mv_trending_lessons"
)

// PostgresStore implements Store against the platform's PostgreSQL schema.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// textColumn returns the display-text column for a kind: posts carry a
// body snippet, lessons carry a title.
func textColumn(kind Kind) string {
	if kind == KindLesson {
		return "title"
	}
	return "body"
}

func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindPost:
		return postsTable, nil
	case KindLesson:
		return lessonsTable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func trendingViewFor(kind Kind) (string, error) {
	switch kind {
	case KindPost:
		return trendingPostsView, nil
	case KindLesson:
		return trendingLessonsView, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// FetchTrending reads the top rows from the trending materialized view.
func (s *PostgresStore) FetchTrending(ctx context.Context, kind Kind, limit int) ([]Row, error) {
	view, err := trendingViewFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, author_id, engagement_score, is_mature, %s, created_at
		FROM %s
		ORDER BY engagement_score DESC
		LIMIT $1`, textColumn(kind), view)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch trending %s: %w", kind, err)
	}
	defer rows.Close()

	return s.scanRows(rows, kind)
}

// FetchByAuthors reads the newest approved rows authored by authorIDs.
func (s *PostgresStore) FetchByAuthors(ctx context.Context, kind Kind, authorIDs []string, limit int) ([]Row, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, author_id, engagement_score, is_mature, %s, created_at
		FROM %s
		WHERE moderation_status = 'approved'
		  AND author_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`, textColumn(kind), table)

	rows, err := s.db.QueryContext(ctx, query, pq.Array(authorIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s by authors: %w", kind, err)
	}
	defer rows.Close()

	return s.scanRows(rows, kind)
}

// FetchByCategories reads the highest-engagement approved rows in categoryIDs.
func (s *PostgresStore) FetchByCategories(ctx context.Context, kind Kind, categoryIDs []string, limit int) ([]Row, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, author_id, engagement_score, is_mature, %s, created_at
		FROM %s
		WHERE moderation_status = 'approved'
		  AND category_id = ANY($1)
		ORDER BY engagement_score DESC
		LIMIT $2`, textColumn(kind), table)

	rows, err := s.db.QueryContext(ctx, query, pq.Array(categoryIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s by categories: %w", kind, err)
	}
	defer rows.Close()

	return s.scanRows(rows, kind)
}

// scanRows converts SQL rows into Rows, routing the text column into
// Body for posts and Title for lessons. Rows with NULL author or score
// are kept with zero values rather than rejected; the ranking pipeline
// validates them at ingestion.
func (s *PostgresStore) scanRows(rows *sql.Rows, kind Kind) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var (
			r        Row
			authorID sql.NullString
			score    sql.NullFloat64
			isMature sql.NullBool
			text     sql.NullString
		)
		if err := rows.Scan(&r.ID, &authorID, &score, &isMature, &text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		r.Kind = kind
		r.AuthorID = authorID.String
		r.EngagementScore = score.Float64
		r.IsMature = isMature.Bool
		if kind == KindLesson {
			r.Title = text.String
		} else {
			r.Body = text.String
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind, err)
	}
	return out, nil
}

// RefreshTrendingViews rebuilds both trending materialized views.
// CONCURRENTLY keeps feed reads unblocked during the rebuild; it relies
// on the unique id indexes the migrations create on each view.
func (s *PostgresStore) RefreshTrendingViews(ctx context.Context) error {
	for _, view := range []string{trendingPostsView, trendingLessonsView} {
		query := "REFRESH MATERIALIZED VIEW CONCURRENTLY " + view
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("refresh %s: %w", view, err)
		}
	}
	return nil
}
