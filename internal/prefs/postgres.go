package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
)

// profilePrefs mirrors the loosely-typed preferences JSONB column on the
// profiles table. Only the fields the ranker needs are decoded; unknown
// fields are ignored rather than rejected.
type profilePrefs struct {
	ContentPrefs struct {
		MatureFilter *bool `json:"mature_filter"`
	} `json:"content_prefs"`
	Interests []string `json:"interests"`
}

// PostgresStore implements PreferenceStore against the profiles and
// categories tables.
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

// Preferences reads the stored preference blob for userID and resolves
// interest slugs to category IDs. A missing profile, NULL blob, or
// malformed JSON all degrade to DefaultPreferences.
func (s *PostgresStore) Preferences(ctx context.Context, userID string) (Preferences, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT preferences FROM profiles WHERE id = $1`, userID).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return DefaultPreferences(), nil
	case err != nil:
		return DefaultPreferences(), fmt.Errorf("query profile preferences: %w", err)
	}

	prefs := DefaultPreferences()
	if !raw.Valid || raw.String == "" {
		return prefs, nil
	}

	var blob profilePrefs
	if err := json.Unmarshal([]byte(raw.String), &blob); err != nil {
		// Malformed profile blobs are tolerated; the user just gets the
		// default experience.
		s.logger.Warn("malformed preferences blob, using defaults",
			"user_id", userID, "error", err)
		return prefs, nil
	}

	if blob.ContentPrefs.MatureFilter != nil && !*blob.ContentPrefs.MatureFilter {
		prefs.MatureFilterEnabled = false
	}

	if len(blob.Interests) > 0 {
		ids, err := s.categoryIDs(ctx, blob.Interests)
		if err != nil {
			return prefs, err
		}
		prefs.InterestCategoryIDs = ids
	}

	return prefs, nil
}

// categoryIDs resolves interest slugs to category IDs. Slugs with no
// matching category are silently dropped.
func (s *PostgresStore) categoryIDs(ctx context.Context, slugs []string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM categories WHERE slug = ANY($1)`, pq.Array(slugs))
	if err != nil {
		return nil, fmt.Errorf("resolve interest categories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category ids: %w", err)
	}
	return ids, nil
}
