package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// PostgresStore implements InteractionStore against the
// user_interactions table.
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

// RecentlySeen returns the newest interaction keys for userID.
func (s *PostgresStore) RecentlySeen(ctx context.Context, userID string, limit int) (map[Key]struct{}, error) {
	if limit <= 0 {
		limit = DefaultSeenLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content_type, content_id
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}
	defer rows.Close()

	seen := make(map[Key]struct{})
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Kind, &k.ID); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		seen[k] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return seen, nil
}
