package social

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// PostgresGraph implements GraphStore against the blocks and follows tables.
type PostgresGraph struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresGraph creates a PostgresGraph.
func NewPostgresGraph(db *sql.DB, logger *slog.Logger) *PostgresGraph {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGraph{db: db, logger: logger}
}

// BlockedAuthors returns the IDs userID has blocked.
func (g *PostgresGraph) BlockedAuthors(ctx context.Context, userID string) (map[string]struct{}, error) {
	return g.idSet(ctx, `SELECT blocked_id FROM blocks WHERE blocker_id = $1`, userID, "blocked")
}

// FollowedAuthors returns the IDs userID follows.
func (g *PostgresGraph) FollowedAuthors(ctx context.Context, userID string) (map[string]struct{}, error) {
	return g.idSet(ctx, `SELECT following_id FROM follows WHERE follower_id = $1`, userID, "followed")
}

func (g *PostgresGraph) idSet(ctx context.Context, query, userID, relation string) (map[string]struct{}, error) {
	rows, err := g.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query %s authors: %w", relation, err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s author: %w", relation, err)
		}
		set[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s authors: %w", relation, err)
	}
	return set, nil
}
