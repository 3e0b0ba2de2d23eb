// Package postgres stores histories through database/sql and rosters through a pgx pool.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS night_history (
		account_id TEXT NOT NULL,
		night_id TEXT NOT NULL,
		night_date TIMESTAMPTZ,
		mode_type TEXT NOT NULL,
		winner_team_id INTEGER,
		winner_players JSONB,
		document JSONB NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (account_id, night_id)
	)`,
	`CREATE TABLE IF NOT EXISTS roster_players (
		account_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		avatar TEXT,
		PRIMARY KEY (account_id, player_id)
	)`,
}

// Migrate creates the tables both repositories need
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
