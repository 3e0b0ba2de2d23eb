package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
)

// RosterRepository keeps roster rows through a pgx pool
type RosterRepository struct {
	pool *pgxpool.Pool
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(pool *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{pool: pool}
}

var _ roster.Repository = (*RosterRepository)(nil)

// LoadPlayers returns the account's roster
func (r *RosterRepository) LoadPlayers(ctx context.Context, accountID string) ([]models.Player, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT player_id, name, COALESCE(avatar, '') FROM roster_players
		WHERE account_id = $1
		ORDER BY name`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}

	players, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Player, error) {
		var p models.Player
		err := row.Scan(&p.ID, &p.Name, &p.Avatar)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan players: %w", err)
	}
	if players == nil {
		players = []models.Player{}
	}
	return players, nil
}

// SavePlayers replaces the account's roster in one transaction
func (r *RosterRepository) SavePlayers(ctx context.Context, accountID string, players []models.Player) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM roster_players WHERE account_id = $1`, accountID); err != nil {
			return fmt.Errorf("failed to clear players: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range players {
			batch.Queue(`
				INSERT INTO roster_players (account_id, player_id, name, avatar)
				VALUES ($1, $2, $3, NULLIF($4, ''))`,
				accountID, p.ID, p.Name, p.Avatar)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert players: %w", err)
		}
		return nil
	})
}

// UpdatePlayer rewrites the name and avatar of an existing roster entry
func (r *RosterRepository) UpdatePlayer(ctx context.Context, accountID string, player models.Player) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE roster_players SET name = $3, avatar = NULLIF($4, '')
		WHERE account_id = $1 AND player_id = $2`,
		accountID, player.ID, player.Name, player.Avatar)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	return nil
}

// DeletePlayer removes one roster entry
func (r *RosterRepository) DeletePlayer(ctx context.Context, accountID, playerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM roster_players WHERE account_id = $1 AND player_id = $2`, accountID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	return nil
}

// ClearPlayers deletes the account's roster
func (r *RosterRepository) ClearPlayers(ctx context.Context, accountID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM roster_players WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	return nil
}
