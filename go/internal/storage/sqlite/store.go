// Package sqlite stores histories and rosters in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"github.com/mcdev12/dominonight/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// Store implements the history and roster repositories on SQLite
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initDatabase(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	log.Info().Str("path", path).Msg("Opened sqlite store")
	return s, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) initDatabase() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS nights (
			account_id TEXT NOT NULL,
			id TEXT NOT NULL,
			night_date DATETIME,
			mode_type TEXT,
			winner_team_id INTEGER,
			document TEXT NOT NULL,
			saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (account_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			account_id TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			avatar TEXT,
			PRIMARY KEY (account_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_account ON players(account_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// txQueries binds the store's write statements to one transaction
type txQueries struct {
	tx *sql.Tx
}

func newTxQueries(tx *sql.Tx) *txQueries {
	return &txQueries{tx: tx}
}

func (q *txQueries) upsertNight(ctx context.Context, accountID string, night models.NightRecord) error {
	doc, err := history.Encode(night)
	if err != nil {
		return err
	}
	_, err = q.tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO nights (account_id, id, night_date, mode_type, winner_team_id, document)
		VALUES (?, ?, ?, ?, ?, ?)`,
		accountID, night.ID, sqlutil.ToSqlTime(night.Date), string(night.Mode.Type),
		sqlutil.ToSqlInt32(night.NightWinnerTeamID), string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert night %s: %w", night.ID, err)
	}
	return nil
}

func (q *txQueries) insertPlayer(ctx context.Context, accountID string, p models.Player) error {
	_, err := q.tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO players (account_id, id, name, avatar)
		VALUES (?, ?, ?, ?)`,
		accountID, p.ID, p.Name, sqlutil.ToNullString(p.Avatar),
	)
	if err != nil {
		return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
	}
	return nil
}

// LoadHistory returns the account's nights in save order
func (s *Store) LoadHistory(ctx context.Context, accountID string) ([]models.NightRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document FROM nights WHERE account_id = ? ORDER BY saved_at, rowid`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nights: %w", err)
	}
	defer rows.Close()

	nights := history.NewCollector(0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan night: %w", err)
		}
		nights.Add([]byte(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nights: %w", err)
	}
	return nights.Result()
}

// SaveHistory upserts nights by id in one transaction
func (s *Store) SaveHistory(ctx context.Context, accountID string, nights []models.NightRecord) error {
	return sqlutil.Run(ctx, s.db, newTxQueries, func(q *txQueries) error {
		for _, n := range nights {
			if err := q.upsertNight(ctx, accountID, n); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearHistory deletes the account's nights
func (s *Store) ClearHistory(ctx context.Context, accountID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM nights WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to clear nights: %w", err)
	}
	return nil
}

// LoadPlayers returns the account's roster
func (s *Store) LoadPlayers(ctx context.Context, accountID string) ([]models.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, avatar FROM players WHERE account_id = ? ORDER BY name`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var (
			p      models.Player
			avatar sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &avatar); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.Avatar = sqlutil.FromSqlString(avatar, "")
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// SavePlayers replaces the account's roster in one transaction
func (s *Store) SavePlayers(ctx context.Context, accountID string, players []models.Player) error {
	return sqlutil.Run(ctx, s.db, newTxQueries, func(q *txQueries) error {
		if _, err := q.tx.ExecContext(ctx, `DELETE FROM players WHERE account_id = ?`, accountID); err != nil {
			return fmt.Errorf("failed to clear players: %w", err)
		}
		for _, p := range players {
			if err := q.insertPlayer(ctx, accountID, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdatePlayer rewrites the name and avatar of an existing roster entry
func (s *Store) UpdatePlayer(ctx context.Context, accountID string, player models.Player) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE players SET name = ?, avatar = ? WHERE account_id = ? AND id = ?`,
		player.Name, sqlutil.ToNullString(player.Avatar), accountID, player.ID)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	return nil
}

// DeletePlayer removes one roster entry
func (s *Store) DeletePlayer(ctx context.Context, accountID, playerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE account_id = ? AND id = ?`, accountID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	return nil
}

// ClearPlayers deletes the account's roster
func (s *Store) ClearPlayers(ctx context.Context, accountID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	return nil
}

var (
	_ history.Repository = (*Store)(nil)
	_ roster.Repository  = (*Store)(nil)
)
