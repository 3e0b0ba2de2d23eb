package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// HistoryRepository keeps one JSONB document per night
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

var _ history.Repository = (*HistoryRepository)(nil)

type historyQueries struct {
	tx *sql.Tx
}

func newHistoryQueries(tx *sql.Tx) *historyQueries {
	return &historyQueries{tx: tx}
}

func (q *historyQueries) upsertNight(ctx context.Context, accountID string, night models.NightRecord) error {
	doc, err := history.Encode(night)
	if err != nil {
		return err
	}
	winners, err := winnerPlayers(night)
	if err != nil {
		return err
	}

	_, err = q.tx.ExecContext(ctx, `
		INSERT INTO night_history (account_id, night_id, night_date, mode_type, winner_team_id, winner_players, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, night_id) DO UPDATE SET
			night_date = EXCLUDED.night_date,
			mode_type = EXCLUDED.mode_type,
			winner_team_id = EXCLUDED.winner_team_id,
			winner_players = EXCLUDED.winner_players,
			document = EXCLUDED.document,
			saved_at = now()`,
		accountID, night.ID, sqlutil.ToSqlTime(night.Date), string(night.Mode.Type),
		sqlutil.ToSqlInt32(night.NightWinnerTeamID), winners, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert night %s: %w", night.ID, err)
	}
	return nil
}

// winnerPlayers snapshots the champion roster so it can be queried without decoding documents
func winnerPlayers(night models.NightRecord) (pqtype.NullRawMessage, error) {
	if night.NightWinnerTeamID == nil {
		return pqtype.NullRawMessage{}, nil
	}
	game, ok := night.FirstGame()
	if !ok {
		return pqtype.NullRawMessage{}, nil
	}
	team, ok := game.Team(*night.NightWinnerTeamID)
	if !ok {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(team.Players)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to encode winner players: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: len(raw) > 0}, nil
}

// LoadHistory returns the account's nights in save order
func (r *HistoryRepository) LoadHistory(ctx context.Context, accountID string) ([]models.NightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT document FROM night_history
		WHERE account_id = $1
		ORDER BY saved_at, night_id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nights: %w", err)
	}
	defer rows.Close()

	nights := history.NewCollector(0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan night: %w", err)
		}
		nights.Add(doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nights: %w", err)
	}
	return nights.Result()
}

// SaveHistory upserts nights by id in one transaction
func (r *HistoryRepository) SaveHistory(ctx context.Context, accountID string, nights []models.NightRecord) error {
	return sqlutil.Run(ctx, r.db, newHistoryQueries, func(q *historyQueries) error {
		for _, n := range nights {
			if err := q.upsertNight(ctx, accountID, n); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearHistory deletes the account's nights
func (r *HistoryRepository) ClearHistory(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM night_history WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("failed to clear nights: %w", err)
	}
	return nil
}

// ChampionCounts returns how many nights each player name was on the winning side, read from
// the winner snapshot column.
func (r *HistoryRepository) ChampionCounts(ctx context.Context, accountID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT winner_players FROM night_history
		WHERE account_id = $1 AND winner_players IS NOT NULL`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query champions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var raw pqtype.NullRawMessage
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan champions: %w", err)
		}
		if !raw.Valid {
			continue
		}
		var players []models.Player
		if err := json.Unmarshal(raw.RawMessage, &players); err != nil {
			return nil, fmt.Errorf("%w: winner players: %v", history.ErrMalformedRecord, err)
		}
		for _, p := range players {
			counts[p.Name]++
		}
	}
	return counts, rows.Err()
}
