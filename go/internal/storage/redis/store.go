package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"github.com/redis/go-redis/v9"
)

// Store implements the history and roster repositories on Redis hashes.
// Hash fields are record ids, so saving a night twice overwrites it.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a Store over a single-node or cluster client
func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

var (
	_ history.Repository = (*Store)(nil)
	_ roster.Repository  = (*Store)(nil)
)

func nightsKey(accountID string) string {
	return fmt.Sprintf(NightsKeyPrefix, accountID)
}

func playersKey(accountID string) string {
	return fmt.Sprintf(PlayersKeyPrefix, accountID)
}

// LoadHistory returns the account's nights
func (s *Store) LoadHistory(ctx context.Context, accountID string) ([]models.NightRecord, error) {
	fields, err := s.client.HGetAll(ctx, nightsKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read nights for %s: %w", accountID, err)
	}

	nights := history.NewCollector(len(fields))
	for _, doc := range fields {
		nights.Add([]byte(doc))
	}
	return nights.Result()
}

// SaveHistory upserts nights by id
func (s *Store) SaveHistory(ctx context.Context, accountID string, nights []models.NightRecord) error {
	if len(nights) == 0 {
		return nil
	}

	values := make(map[string]interface{}, len(nights))
	for _, n := range nights {
		doc, err := history.Encode(n)
		if err != nil {
			return err
		}
		values[n.ID] = string(doc)
	}
	if err := s.client.HSet(ctx, nightsKey(accountID), values).Err(); err != nil {
		return fmt.Errorf("failed to write nights for %s: %w", accountID, err)
	}
	return nil
}

// ClearHistory deletes the account's nights
func (s *Store) ClearHistory(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, nightsKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to clear nights for %s: %w", accountID, err)
	}
	return nil
}

// LoadPlayers returns the account's roster
func (s *Store) LoadPlayers(ctx context.Context, accountID string) ([]models.Player, error) {
	fields, err := s.client.HGetAll(ctx, playersKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read players for %s: %w", accountID, err)
	}

	players := make([]models.Player, 0, len(fields))
	for id, doc := range fields {
		var p models.Player
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, fmt.Errorf("failed to decode player %s: %w", id, err)
		}
		players = append(players, p)
	}
	return players, nil
}

// SavePlayers replaces the account's roster atomically
func (s *Store) SavePlayers(ctx context.Context, accountID string, players []models.Player) error {
	key := playersKey(accountID)
	values := make(map[string]interface{}, len(players))
	for _, p := range players {
		doc, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode player %s: %w", p.ID, err)
		}
		values[p.ID] = string(doc)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write players for %s: %w", accountID, err)
	}
	return nil
}

// UpdatePlayer rewrites an existing roster entry; unknown ids are ignored
func (s *Store) UpdatePlayer(ctx context.Context, accountID string, player models.Player) error {
	key := playersKey(accountID)
	exists, err := s.client.HExists(ctx, key, player.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to look up player %s: %w", player.ID, err)
	}
	if !exists {
		return nil
	}

	doc, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to encode player %s: %w", player.ID, err)
	}
	if err := s.client.HSet(ctx, key, player.ID, string(doc)).Err(); err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	return nil
}

// DeletePlayer removes one roster entry
func (s *Store) DeletePlayer(ctx context.Context, accountID, playerID string) error {
	if err := s.client.HDel(ctx, playersKey(accountID), playerID).Err(); err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	return nil
}

// ClearPlayers deletes the account's roster
func (s *Store) ClearPlayers(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, playersKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to clear players for %s: %w", accountID, err)
	}
	return nil
}
