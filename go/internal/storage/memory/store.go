// Package memory is an in-process history and roster backend. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// Store keeps histories and rosters per account
type Store struct {
	mu      sync.RWMutex
	nights  map[string][]models.NightRecord
	players map[string][]models.Player
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		nights:  make(map[string][]models.NightRecord),
		players: make(map[string][]models.Player),
	}
}

// LoadHistory returns a copy of the account's nights in save order
func (s *Store) LoadHistory(_ context.Context, accountID string) ([]models.NightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.nights[accountID]
	out := make([]models.NightRecord, len(stored))
	for i, n := range stored {
		out[i] = n.Clone()
	}
	return out, nil
}

// SaveHistory upserts nights by id
func (s *Store) SaveHistory(_ context.Context, accountID string, nights []models.NightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.nights[accountID]
	for _, n := range nights {
		replaced := false
		for i := range stored {
			if stored[i].ID == n.ID {
				stored[i] = n.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			stored = append(stored, n.Clone())
		}
	}
	s.nights[accountID] = stored
	return nil
}

// ClearHistory drops the account's nights
func (s *Store) ClearHistory(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nights, accountID)
	return nil
}

// LoadPlayers returns a copy of the account's roster
func (s *Store) LoadPlayers(_ context.Context, accountID string) ([]models.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := models.ClonePlayers(s.players[accountID])
	if out == nil {
		out = []models.Player{}
	}
	return out, nil
}

// SavePlayers replaces the account's roster
func (s *Store) SavePlayers(_ context.Context, accountID string, players []models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[accountID] = models.ClonePlayers(players)
	return nil
}

// UpdatePlayer replaces the roster entry with the same id, if any
func (s *Store) UpdatePlayer(_ context.Context, accountID string, player models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.players[accountID] {
		if p.ID == player.ID {
			s.players[accountID][i] = player
			return nil
		}
	}
	return nil
}

// DeletePlayer removes the roster entry with the given id
func (s *Store) DeletePlayer(_ context.Context, accountID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.players[accountID][:0:0]
	for _, p := range s.players[accountID] {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	s.players[accountID] = kept
	return nil
}

// ClearPlayers drops the account's roster
func (s *Store) ClearPlayers(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, accountID)
	return nil
}
