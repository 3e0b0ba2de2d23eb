// Package roster manages the players registered on an account.
package roster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DefaultAvatar is given to players added without one
const DefaultAvatar = "👤"

// Repository defines what the app layer needs from a roster backend.
// Stores do not enforce unique names; the app does.
type Repository interface {
	LoadPlayers(ctx context.Context, accountID string) ([]models.Player, error)
	SavePlayers(ctx context.Context, accountID string, players []models.Player) error
	UpdatePlayer(ctx context.Context, accountID string, player models.Player) error
	DeletePlayer(ctx context.Context, accountID, playerID string) error
	ClearPlayers(ctx context.Context, accountID string) error
}

// App handles roster business logic
type App struct {
	repo  Repository
	newID func() string
}

// NewApp creates a new roster App
func NewApp(repo Repository) *App {
	return &App{
		repo:  repo,
		newID: uuid.NewString,
	}
}

// ListPlayers returns the account's roster sorted by name
func (a *App) ListPlayers(ctx context.Context, accountID string) ([]models.Player, error) {
	if accountID == "" {
		return nil, fmt.Errorf("validation failed: %w", ErrAccountRequired)
	}

	players, err := a.repo.LoadPlayers(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w: %w", ErrStoreUnavailable, err)
	}
	SortByName(players)
	return players, nil
}

// AddPlayer registers a new player under a fresh id
func (a *App) AddPlayer(ctx context.Context, accountID, name, avatar string) (models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Player{}, fmt.Errorf("validation failed: %w", ErrNameRequired)
	}

	players, err := a.ListPlayers(ctx, accountID)
	if err != nil {
		return models.Player{}, err
	}
	if nameTaken(players, name, "") {
		return models.Player{}, fmt.Errorf("validation failed: %w: %s", ErrDuplicateName, name)
	}

	if strings.TrimSpace(avatar) == "" {
		avatar = DefaultAvatar
	}
	player := models.Player{ID: a.newID(), Name: name, Avatar: avatar}

	if err := a.repo.SavePlayers(ctx, accountID, append(players, player)); err != nil {
		return models.Player{}, fmt.Errorf("failed to save players: %w: %w", ErrStoreUnavailable, err)
	}

	log.Info().
		Str("account_id", accountID).
		Str("player_id", player.ID).
		Str("name", player.Name).
		Msg("Added player to roster")
	return player, nil
}

// UpdatePlayer renames a player and optionally replaces the avatar. An empty avatar keeps the
// current one.
func (a *App) UpdatePlayer(ctx context.Context, accountID, playerID, name, avatar string) (models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Player{}, fmt.Errorf("validation failed: %w", ErrNameRequired)
	}

	players, err := a.ListPlayers(ctx, accountID)
	if err != nil {
		return models.Player{}, err
	}
	existing, ok := findByID(players, playerID)
	if !ok {
		return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if nameTaken(players, name, playerID) {
		return models.Player{}, fmt.Errorf("validation failed: %w: %s", ErrDuplicateName, name)
	}

	updated := existing
	updated.Name = name
	if strings.TrimSpace(avatar) != "" {
		updated.Avatar = avatar
	}

	if err := a.repo.UpdatePlayer(ctx, accountID, updated); err != nil {
		return models.Player{}, fmt.Errorf("failed to update player: %w: %w", ErrStoreUnavailable, err)
	}

	log.Info().
		Str("account_id", accountID).
		Str("player_id", playerID).
		Msg("Updated player")
	return updated, nil
}

// DeletePlayer removes a player from the roster. Past nights keep their own snapshot.
func (a *App) DeletePlayer(ctx context.Context, accountID, playerID string) error {
	players, err := a.ListPlayers(ctx, accountID)
	if err != nil {
		return err
	}
	if _, ok := findByID(players, playerID); !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	if err := a.repo.DeletePlayer(ctx, accountID, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w: %w", ErrStoreUnavailable, err)
	}

	log.Info().
		Str("account_id", accountID).
		Str("player_id", playerID).
		Msg("Deleted player")
	return nil
}

// ClearPlayers empties the roster
func (a *App) ClearPlayers(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("validation failed: %w", ErrAccountRequired)
	}
	if err := a.repo.ClearPlayers(ctx, accountID); err != nil {
		return fmt.Errorf("failed to clear players: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// ResolvePlayers looks up roster entries by id, keeping the order of ids
func (a *App) ResolvePlayers(ctx context.Context, accountID string, ids []string) ([]models.Player, error) {
	players, err := a.ListPlayers(ctx, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := findByID(players, id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		out = append(out, p)
	}
	return out, nil
}

// SortByName orders players by name, case-insensitively
func SortByName(players []models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := strings.ToLower(players[i].Name), strings.ToLower(players[j].Name)
		if a != b {
			return a < b
		}
		return players[i].Name < players[j].Name
	})
}

func findByID(players []models.Player, id string) (models.Player, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return models.Player{}, false
}

func nameTaken(players []models.Player, name, exceptID string) bool {
	for _, p := range players {
		if p.ID != exceptID && p.Name == name {
			return true
		}
	}
	return false
}
