// Package history keeps the per-account log of completed nights.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Repository defines what the app layer needs from a history backend.
// SaveHistory upserts by record id: saving a record twice never duplicates it.
type Repository interface {
	LoadHistory(ctx context.Context, accountID string) ([]models.NightRecord, error)
	SaveHistory(ctx context.Context, accountID string, nights []models.NightRecord) error
	ClearHistory(ctx context.Context, accountID string) error
}

// MalformedRecordsError reports persisted nights that were skipped while loading
type MalformedRecordsError struct {
	Errs []error
}

func (e *MalformedRecordsError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("skipped %d malformed records: %s", len(e.Errs), strings.Join(msgs, "; "))
}

func (e *MalformedRecordsError) Unwrap() error {
	return ErrMalformedRecord
}

// App handles history business logic
type App struct {
	repo Repository
}

// NewApp creates a new history App
func NewApp(repo Repository) *App {
	return &App{
		repo: repo,
	}
}

// ListNights returns the account's history newest first.
//
// Records that failed to decode in the backend or fail validation here are left out and
// reported through a *MalformedRecordsError; the valid records are still returned alongside it.
func (a *App) ListNights(ctx context.Context, accountID string) ([]models.NightRecord, error) {
	if accountID == "" {
		return nil, fmt.Errorf("validation failed: %w", ErrAccountRequired)
	}

	var malformed []error
	nights, err := a.repo.LoadHistory(ctx, accountID)
	var undecodable *MalformedRecordsError
	switch {
	case errors.As(err, &undecodable):
		malformed = append(malformed, undecodable.Errs...)
	case err != nil:
		return nil, classify("failed to load history", err)
	}

	valid := make([]models.NightRecord, 0, len(nights))
	for _, n := range nights {
		if err := Validate(n); err != nil {
			malformed = append(malformed, err)
			continue
		}
		valid = append(valid, n)
	}
	SortNewestFirst(valid)

	if len(malformed) > 0 {
		log.Warn().
			Str("account_id", accountID).
			Int("skipped", len(malformed)).
			Msg("Skipped malformed history records")
		return valid, &MalformedRecordsError{Errs: malformed}
	}
	return valid, nil
}

// SearchNights returns nights in which any player's name contains query, ignoring case.
// An empty query returns the full listing.
func (a *App) SearchNights(ctx context.Context, accountID, query string) ([]models.NightRecord, error) {
	nights, err := a.ListNights(ctx, accountID)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nights, err
	}

	matched := make([]models.NightRecord, 0, len(nights))
	for _, n := range nights {
		if nightHasPlayerLike(n, query) {
			matched = append(matched, n)
		}
	}
	return matched, err
}

// AppendNight persists a completed night. Saving the same night again replaces it.
func (a *App) AppendNight(ctx context.Context, accountID string, night models.NightRecord) error {
	if accountID == "" {
		return fmt.Errorf("validation failed: %w", ErrAccountRequired)
	}
	if !night.Completed() {
		return fmt.Errorf("validation failed: %w", ErrNightIncomplete)
	}
	if err := Validate(night); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := a.repo.SaveHistory(ctx, accountID, []models.NightRecord{night}); err != nil {
		return classify("failed to save night "+night.ID, err)
	}

	log.Info().
		Str("account_id", accountID).
		Str("night_id", night.ID).
		Msg("Saved night to history")
	return nil
}

// ClearHistory removes every night recorded for the account
func (a *App) ClearHistory(ctx context.Context, accountID string) error {
	if accountID == "" {
		return fmt.Errorf("validation failed: %w", ErrAccountRequired)
	}
	if err := a.repo.ClearHistory(ctx, accountID); err != nil {
		return classify("failed to clear history", err)
	}

	log.Info().Str("account_id", accountID).Msg("Cleared history")
	return nil
}

// SortNewestFirst orders nights by numeric id descending. Ids that are not numbers sort last,
// ordered by date.
func SortNewestFirst(nights []models.NightRecord) {
	sort.SliceStable(nights, func(i, j int) bool {
		a, aErr := strconv.ParseInt(nights[i].ID, 10, 64)
		b, bErr := strconv.ParseInt(nights[j].ID, 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a > b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return nights[i].Date > nights[j].Date
	})
}

func nightHasPlayerLike(night models.NightRecord, query string) bool {
	for _, set := range night.Sets {
		for _, game := range set.Games {
			for _, team := range game.Teams {
				for _, p := range team.Players {
					if strings.Contains(strings.ToLower(p.Name), query) {
						return true
					}
				}
			}
		}
	}
	return false
}

// classify marks backend failures as ErrStoreUnavailable unless they already carry a schema error
func classify(msg string, err error) error {
	if errors.Is(err, ErrMalformedRecord) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrStoreUnavailable, err)
}
