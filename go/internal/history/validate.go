package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// Validate checks the shape of a night record before it is trusted by the rest of the system.
// Every winner id must reference a team slot of the same night.
func Validate(night models.NightRecord) error {
	if strings.TrimSpace(night.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrMalformedRecord)
	}
	if _, err := time.Parse(time.RFC3339, night.Date); err != nil {
		return fmt.Errorf("%w: night %s has invalid date %q", ErrMalformedRecord, night.ID, night.Date)
	}
	if night.Mode.Teams < 2 || night.Mode.PlayersPerTeam < 1 || night.Mode.PointCap < 1 {
		return fmt.Errorf("%w: night %s has invalid mode", ErrMalformedRecord, night.ID)
	}
	if len(night.Sets) == 0 {
		return fmt.Errorf("%w: night %s has no sets", ErrMalformedRecord, night.ID)
	}

	validTeam := func(id int) bool {
		return id >= 0 && id < night.Mode.Teams
	}

	for i, set := range night.Sets {
		if set.SetNumber != i+1 {
			return fmt.Errorf("%w: night %s set %d is numbered %d", ErrMalformedRecord, night.ID, i+1, set.SetNumber)
		}
		if set.WinnerTeamID != nil && !validTeam(*set.WinnerTeamID) {
			return fmt.Errorf("%w: night %s set %d winner %d is not a team of the night", ErrMalformedRecord, night.ID, set.SetNumber, *set.WinnerTeamID)
		}
		for _, game := range set.Games {
			if err := validateGame(night, set.SetNumber, game); err != nil {
				return err
			}
		}
	}

	if night.NightWinnerTeamID != nil && !validTeam(*night.NightWinnerTeamID) {
		return fmt.Errorf("%w: night %s winner %d is not a team of the night", ErrMalformedRecord, night.ID, *night.NightWinnerTeamID)
	}
	return nil
}

func validateGame(night models.NightRecord, setNumber int, game models.GameRecord) error {
	if game.GameNumber < 1 {
		return fmt.Errorf("%w: night %s set %d has game number %d", ErrMalformedRecord, night.ID, setNumber, game.GameNumber)
	}
	if len(game.Teams) != night.Mode.Teams {
		return fmt.Errorf("%w: night %s set %d game %d has %d teams, want %d",
			ErrMalformedRecord, night.ID, setNumber, game.GameNumber, len(game.Teams), night.Mode.Teams)
	}
	for _, t := range game.Teams {
		if t.ID < 0 || t.ID >= night.Mode.Teams {
			return fmt.Errorf("%w: night %s set %d game %d has team id %d", ErrMalformedRecord, night.ID, setNumber, game.GameNumber, t.ID)
		}
		if t.Score < 0 {
			return fmt.Errorf("%w: night %s set %d game %d has negative score", ErrMalformedRecord, night.ID, setNumber, game.GameNumber)
		}
		if len(t.Players) == 0 {
			return fmt.Errorf("%w: night %s set %d game %d team %d has no players", ErrMalformedRecord, night.ID, setNumber, game.GameNumber, t.ID)
		}
	}
	if _, ok := game.Team(game.WinnerTeamID); !ok {
		return fmt.Errorf("%w: night %s set %d game %d winner %d is not a team of the game",
			ErrMalformedRecord, night.ID, setNumber, game.GameNumber, game.WinnerTeamID)
	}
	return nil
}
