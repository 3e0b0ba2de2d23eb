package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// Phase represents the lifecycle stage of a night.
type Phase string

const (
	// PhaseScoring indicates rounds are being recorded.
	PhaseScoring Phase = "scoring"
	// PhaseComplete indicates the night has a champion and is read-only.
	PhaseComplete Phase = "complete"
)

// Level is the tier a win was achieved at.
type Level string

const (
	LevelGame  Level = "game"
	LevelSet   Level = "set"
	LevelNight Level = "night"
)

const (
	// SetTieMessage is shown when the set ends with several teams on the most games.
	SetTieMessage = "The set is tied! Play one more game to decide the winner."
	// NightTieMessage is shown when the scheduled sets end with several teams on the most sets.
	NightTieMessage = "The night is tied! Play one more set to crown tonight's champion."
	// NothingToUndoMessage accompanies an undo without a snapshot.
	NothingToUndoMessage = "nothing to undo"
)

// Settings holds the limits chosen at night start.
type Settings struct {
	PointCap     int `json:"pointCap"`
	GamesPerSet  int `json:"gamesPerSet"`
	SetsPerNight int `json:"setsPerNight"` // grows by one for every night-level sudden death
}

// Validate checks that every limit is positive.
func (s Settings) Validate() error {
	if s.PointCap <= 0 || s.GamesPerSet <= 0 || s.SetsPerNight <= 0 {
		return fmt.Errorf("%w: point cap %d, games per set %d, sets per night %d",
			ErrInvalidSettings, s.PointCap, s.GamesPerSet, s.SetsPerNight)
	}
	return nil
}

// RoundEntry is one line of the round ledger.
type RoundEntry struct {
	TeamName string `json:"teamName"`
	Score    int    `json:"score"`
}

// WinState is a win waiting to be acknowledged with AdvanceStage.
type WinState struct {
	Winner     models.Team `json:"winner"`
	Level      Level       `json:"level"`
	FinalScore int         `json:"finalScore,omitempty"`
}

// State captures everything about one night in progress.
//
// Commands never modify their receiver: each returns the next State and the events it
// produced, so a previous State value can be kept around safely.
type State struct {
	Mode            models.GameModeDetails `json:"mode"`
	Settings        Settings               `json:"settings"`
	Teams           []models.Team          `json:"teams"`
	Night           models.NightRecord     `json:"night"`
	CurrentGame     int                    `json:"currentGame"`
	CurrentSet      int                    `json:"currentSet"`
	RoundHistory    []RoundEntry           `json:"roundHistory"`
	Win             *WinState              `json:"win,omitempty"`
	TieBreakMessage string                 `json:"tieBreakMessage,omitempty"`
	NightTieBreak   bool                   `json:"nightTieBreak,omitempty"`
	Phase           Phase                  `json:"phase"`

	undo *snapshot
}

// NewNight builds the initial state of a night: game 1 of set 1 with zeroed teams.
func NewNight(id string, at time.Time, mode models.GameModeDetails, playersByTeam [][]models.Player, settings Settings) (State, error) {
	if strings.TrimSpace(id) == "" {
		return State{}, fmt.Errorf("%w: night id is required", ErrInvalidSettings)
	}
	if err := settings.Validate(); err != nil {
		return State{}, err
	}
	if err := validateRoster(mode, playersByTeam); err != nil {
		return State{}, err
	}

	teams := make([]models.Team, len(playersByTeam))
	for i, players := range playersByTeam {
		teams[i] = models.Team{
			ID:      i,
			Name:    models.TeamName(players),
			Players: models.ClonePlayers(players),
		}
	}

	mode.PointCap = settings.PointCap
	return State{
		Mode:     mode,
		Settings: settings,
		Teams:    teams,
		Night: models.NightRecord{
			ID:   id,
			Date: at.UTC().Format(time.RFC3339),
			Mode: mode,
			Sets: []models.SetRecord{{SetNumber: 1, Games: []models.GameRecord{}}},
		},
		CurrentGame:  1,
		CurrentSet:   1,
		RoundHistory: []RoundEntry{},
		Phase:        PhaseScoring,
	}, nil
}

func validateRoster(mode models.GameModeDetails, playersByTeam [][]models.Player) error {
	if mode.Teams < 2 || mode.PlayersPerTeam < 1 {
		return fmt.Errorf("%w: mode %q needs at least 2 teams of 1 player", ErrInvalidRoster, mode.Type)
	}
	if len(playersByTeam) != mode.Teams {
		return fmt.Errorf("%w: mode %q expects %d teams, got %d", ErrInvalidRoster, mode.Type, mode.Teams, len(playersByTeam))
	}
	seen := make(map[string]bool)
	for i, players := range playersByTeam {
		if len(players) != mode.PlayersPerTeam {
			return fmt.Errorf("%w: team %d has %d players, expected %d", ErrInvalidRoster, i, len(players), mode.PlayersPerTeam)
		}
		for _, p := range players {
			name := strings.TrimSpace(p.Name)
			if name == "" {
				return fmt.Errorf("%w: team %d has a player without a name", ErrInvalidRoster, i)
			}
			if seen[name] {
				return fmt.Errorf("%w: player %q appears more than once", ErrInvalidRoster, name)
			}
			seen[name] = true
		}
	}
	return nil
}

// Completed reports whether the night has been finalized.
func (s State) Completed() bool {
	return s.Phase == PhaseComplete
}

// CurrentSetRecord returns the record of the set being played.
func (s State) CurrentSetRecord() (models.SetRecord, bool) {
	idx := s.currentSetIndex()
	if idx < 0 {
		return models.SetRecord{}, false
	}
	return s.Night.Sets[idx], true
}

// CanEndSet reports whether at least one game was played in the current set and no set
// or night win is waiting.
func (s State) CanEndSet() bool {
	if s.Completed() || (s.Win != nil && s.Win.Level != LevelGame) {
		return false
	}
	set, ok := s.CurrentSetRecord()
	return ok && len(set.Games) > 0
}

// SetAllotmentReached reports whether the current set has used up its scheduled games.
func (s State) SetAllotmentReached() bool {
	set, ok := s.CurrentSetRecord()
	return ok && len(set.Games) >= s.Settings.GamesPerSet
}

// Leaders returns the ids of the teams in front at the given level: current game score,
// games won in the set, or sets won in the night.
func (s State) Leaders(level Level) []int {
	switch level {
	case LevelSet:
		return leaders(s.Teams, func(t models.Team) int { return t.GamesWon })
	case LevelNight:
		return leaders(s.Teams, func(t models.Team) int { return t.SetsWon })
	default:
		return leaders(s.Teams, func(t models.Team) int { return t.CurrentGameScore })
	}
}

func (s State) currentSetIndex() int {
	for i := len(s.Night.Sets) - 1; i >= 0; i-- {
		if s.Night.Sets[i].SetNumber == s.CurrentSet {
			return i
		}
	}
	return -1
}

// clone returns a deep copy; the undo snapshot is shared since it is never written to.
func (s State) clone() State {
	out := s
	out.Teams = models.CloneTeams(s.Teams)
	out.Night = s.Night.Clone()
	out.RoundHistory = cloneRounds(s.RoundHistory)
	if s.Win != nil {
		w := *s.Win
		w.Winner.Players = models.ClonePlayers(w.Winner.Players)
		out.Win = &w
	}
	return out
}

func cloneRounds(rounds []RoundEntry) []RoundEntry {
	if rounds == nil {
		return nil
	}
	out := make([]RoundEntry, len(rounds))
	copy(out, rounds)
	return out
}

// leaders returns the ids of the teams sharing the highest value of key.
func leaders(teams []models.Team, key func(models.Team) int) []int {
	var ids []int
	best := 0
	for i, t := range teams {
		v := key(t)
		switch {
		case i == 0 || v > best:
			best = v
			ids = []int{t.ID}
		case v == best:
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func teamByID(teams []models.Team, id int) int {
	for i, t := range teams {
		if t.ID == id {
			return i
		}
	}
	return -1
}
