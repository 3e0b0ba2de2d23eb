package events

import (
	"time"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// Event payload types published on the night lifecycle stream

// TeamSummary identifies a team inside a payload
type TeamSummary struct {
	TeamID  int      `json:"team_id"`
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// NightStartedPayload is the payload for a NightStarted event
type NightStartedPayload struct {
	NightID      string        `json:"night_id"`
	ModeType     string        `json:"mode_type"`
	PointCap     int           `json:"point_cap"`
	GamesPerSet  int           `json:"games_per_set"`
	SetsPerNight int           `json:"sets_per_night"`
	Teams        []TeamSummary `json:"teams"`
	StartedAt    time.Time     `json:"started_at"`
}

// GameWonPayload is the payload for a GameWon event
type GameWonPayload struct {
	NightID    string    `json:"night_id"`
	SetNumber  int       `json:"set_number"`
	GameNumber int       `json:"game_number"`
	TeamID     int       `json:"team_id"`
	TeamName   string    `json:"team_name"`
	FinalScore int       `json:"final_score"`
	WonAt      time.Time `json:"won_at"`
}

// SetWonPayload is the payload for a SetWon event
type SetWonPayload struct {
	NightID   string    `json:"night_id"`
	SetNumber int       `json:"set_number"`
	TeamID    int       `json:"team_id"`
	TeamName  string    `json:"team_name"`
	WonAt     time.Time `json:"won_at"`
}

// TieBreakPayload is the payload for a TieBreak event
type TieBreakPayload struct {
	NightID    string    `json:"night_id"`
	Level      string    `json:"level"` // "set" or "night"
	SetNumber  int       `json:"set_number"`
	Message    string    `json:"message"`
	DeclaredAt time.Time `json:"declared_at"`
}

// NightCompletedPayload is the payload for a NightCompleted event
type NightCompletedPayload struct {
	NightID      string             `json:"night_id"`
	WinnerTeamID int                `json:"winner_team_id"`
	WinnerName   string             `json:"winner_name"`
	SetsPlayed   int                `json:"sets_played"`
	GamesPlayed  int                `json:"games_played"`
	CompletedAt  time.Time          `json:"completed_at"`
	Night        models.NightRecord `json:"night"`
}

// HistoryClearedPayload is the payload for a HistoryCleared event
type HistoryClearedPayload struct {
	ClearedAt time.Time `json:"cleared_at"`
}
