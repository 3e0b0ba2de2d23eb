package scoring

import "github.com/mcdev12/dominonight/go/internal/models"

// EventType names a transition emitted by a command
type EventType string

const (
	EventRoundApplied   EventType = "RoundApplied"
	EventGameWon        EventType = "GameWon"
	EventSetWon         EventType = "SetWon"
	EventNightWon       EventType = "NightWon"
	EventTieBreak       EventType = "TieBreak"
	EventStageAdvanced  EventType = "StageAdvanced"
	EventNightCompleted EventType = "NightCompleted"
	EventUndone         EventType = "Undone"
	EventNothingToUndo  EventType = "NothingToUndo"
)

// Event describes one observable outcome of a command
type Event struct {
	Type       EventType           `json:"type"`
	Level      Level               `json:"level,omitempty"`
	TeamID     *int                `json:"teamId,omitempty"`
	GameNumber int                 `json:"gameNumber,omitempty"`
	SetNumber  int                 `json:"setNumber,omitempty"`
	Score      int                 `json:"score,omitempty"`
	Message    string              `json:"message,omitempty"`
	Night      *models.NightRecord `json:"night,omitempty"` // set on NightCompleted
}

// Has reports whether events contains an event of the given type
func Has(events []Event, t EventType) bool {
	_, ok := Find(events, t)
	return ok
}

// Find returns the first event of the given type
func Find(events []Event, t EventType) (Event, bool) {
	for _, e := range events {
		if e.Type == t {
			return e, true
		}
	}
	return Event{}, false
}
