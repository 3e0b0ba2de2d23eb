package scoring

import (
	"testing"
	"time"

	"github.com/mcdev12/dominonight/go/internal/models"
)

var nightStart = time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)

func twoPlayerMode() models.GameModeDetails {
	return models.DefaultGameModes()[0]
}

func threePlayerMode() models.GameModeDetails {
	return models.DefaultGameModes()[1]
}

func singles(names ...string) [][]models.Player {
	out := make([][]models.Player, len(names))
	for i, n := range names {
		out[i] = []models.Player{{ID: "p-" + n, Name: n}}
	}
	return out
}

func newNight(t *testing.T, mode models.GameModeDetails, settings Settings, names ...string) State {
	t.Helper()
	s, err := NewNight("1760644800000", nightStart, mode, singles(names...), settings)
	if err != nil {
		t.Fatalf("NewNight: %v", err)
	}
	return s
}

func apply(t *testing.T, s State, scores ...int) (State, []Event) {
	t.Helper()
	next, events, err := s.ApplyRound(scores)
	if err != nil {
		t.Fatalf("ApplyRound(%v): %v", scores, err)
	}
	return next, events
}

// winGame gives the team in slot the whole point cap in a single round.
func winGame(t *testing.T, s State, slot int) State {
	t.Helper()
	scores := make([]int, len(s.Teams))
	scores[slot] = s.Settings.PointCap
	next, events := apply(t, s, scores...)
	if !Has(events, EventGameWon) {
		t.Fatalf("expected a game win for slot %d", slot)
	}
	return next
}

func advance(t *testing.T, s State) (State, []Event) {
	t.Helper()
	next, events, err := s.AdvanceStage()
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	return next, events
}

func endSet(t *testing.T, s State) (State, []Event) {
	t.Helper()
	next, events, err := s.EndSet()
	if err != nil {
		t.Fatalf("EndSet: %v", err)
	}
	return next, events
}
