package scoring

import "github.com/mcdev12/dominonight/go/internal/models"

// snapshot is the single-level undo buffer, taken right before a round is applied.
type snapshot struct {
	teams        []models.Team
	night        models.NightRecord
	roundHistory []RoundEntry
}

func (s State) takeSnapshot() *snapshot {
	return &snapshot{
		teams:        models.CloneTeams(s.Teams),
		night:        s.Night.Clone(),
		roundHistory: cloneRounds(s.RoundHistory),
	}
}

// CanUndo reports whether a round can be taken back.
func (s State) CanUndo() bool {
	return s.undo != nil
}

// Undo restores teams, night record and round ledger to how they were before the last
// round and drops any pending win. Without a snapshot the state is returned unchanged.
func (s State) Undo() (State, []Event) {
	if s.undo == nil {
		return s, []Event{{Type: EventNothingToUndo, Message: NothingToUndoMessage}}
	}

	next := s.clone()
	next.Teams = models.CloneTeams(s.undo.teams)
	next.Night = s.undo.night.Clone()
	next.RoundHistory = cloneRounds(s.undo.roundHistory)
	next.Win = nil
	next.undo = nil

	return next, []Event{{
		Type:       EventUndone,
		GameNumber: next.CurrentGame,
		SetNumber:  next.CurrentSet,
	}}
}
