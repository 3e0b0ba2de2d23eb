package scoring

import (
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// ApplyRound adds one round of point deltas, scores[i] belonging to the team in slot i.
//
// The previous state is kept as the undo snapshot. When a team reaches the point cap the
// game is recorded and a game-level win is left pending until AdvanceStage.
func (s State) ApplyRound(scores []int) (State, []Event, error) {
	if s.Completed() {
		return s, nil, ErrNightComplete
	}
	if s.Win != nil {
		return s, nil, ErrWinPending
	}
	if len(scores) != len(s.Teams) {
		return s, nil, fmt.Errorf("%w: got %d scores for %d teams", ErrInvalidScores, len(scores), len(s.Teams))
	}
	for i, score := range scores {
		if score < 0 {
			return s, nil, fmt.Errorf("%w: team %d score %d is negative", ErrInvalidScores, i, score)
		}
	}

	next := s.clone()
	next.undo = s.takeSnapshot()
	next.TieBreakMessage = ""

	for i, score := range scores {
		if score > 0 {
			next.RoundHistory = append(next.RoundHistory, RoundEntry{TeamName: next.Teams[i].Name, Score: score})
		}
		next.Teams[i].CurrentGameScore += score
	}

	events := []Event{{
		Type:       EventRoundApplied,
		GameNumber: next.CurrentGame,
		SetNumber:  next.CurrentSet,
	}}

	if winner, ok := next.gameWinner(); ok {
		events = append(events, next.recordGameWin(winner))
	}
	return next, events, nil
}

// gameWinner returns the slot of the team that won the game, if any team reached the cap.
// Several teams can cross the cap in one round: the highest score wins and an exact tie
// goes to the lowest slot.
func (s State) gameWinner() (int, bool) {
	best := -1
	for i, t := range s.Teams {
		if t.CurrentGameScore < s.Settings.PointCap {
			continue
		}
		if best < 0 || t.CurrentGameScore > s.Teams[best].CurrentGameScore {
			best = i
		}
	}
	return best, best >= 0
}

// recordGameWin freezes the game into the current set and marks the win as pending.
// It mutates s, so it must only be called on a fresh clone.
func (s *State) recordGameWin(slot int) Event {
	results := make([]models.GameTeamResult, len(s.Teams))
	for i, t := range s.Teams {
		results[i] = models.GameTeamResult{
			ID:      t.ID,
			Name:    t.Name,
			Score:   t.CurrentGameScore,
			Players: models.ClonePlayers(t.Players),
		}
	}

	winner := &s.Teams[slot]
	record := models.GameRecord{
		GameNumber:   s.CurrentGame,
		Teams:        results,
		WinnerTeamID: winner.ID,
	}
	if idx := s.currentSetIndex(); idx >= 0 {
		s.Night.Sets[idx].Games = append(s.Night.Sets[idx].Games, record)
	}
	winner.GamesWon++

	w := *winner
	w.Players = models.ClonePlayers(winner.Players)
	s.Win = &WinState{Winner: w, Level: LevelGame, FinalScore: winner.CurrentGameScore}

	return Event{
		Type:       EventGameWon,
		Level:      LevelGame,
		TeamID:     models.IntPtr(winner.ID),
		GameNumber: s.CurrentGame,
		SetNumber:  s.CurrentSet,
		Score:      winner.CurrentGameScore,
	}
}
