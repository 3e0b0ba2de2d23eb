package scoring

import (
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// EndSet closes the current set.
//
// A tie on games won is not an error: the state only gains a tie-break message and one more
// game has to be played. Otherwise the set winner is recorded and the pending win is either
// set level (more sets to play, or sudden death after a tied night) or night level.
// A pending game win may still be open; a decided set supersedes it.
func (s State) EndSet() (State, []Event, error) {
	if s.Completed() {
		return s, nil, ErrNightComplete
	}
	if s.Win != nil && s.Win.Level != LevelGame {
		return s, nil, ErrWinPending
	}
	idx := s.currentSetIndex()
	if idx < 0 || len(s.Night.Sets[idx].Games) == 0 {
		return s, nil, ErrNoGamesInSet
	}

	setLeaders := leaders(s.Teams, func(t models.Team) int { return t.GamesWon })
	if len(setLeaders) > 1 {
		next := s.clone()
		next.TieBreakMessage = SetTieMessage
		next.undo = nil
		return next, []Event{{
			Type:      EventTieBreak,
			Level:     LevelSet,
			SetNumber: s.CurrentSet,
			Message:   SetTieMessage,
		}}, nil
	}

	next := s.clone()
	next.undo = nil
	next.TieBreakMessage = ""
	next.NightTieBreak = false

	setWinner := teamByID(next.Teams, setLeaders[0])
	next.Night.Sets[idx].WinnerTeamID = models.IntPtr(next.Teams[setWinner].ID)
	next.Teams[setWinner].SetsWon++

	events := []Event{{
		Type:      EventSetWon,
		Level:     LevelSet,
		TeamID:    models.IntPtr(next.Teams[setWinner].ID),
		SetNumber: next.CurrentSet,
	}}

	if next.CurrentSet < next.Settings.SetsPerNight {
		next.Win = next.winState(setWinner, LevelSet)
		return next, events, nil
	}

	nightLeaders := leaders(next.Teams, func(t models.Team) int { return t.SetsWon })
	if len(nightLeaders) > 1 {
		next.Settings.SetsPerNight++
		next.NightTieBreak = true
		next.TieBreakMessage = NightTieMessage
		next.Win = next.winState(setWinner, LevelSet)
		events = append(events, Event{
			Type:      EventTieBreak,
			Level:     LevelNight,
			SetNumber: next.CurrentSet,
			Message:   NightTieMessage,
		})
		return next, events, nil
	}

	champion := teamByID(next.Teams, nightLeaders[0])
	next.Win = next.winState(champion, LevelNight)
	events = append(events, Event{
		Type:      EventNightWon,
		Level:     LevelNight,
		TeamID:    models.IntPtr(next.Teams[champion].ID),
		SetNumber: next.CurrentSet,
	})
	return next, events, nil
}

// AdvanceStage acknowledges the pending win and moves to the next game, set, or closes the night.
func (s State) AdvanceStage() (State, []Event, error) {
	if s.Win == nil {
		return s, nil, ErrNoPendingWin
	}
	return s.advance(s.Win.Level)
}

// AdvanceStageLevel is AdvanceStage for callers that state the level they are acknowledging.
func (s State) AdvanceStageLevel(level Level) (State, []Event, error) {
	if s.Win == nil {
		return s, nil, ErrNoPendingWin
	}
	if s.Win.Level != level {
		return s, nil, fmt.Errorf("%w: pending %s, requested %s", ErrStageMismatch, s.Win.Level, level)
	}
	return s.advance(level)
}

func (s State) advance(level Level) (State, []Event, error) {
	next := s.clone()
	var events []Event

	switch level {
	case LevelGame:
		next.CurrentGame++
		for i := range next.Teams {
			next.Teams[i].CurrentGameScore = 0
		}
		next.RoundHistory = []RoundEntry{}
	case LevelSet:
		next.CurrentSet++
		next.CurrentGame = 1
		for i := range next.Teams {
			next.Teams[i].CurrentGameScore = 0
			next.Teams[i].GamesWon = 0
		}
		next.RoundHistory = []RoundEntry{}
		next.Night.Sets = append(next.Night.Sets, models.SetRecord{SetNumber: next.CurrentSet, Games: []models.GameRecord{}})
	case LevelNight:
		next.Night.NightWinnerTeamID = models.IntPtr(s.Win.Winner.ID)
		next.Phase = PhaseComplete
		finished := next.Night.Clone()
		events = append(events, Event{
			Type:   EventNightCompleted,
			Level:  LevelNight,
			TeamID: models.IntPtr(s.Win.Winner.ID),
			Night:  &finished,
		})
	default:
		return s, nil, fmt.Errorf("%w: unknown level %q", ErrStageMismatch, level)
	}

	next.Win = nil
	next.undo = nil
	next.TieBreakMessage = ""

	events = append([]Event{{
		Type:       EventStageAdvanced,
		Level:      level,
		GameNumber: next.CurrentGame,
		SetNumber:  next.CurrentSet,
	}}, events...)
	return next, events, nil
}

func (s State) winState(slot int, level Level) *WinState {
	w := s.Teams[slot]
	w.Players = models.ClonePlayers(w.Players)
	return &WinState{Winner: w, Level: level}
}
