package night

import (
	"context"

	"github.com/mcdev12/dominonight/go/internal/events"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/scoring"
	"github.com/rs/zerolog/log"
)

// Publishing is best effort: a broker outage must never block scoring.

func (a *App) publishStarted(ctx context.Context, accountID string, s scoring.State) {
	teams := make([]events.TeamSummary, len(s.Teams))
	for i, t := range s.Teams {
		teams[i] = summarize(t)
	}
	a.send(ctx, accountID, s.Night.ID, events.TypeNightStarted, events.NightStartedPayload{
		NightID:      s.Night.ID,
		ModeType:     string(s.Mode.Type),
		PointCap:     s.Settings.PointCap,
		GamesPerSet:  s.Settings.GamesPerSet,
		SetsPerNight: s.Settings.SetsPerNight,
		Teams:        teams,
		StartedAt:    a.clock.Now().UTC(),
	})
}

// publish translates the outcome events of a command. Rounds, advances and undos stay local.
func (a *App) publish(ctx context.Context, accountID string, s scoring.State, evts []scoring.Event) {
	nightID := s.Night.ID
	now := a.clock.Now().UTC()

	for _, e := range evts {
		switch e.Type {
		case scoring.EventGameWon:
			a.send(ctx, accountID, nightID, events.TypeGameWon, events.GameWonPayload{
				NightID:    nightID,
				SetNumber:  e.SetNumber,
				GameNumber: e.GameNumber,
				TeamID:     derefTeam(e.TeamID),
				TeamName:   teamName(s, e.TeamID),
				FinalScore: e.Score,
				WonAt:      now,
			})
		case scoring.EventSetWon:
			a.send(ctx, accountID, nightID, events.TypeSetWon, events.SetWonPayload{
				NightID:   nightID,
				SetNumber: e.SetNumber,
				TeamID:    derefTeam(e.TeamID),
				TeamName:  teamName(s, e.TeamID),
				WonAt:     now,
			})
		case scoring.EventTieBreak:
			a.send(ctx, accountID, nightID, events.TypeTieBreak, events.TieBreakPayload{
				NightID:    nightID,
				Level:      string(e.Level),
				SetNumber:  e.SetNumber,
				Message:    e.Message,
				DeclaredAt: now,
			})
		case scoring.EventNightCompleted:
			if e.Night == nil {
				continue
			}
			a.send(ctx, accountID, nightID, events.TypeNightCompleted, events.NightCompletedPayload{
				NightID:      nightID,
				WinnerTeamID: derefTeam(e.TeamID),
				WinnerName:   teamName(s, e.TeamID),
				SetsPlayed:   len(e.Night.Sets),
				GamesPlayed:  e.Night.GameCount(),
				CompletedAt:  now,
				Night:        *e.Night,
			})
		}
	}
}

func (a *App) send(ctx context.Context, accountID, nightID, eventType string, payload any) {
	event, err := events.New(accountID, nightID, eventType, payload, a.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("Failed to build event")
		return
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("account_id", accountID).
			Str("night_id", nightID).
			Str("event_type", eventType).
			Msg("Failed to publish event")
	}
}

func summarize(t models.Team) events.TeamSummary {
	names := make([]string, len(t.Players))
	for i, p := range t.Players {
		names[i] = p.Name
	}
	return events.TeamSummary{TeamID: t.ID, Name: t.Name, Players: names}
}

func derefTeam(id *int) int {
	if id == nil {
		return -1
	}
	return *id
}
