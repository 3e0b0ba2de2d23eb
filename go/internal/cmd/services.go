package main

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dominonight/go/internal/config"
	"github.com/mcdev12/dominonight/go/internal/health"
	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/narrative"
	"github.com/mcdev12/dominonight/go/internal/night"
	"github.com/mcdev12/dominonight/go/internal/publisher"
	"github.com/mcdev12/dominonight/go/internal/roster"
)

type Services struct {
	Night   *night.Service
	History *history.Service
	Roster  *roster.Service
	Health  *health.Checker

	nightApp *night.App
}

// Close waits for background work started by the services
func (s *Services) Close() {
	s.nightApp.Close()
}

func setupPublisher(ctx context.Context, cfg config.EventsConfig) (publisher.Publisher, error) {
	if !cfg.Enabled {
		log.Info().Msg("event publishing disabled, logging events instead")
		return publisher.LogPublisher{}, nil
	}
	pub, err := publisher.NewJetStreamPublisher(ctx, cfg.JetStream)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", cfg.JetStream.URL).Str("stream", cfg.JetStream.StreamName).Msg("publishing events to JetStream")
	return pub, nil
}

func setupNarrator(cfg config.NarrativeConfig, clock clockwork.Clock) *narrative.Narrator {
	var gen narrative.Generator = narrative.Disabled{}
	if cfg.APIKey != "" {
		gen = narrative.NewGeminiClient(cfg.BaseURL, cfg.APIKey, cfg.Model)
		log.Info().Str("model", cfg.Model).Msg("narrative generation enabled")
	} else {
		log.Info().Msg("no narrative API key, using canned text")
	}
	return narrative.NewNarrator(gen, clock, cfg.Timeout, cfg.Language)
}

func setupServices(cfg config.Config, store *Storage, pub publisher.Publisher) *Services {
	// Wire up dependency injection chain
	// Storage layer → App layer → Service layer
	clock := clockwork.NewRealClock()
	narrator := setupNarrator(cfg.Narrative, clock)

	// Roster
	rosterApp := roster.NewApp(store.Roster)
	rosterService := roster.NewService(rosterApp)

	// History
	historyApp := history.NewApp(store.History)
	historyService := history.NewService(historyApp, narrator, pub, clock)

	// Night
	nightApp := night.NewApp(historyApp, rosterApp, pub, narrator, clock, cfg.Game.Modes, night.Defaults{
		GamesPerSet:  cfg.Game.GamesPerSet,
		SetsPerNight: cfg.Game.SetsPerNight,
	})
	nightService := night.NewService(nightApp)

	// Only a live NATS connection is worth reporting on
	var events health.ConnectionReporter
	if reporter, ok := pub.(health.ConnectionReporter); ok {
		events = reporter
	}
	checker := health.NewChecker(store, events, clock, cfg.Server.HealthTimeout)

	return &Services{
		Night:    nightService,
		History:  historyService,
		Roster:   rosterService,
		Health:   checker,
		nightApp: nightApp,
	}
}
