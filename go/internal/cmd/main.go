package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("dominonight exited")
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.LogLevel)

	// signal‐aware context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := setupStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to set up %s storage: %w", cfg.Storage.Backend, err)
	}
	defer store.Close()

	pub, err := setupPublisher(ctx, cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}()

	services := setupServices(cfg, store, pub)
	defer services.Close()

	server := setupServer(cfg.Server, services)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("storage", cfg.Storage.Backend).
			Bool("events", cfg.Events.Enabled).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("server exited unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("graceful shutdown complete")
	return serveErr
}
