package main

import (
	"os"

	"github.com/mcdev12/dominonight/go/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig() (config.Config, error) {
	return config.Load(getEnv("CONFIG_PATH", "config.yaml"))
}

// setupLogger configures zerolog console output and level
func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
