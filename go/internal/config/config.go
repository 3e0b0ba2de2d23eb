// Package config loads the server configuration from an optional YAML file and the environment.
// Environment variables win over the file, and the file wins over the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/publisher"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
	BackendRedis    = "redis"
)

type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Events    EventsConfig    `yaml:"events"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Game      GameConfig      `yaml:"game"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	HealthTimeout   time.Duration `yaml:"health_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend"`
	SQLitePath    string `yaml:"sqlite_path"`
	PostgresDSN   string `yaml:"postgres_dsn"` // empty means build it from DB_* variables
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type EventsConfig struct {
	Enabled   bool                      `yaml:"enabled"`
	JetStream publisher.JetStreamConfig `yaml:"jetstream"`
}

type NarrativeConfig struct {
	APIKey   string        `yaml:"api_key"` // narrative text falls back to canned lines when empty
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
	Language string        `yaml:"language"`
}

type GameConfig struct {
	GamesPerSet  int                      `yaml:"games_per_set"`
	SetsPerNight int                      `yaml:"sets_per_night"`
	Modes        []models.GameModeDetails `yaml:"modes"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
			HealthTimeout:   5 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Storage: StorageConfig{
			Backend:       BackendSQLite,
			SQLitePath:    "dominonight.db",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "dominonight",
			RedisAddr:     "localhost:6379",
		},
		Events: EventsConfig{
			JetStream: publisher.DefaultJetStreamConfig(),
		},
		Narrative: NarrativeConfig{
			Model:    "gemini-2.5-flash",
			Timeout:  20 * time.Second,
			Language: "English",
		},
		Game: GameConfig{
			GamesPerSet:  3,
			SetsPerNight: 1,
			Modes:        models.DefaultGameModes(),
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates the result.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.HealthTimeout = getEnvAsDuration("HEALTH_TIMEOUT", cfg.Server.HealthTimeout)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.Storage.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", cfg.Storage.Backend))
	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.PostgresDSN = getEnv("DATABASE_URL", cfg.Storage.PostgresDSN)
	cfg.Storage.MongoURI = getEnv("MONGO_URI", cfg.Storage.MongoURI)
	cfg.Storage.MongoDatabase = getEnv("MONGO_DATABASE", cfg.Storage.MongoDatabase)
	cfg.Storage.RedisAddr = getEnv("REDIS_ADDR", cfg.Storage.RedisAddr)
	cfg.Storage.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Storage.RedisPassword)
	cfg.Storage.RedisDB = getEnvAsInt("REDIS_DB", cfg.Storage.RedisDB)

	cfg.Events.Enabled = getEnvAsBool("EVENTS_ENABLED", cfg.Events.Enabled)
	cfg.Events.JetStream.URL = getEnv("NATS_URL", cfg.Events.JetStream.URL)
	cfg.Events.JetStream.StreamName = getEnv("NATS_STREAM", cfg.Events.JetStream.StreamName)
	cfg.Events.JetStream.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", cfg.Events.JetStream.SubjectPrefix)

	cfg.Narrative.APIKey = getEnv("GEMINI_API_KEY", cfg.Narrative.APIKey)
	cfg.Narrative.BaseURL = getEnv("GEMINI_BASE_URL", cfg.Narrative.BaseURL)
	cfg.Narrative.Model = getEnv("GEMINI_MODEL", cfg.Narrative.Model)
	cfg.Narrative.Timeout = getEnvAsDuration("NARRATIVE_TIMEOUT", cfg.Narrative.Timeout)
	cfg.Narrative.Language = getEnv("NARRATIVE_LANGUAGE", cfg.Narrative.Language)

	cfg.Game.GamesPerSet = getEnvAsInt("GAMES_PER_SET", cfg.Game.GamesPerSet)
	cfg.Game.SetsPerNight = getEnvAsInt("SETS_PER_NIGHT", cfg.Game.SetsPerNight)
}

// Validate checks the settings that would otherwise fail late
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendMongoDB, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Game.GamesPerSet <= 0 || c.Game.SetsPerNight <= 0 {
		return fmt.Errorf("games per set and sets per night must be positive, got %d and %d",
			c.Game.GamesPerSet, c.Game.SetsPerNight)
	}
	if len(c.Game.Modes) == 0 {
		return errors.New("at least one game mode is required")
	}
	seen := make(map[models.GameModeType]bool)
	for _, m := range c.Game.Modes {
		if m.Type == "" || seen[m.Type] {
			return fmt.Errorf("game mode type %q is empty or repeated", m.Type)
		}
		seen[m.Type] = true
		if m.Teams < 2 || m.PlayersPerTeam < 1 || m.PointCap < 1 {
			return fmt.Errorf("game mode %q needs 2+ teams, 1+ players per team and a positive point cap", m.Type)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
