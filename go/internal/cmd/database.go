package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dominonight/go/internal/config"
	"github.com/mcdev12/dominonight/go/internal/dbconfig"
	"github.com/mcdev12/dominonight/go/internal/health"
	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"github.com/mcdev12/dominonight/go/internal/storage/memory"
	"github.com/mcdev12/dominonight/go/internal/storage/mongodb"
	"github.com/mcdev12/dominonight/go/internal/storage/postgres"
	redisstore "github.com/mcdev12/dominonight/go/internal/storage/redis"
	"github.com/mcdev12/dominonight/go/internal/storage/sqlite"
)

// Storage is the selected backend behind both repositories
type Storage struct {
	History history.Repository
	Roster  roster.Repository
	ping    health.PingFunc
	closers []func() error
}

// Ping verifies the backend connection; the memory backend is always up
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases backend connections in reverse order of opening
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}
}

func setupStorage(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		store := memory.NewStore()
		log.Warn().Msg("using in-memory storage, history is lost on restart")
		return &Storage{History: store, Roster: store}, nil

	case config.BackendSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("opened sqlite database")
		return &Storage{History: store, Roster: store, ping: store.Ping, closers: []func() error{store.Close}}, nil

	case config.BackendPostgres:
		return setupPostgres(ctx, cfg)

	case config.BackendMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		store := mongodb.NewStore(client)
		return &Storage{History: store, Roster: store, ping: client.Ping, closers: []func() error{
			func() error { return client.Disconnect(context.Background()) },
		}}, nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		store := redisstore.NewStore(client)
		return &Storage{
			History: store,
			Roster:  store,
			ping:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			closers: []func() error{client.Close},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// setupPostgres keeps history on database/sql and the roster on a pgx pool
func setupPostgres(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	dsn := cfg.PostgresDSN
	redacted := "DATABASE_URL"
	if dsn == "" {
		dbCfg := dbconfig.NewConfigFromEnv()
		dsn = dbCfg.DSN()
		redacted = dbCfg.Redacted()
	}

	database, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := postgres.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	log.Info().Str("dsn", redacted).Msg("connected to database")
	return &Storage{
		History: postgres.NewHistoryRepository(database),
		Roster:  postgres.NewRosterRepository(pool),
		ping:    database.PingContext,
		closers: []func() error{
			database.Close,
			func() error { pool.Close(); return nil },
		},
	}, nil
}
