// Package redis stores histories and rosters in per-account Redis hashes.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// NightsKeyPrefix holds one field per night id: dominonight:{account}:nights
	NightsKeyPrefix = "dominonight:{%s}:nights"
	// PlayersKeyPrefix holds one field per player id: dominonight:{account}:players
	PlayersKeyPrefix = "dominonight:{%s}:players"
)

// NewClient connects to a single Redis node and verifies it with a ping
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("Connected to Redis")
	return rdb, nil
}
