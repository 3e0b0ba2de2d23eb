package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/mcdev12/dominonight/go/internal/dbconfig"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"github.com/mcdev12/dominonight/go/internal/storage/postgres"
)

// SeedPlayer matches the layout of roster.json
type SeedPlayer struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type playerAdder interface {
	AddPlayer(ctx context.Context, accountID, name, avatar string) (models.Player, error)
}

type result struct {
	total, inserted, skipped, errs int
}

func seed(ctx context.Context, app playerAdder, accountID string, players []SeedPlayer) result {
	res := result{total: len(players)}
	for _, p := range players {
		_, err := app.AddPlayer(ctx, accountID, p.Name, p.Avatar)
		switch {
		case err == nil:
			res.inserted++
		case errors.Is(err, roster.ErrDuplicateName):
			res.skipped++
		default:
			fmt.Fprintf(os.Stderr, "add %q: %v\n", p.Name, err)
			res.errs++
		}
	}
	return res
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx := context.Background()

	accountID := os.Getenv("SEED_ACCOUNT")
	if accountID == "" {
		fmt.Fprintln(os.Stderr, "SEED_ACCOUNT is required")
		os.Exit(1)
	}

	// 1) Load roster.json
	data, err := os.ReadFile(getEnv("SEED_FILE", "go/internal/assets/roster.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "read roster.json: %v\n", err)
		os.Exit(1)
	}
	var players []SeedPlayer
	if err := json.Unmarshal(data, &players); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal players: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect to DB and make sure the tables exist
	cfg := dbconfig.NewConfigFromEnv()
	database, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	if err := postgres.Migrate(ctx, database); err != nil {
		fmt.Fprintf(os.Stderr, "migrate error: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Seed through the roster app so names are trimmed and deduplicated
	res := seed(ctx, roster.NewApp(postgres.NewRosterRepository(pool)), accountID, players)
	fmt.Printf(
		"Roster seed (%s): total=%d inserted=%d skipped=%d errors=%d\n",
		cfg.Redacted(), res.total, res.inserted, res.skipped, res.errs,
	)
}
