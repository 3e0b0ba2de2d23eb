package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dominonight/go/internal/events"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/publisher"
	"github.com/mcdev12/dominonight/go/internal/rpc"
	"github.com/mcdev12/dominonight/go/internal/stats"
	"github.com/rs/zerolog/log"
)

const ServiceName = "dominonight.history.v1.HistoryService"

const (
	ListNightsProcedure   = "/" + ServiceName + "/ListNights"
	ClearHistoryProcedure = "/" + ServiceName + "/ClearHistory"
	LeaderboardProcedure  = "/" + ServiceName + "/Leaderboard"
	PlayerStatsProcedure  = "/" + ServiceName + "/PlayerStats"
	HeadToHeadProcedure   = "/" + ServiceName + "/HeadToHead"
)

// HistoryApp defines what the service layer needs from the history application
type HistoryApp interface {
	SearchNights(ctx context.Context, accountID, query string) ([]models.NightRecord, error)
	ClearHistory(ctx context.Context, accountID string) error
}

// Narrator writes the optional commentary on the stats screen
type Narrator interface {
	PlayerAnalysis(ctx context.Context, stats models.PlayerStats) string
	RivalryBanter(ctx context.Context, h2h models.HeadToHeadStats) string
}

type ListNightsRequest struct {
	AccountID string `json:"accountId"`
	Query     string `json:"query,omitempty"`
}

type ListNightsResponse struct {
	Nights []models.NightRecord `json:"nights"`
	// Skipped counts stored records that failed validation and were left out
	Skipped int `json:"skipped,omitempty"`
}

type ClearHistoryRequest struct {
	AccountID string `json:"accountId"`
}

type LeaderboardRequest struct {
	AccountID string `json:"accountId"`
	Limit     int    `json:"limit,omitempty"`
}

type LeaderboardResponse struct {
	Players []models.PlayerStats `json:"players"`
}

type PlayerStatsRequest struct {
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Analysis  bool   `json:"analysis,omitempty"`
}

type PlayerStatsResponse struct {
	Stats    models.PlayerStats `json:"stats"`
	Analysis string             `json:"analysis,omitempty"`
}

type HeadToHeadRequest struct {
	AccountID string `json:"accountId"`
	Player1   string `json:"player1"`
	Player2   string `json:"player2"`
	Banter    bool   `json:"banter,omitempty"`
}

type HeadToHeadResponse struct {
	Stats  models.HeadToHeadStats `json:"stats"`
	Banter string                 `json:"banter,omitempty"`
}

// Service exposes history and the statistics derived from it over connect
type Service struct {
	app       HistoryApp
	narrator  Narrator
	publisher publisher.Publisher
	clock     clockwork.Clock
}

// NewService creates a new history service
func NewService(app HistoryApp, narrator Narrator, pub publisher.Publisher, clock clockwork.Clock) *Service {
	if pub == nil {
		pub = publisher.LogPublisher{}
	}
	return &Service{
		app:       app,
		narrator:  narrator,
		publisher: pub,
		clock:     clock,
	}
}

// Handler returns the path prefix and handler serving every history procedure
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpc.HandlerOptions(opts...)
	mux := http.NewServeMux()
	rpc.Unary(mux, ListNightsProcedure, s.ListNights, opts...)
	rpc.Unary(mux, ClearHistoryProcedure, s.ClearHistory, opts...)
	rpc.Unary(mux, LeaderboardProcedure, s.Leaderboard, opts...)
	rpc.Unary(mux, PlayerStatsProcedure, s.PlayerStats, opts...)
	rpc.Unary(mux, HeadToHeadProcedure, s.HeadToHead, opts...)
	return "/" + ServiceName + "/", mux
}

// ListNights returns the history newest first, optionally filtered by player name
func (s *Service) ListNights(ctx context.Context, req *connect.Request[ListNightsRequest]) (*connect.Response[ListNightsResponse], error) {
	nights, skipped, err := s.load(ctx, req.Msg.AccountID, req.Msg.Query)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListNightsResponse{Nights: nights, Skipped: skipped}), nil
}

// ClearHistory deletes the account's history
func (s *Service) ClearHistory(ctx context.Context, req *connect.Request[ClearHistoryRequest]) (*connect.Response[rpc.Empty], error) {
	if err := s.app.ClearHistory(ctx, req.Msg.AccountID); err != nil {
		return nil, toConnectError(err)
	}

	now := s.clock.Now()
	event, err := events.New(req.Msg.AccountID, "", events.TypeHistoryCleared, events.HistoryClearedPayload{ClearedAt: now.UTC()}, now)
	if err == nil {
		err = s.publisher.Publish(ctx, event)
	}
	if err != nil {
		log.Warn().Err(err).Str("account_id", req.Msg.AccountID).Msg("Failed to publish history cleared event")
	}
	return connect.NewResponse(&rpc.Empty{}), nil
}

// Leaderboard returns player stats ranked by nights, sets, then games won
func (s *Service) Leaderboard(ctx context.Context, req *connect.Request[LeaderboardRequest]) (*connect.Response[LeaderboardResponse], error) {
	nights, _, err := s.load(ctx, req.Msg.AccountID, "")
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&LeaderboardResponse{Players: stats.Leaderboard(nights, req.Msg.Limit)}), nil
}

// PlayerStats returns one player's row, with generated commentary when asked for
func (s *Service) PlayerStats(ctx context.Context, req *connect.Request[PlayerStatsRequest]) (*connect.Response[PlayerStatsResponse], error) {
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("player name is required"))
	}
	nights, _, err := s.load(ctx, req.Msg.AccountID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	row, ok := stats.Find(stats.ComputePlayerStats(nights), name)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %s", ErrPlayerNotInHistory, name))
	}

	res := &PlayerStatsResponse{Stats: row}
	if req.Msg.Analysis && s.narrator != nil {
		res.Analysis = s.narrator.PlayerAnalysis(ctx, row)
	}
	return connect.NewResponse(res), nil
}

// HeadToHead compares two players over the games they shared
func (s *Service) HeadToHead(ctx context.Context, req *connect.Request[HeadToHeadRequest]) (*connect.Response[HeadToHeadResponse], error) {
	p1, p2 := strings.TrimSpace(req.Msg.Player1), strings.TrimSpace(req.Msg.Player2)
	if p1 == "" || p2 == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("two player names are required"))
	}
	if p1 == p2 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: %s", ErrSamePlayer, p1))
	}
	nights, _, err := s.load(ctx, req.Msg.AccountID, "")
	if err != nil {
		return nil, toConnectError(err)
	}

	res := &HeadToHeadResponse{Stats: stats.ComputeHeadToHead(p1, p2, nights)}
	if req.Msg.Banter && s.narrator != nil && res.Stats.GamesPlayedTogether > 0 {
		res.Banter = s.narrator.RivalryBanter(ctx, res.Stats)
	}
	return connect.NewResponse(res), nil
}

// load reads the history, treating skipped malformed records as a warning
func (s *Service) load(ctx context.Context, accountID, query string) ([]models.NightRecord, int, error) {
	nights, err := s.app.SearchNights(ctx, accountID, query)
	var malformed *MalformedRecordsError
	if errors.As(err, &malformed) {
		return nights, len(malformed.Errs), nil
	}
	if err != nil {
		return nil, 0, err
	}
	return nights, 0, nil
}

func toConnectError(err error) error {
	return rpc.Error(err,
		rpc.Rule{Target: ErrAccountRequired, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: ErrMalformedRecord, Code: connect.CodeDataLoss},
		rpc.Rule{Target: ErrStoreUnavailable, Code: connect.CodeUnavailable},
	)
}
