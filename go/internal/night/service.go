package night

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"github.com/mcdev12/dominonight/go/internal/rpc"
	"github.com/mcdev12/dominonight/go/internal/scoring"
)

// ServiceName is the fully-qualified name of the night service
const ServiceName = "dominonight.night.v1.NightService"

const (
	StartNightProcedure   = "/" + ServiceName + "/StartNight"
	ApplyRoundProcedure   = "/" + ServiceName + "/ApplyRound"
	EndSetProcedure       = "/" + ServiceName + "/EndSet"
	AdvanceStageProcedure = "/" + ServiceName + "/AdvanceStage"
	UndoProcedure         = "/" + ServiceName + "/Undo"
	GetNightProcedure     = "/" + ServiceName + "/GetNight"
	RetrySaveProcedure    = "/" + ServiceName + "/RetrySave"
	ResetNightProcedure   = "/" + ServiceName + "/ResetNight"
	ListModesProcedure    = "/" + ServiceName + "/ListModes"
)

// NightApp defines what the service layer needs from the night application
type NightApp interface {
	Modes() []models.GameModeDetails
	StartNight(ctx context.Context, accountID string, req StartNightRequest) (View, error)
	ApplyRound(ctx context.Context, accountID string, scores []int) (View, error)
	EndSet(ctx context.Context, accountID string) (View, error)
	AdvanceStage(ctx context.Context, accountID string, level scoring.Level) (View, error)
	Undo(ctx context.Context, accountID string) (View, error)
	GetNight(ctx context.Context, accountID string) (View, error)
	RetrySave(ctx context.Context, accountID string) (View, error)
	ResetNight(ctx context.Context, accountID string) error
}

type AccountRequest struct {
	AccountID string `json:"accountId"`
}

type StartNightMessage struct {
	AccountID    string              `json:"accountId"`
	Mode         models.GameModeType `json:"mode"`
	Teams        [][]string          `json:"teams"`
	PointCap     int                 `json:"pointCap,omitempty"`
	GamesPerSet  int                 `json:"gamesPerSet,omitempty"`
	SetsPerNight int                 `json:"setsPerNight,omitempty"`
}

type ApplyRoundMessage struct {
	AccountID string `json:"accountId"`
	Scores    []int  `json:"scores"`
}

type AdvanceStageMessage struct {
	AccountID string        `json:"accountId"`
	Level     scoring.Level `json:"level,omitempty"`
}

type ListModesResponse struct {
	Modes []models.GameModeDetails `json:"modes"`
}

// Service exposes the night app over connect
type Service struct {
	app NightApp
}

// NewService creates a new night service
func NewService(app NightApp) *Service {
	return &Service{app: app}
}

// Handler returns the path prefix and handler serving every night procedure
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpc.HandlerOptions(opts...)
	mux := http.NewServeMux()
	rpc.Unary(mux, StartNightProcedure, s.StartNight, opts...)
	rpc.Unary(mux, ApplyRoundProcedure, s.ApplyRound, opts...)
	rpc.Unary(mux, EndSetProcedure, s.EndSet, opts...)
	rpc.Unary(mux, AdvanceStageProcedure, s.AdvanceStage, opts...)
	rpc.Unary(mux, UndoProcedure, s.Undo, opts...)
	rpc.Unary(mux, GetNightProcedure, s.GetNight, opts...)
	rpc.Unary(mux, RetrySaveProcedure, s.RetrySave, opts...)
	rpc.Unary(mux, ResetNightProcedure, s.ResetNight, opts...)
	rpc.Unary(mux, ListModesProcedure, s.ListModes, opts...)
	return "/" + ServiceName + "/", mux
}

// StartNight opens a night for the account
func (s *Service) StartNight(ctx context.Context, req *connect.Request[StartNightMessage]) (*connect.Response[View], error) {
	view, err := s.app.StartNight(ctx, req.Msg.AccountID, StartNightRequest{
		Mode:         req.Msg.Mode,
		Teams:        req.Msg.Teams,
		PointCap:     req.Msg.PointCap,
		GamesPerSet:  req.Msg.GamesPerSet,
		SetsPerNight: req.Msg.SetsPerNight,
	})
	return respond(view, err)
}

// ApplyRound records one round of points
func (s *Service) ApplyRound(ctx context.Context, req *connect.Request[ApplyRoundMessage]) (*connect.Response[View], error) {
	return respond(s.app.ApplyRound(ctx, req.Msg.AccountID, req.Msg.Scores))
}

// EndSet closes the current set
func (s *Service) EndSet(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[View], error) {
	return respond(s.app.EndSet(ctx, req.Msg.AccountID))
}

// AdvanceStage acknowledges the pending win
func (s *Service) AdvanceStage(ctx context.Context, req *connect.Request[AdvanceStageMessage]) (*connect.Response[View], error) {
	return respond(s.app.AdvanceStage(ctx, req.Msg.AccountID, req.Msg.Level))
}

// Undo reverts the last round
func (s *Service) Undo(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[View], error) {
	return respond(s.app.Undo(ctx, req.Msg.AccountID))
}

// GetNight returns the open night
func (s *Service) GetNight(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[View], error) {
	return respond(s.app.GetNight(ctx, req.Msg.AccountID))
}

// RetrySave saves a finished night that failed to save earlier
func (s *Service) RetrySave(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[View], error) {
	return respond(s.app.RetrySave(ctx, req.Msg.AccountID))
}

// ResetNight discards the open night
func (s *Service) ResetNight(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[rpc.Empty], error) {
	if err := s.app.ResetNight(ctx, req.Msg.AccountID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.Empty{}), nil
}

// ListModes returns the selectable game modes
func (s *Service) ListModes(_ context.Context, _ *connect.Request[rpc.Empty]) (*connect.Response[ListModesResponse], error) {
	return connect.NewResponse(&ListModesResponse{Modes: s.app.Modes()}), nil
}

// respond drops the view on error. A failed save still leaves the night readable through GetNight.
func respond(view View, err error) (*connect.Response[View], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&view), nil
}

func toConnectError(err error) error {
	return rpc.Error(err,
		rpc.Rule{Target: ErrAccountRequired, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: ErrUnknownMode, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: scoring.ErrInvalidScores, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: scoring.ErrInvalidSettings, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: scoring.ErrInvalidRoster, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: scoring.ErrStageMismatch, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: ErrNoNight, Code: connect.CodeNotFound},
		rpc.Rule{Target: roster.ErrPlayerNotFound, Code: connect.CodeNotFound},
		rpc.Rule{Target: ErrNightInProgress, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: ErrUnsavedNight, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: ErrNothingToSave, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: scoring.ErrWinPending, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: scoring.ErrNoPendingWin, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: scoring.ErrNoGamesInSet, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: scoring.ErrNightComplete, Code: connect.CodeFailedPrecondition},
		rpc.Rule{Target: history.ErrStoreUnavailable, Code: connect.CodeUnavailable},
		rpc.Rule{Target: roster.ErrStoreUnavailable, Code: connect.CodeUnavailable},
	)
}
