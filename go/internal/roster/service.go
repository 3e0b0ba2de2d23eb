package roster

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/rpc"
)

const ServiceName = "dominonight.roster.v1.RosterService"

const (
	ListPlayersProcedure  = "/" + ServiceName + "/ListPlayers"
	AddPlayerProcedure    = "/" + ServiceName + "/AddPlayer"
	UpdatePlayerProcedure = "/" + ServiceName + "/UpdatePlayer"
	DeletePlayerProcedure = "/" + ServiceName + "/DeletePlayer"
	ClearPlayersProcedure = "/" + ServiceName + "/ClearPlayers"
)

// RosterApp defines what the service layer needs from the roster application
type RosterApp interface {
	ListPlayers(ctx context.Context, accountID string) ([]models.Player, error)
	AddPlayer(ctx context.Context, accountID, name, avatar string) (models.Player, error)
	UpdatePlayer(ctx context.Context, accountID, playerID, name, avatar string) (models.Player, error)
	DeletePlayer(ctx context.Context, accountID, playerID string) error
	ClearPlayers(ctx context.Context, accountID string) error
}

type AccountRequest struct {
	AccountID string `json:"accountId"`
}

type ListPlayersResponse struct {
	Players []models.Player `json:"players"`
}

type PlayerRequest struct {
	AccountID string `json:"accountId"`
	PlayerID  string `json:"playerId,omitempty"`
	Name      string `json:"name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type PlayerResponse struct {
	Player models.Player `json:"player"`
}

// Service implements the roster service over connect
type Service struct {
	app RosterApp
}

// NewService creates a new roster service
func NewService(app RosterApp) *Service {
	return &Service{app: app}
}

// Handler returns the path prefix and handler serving every roster procedure
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = rpc.HandlerOptions(opts...)
	mux := http.NewServeMux()
	rpc.Unary(mux, ListPlayersProcedure, s.ListPlayers, opts...)
	rpc.Unary(mux, AddPlayerProcedure, s.AddPlayer, opts...)
	rpc.Unary(mux, UpdatePlayerProcedure, s.UpdatePlayer, opts...)
	rpc.Unary(mux, DeletePlayerProcedure, s.DeletePlayer, opts...)
	rpc.Unary(mux, ClearPlayersProcedure, s.ClearPlayers, opts...)
	return "/" + ServiceName + "/", mux
}

// ListPlayers returns the roster sorted by name
func (s *Service) ListPlayers(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.app.ListPlayers(ctx, req.Msg.AccountID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListPlayersResponse{Players: players}), nil
}

// AddPlayer registers a player
func (s *Service) AddPlayer(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.app.AddPlayer(ctx, req.Msg.AccountID, req.Msg.Name, req.Msg.Avatar)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: player}), nil
}

// UpdatePlayer renames a player or changes the avatar
func (s *Service) UpdatePlayer(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[PlayerResponse], error) {
	player, err := s.app.UpdatePlayer(ctx, req.Msg.AccountID, req.Msg.PlayerID, req.Msg.Name, req.Msg.Avatar)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PlayerResponse{Player: player}), nil
}

// DeletePlayer removes a player
func (s *Service) DeletePlayer(ctx context.Context, req *connect.Request[PlayerRequest]) (*connect.Response[rpc.Empty], error) {
	if err := s.app.DeletePlayer(ctx, req.Msg.AccountID, req.Msg.PlayerID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.Empty{}), nil
}

// ClearPlayers empties the roster
func (s *Service) ClearPlayers(ctx context.Context, req *connect.Request[AccountRequest]) (*connect.Response[rpc.Empty], error) {
	if err := s.app.ClearPlayers(ctx, req.Msg.AccountID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rpc.Empty{}), nil
}

func toConnectError(err error) error {
	return rpc.Error(err,
		rpc.Rule{Target: ErrAccountRequired, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: ErrNameRequired, Code: connect.CodeInvalidArgument},
		rpc.Rule{Target: ErrDuplicateName, Code: connect.CodeAlreadyExists},
		rpc.Rule{Target: ErrPlayerNotFound, Code: connect.CodeNotFound},
		rpc.Rule{Target: ErrStoreUnavailable, Code: connect.CodeUnavailable},
	)
}
