package roster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/mcdev12/dominonight/go/internal/rpc"
	"github.com/mcdev12/dominonight/go/internal/storage/memory"
)

func TestServiceRoster(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle(NewService(NewApp(memory.NewStore())).Handler())
	srv := httptest.NewServer(mux)
	defer srv.Close()
	ctx := context.Background()

	add := connect.NewClient[PlayerRequest, PlayerResponse](srv.Client(), srv.URL+AddPlayerProcedure, rpc.WithJSON())
	update := connect.NewClient[PlayerRequest, PlayerResponse](srv.Client(), srv.URL+UpdatePlayerProcedure, rpc.WithJSON())
	del := connect.NewClient[PlayerRequest, rpc.Empty](srv.Client(), srv.URL+DeletePlayerProcedure, rpc.WithJSON())
	list := connect.NewClient[AccountRequest, ListPlayersResponse](srv.Client(), srv.URL+ListPlayersProcedure, rpc.WithJSON())

	zed, err := add.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", Name: "Zed"}))
	if err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if zed.Msg.Player.Avatar != DefaultAvatar {
		t.Errorf("avatar = %q, want default", zed.Msg.Player.Avatar)
	}
	if _, err := add.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", Name: "Ali", Avatar: "🦊"})); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}

	_, err = add.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", Name: "Ali"}))
	if connect.CodeOf(err) != connect.CodeAlreadyExists {
		t.Errorf("duplicate add code = %v, want AlreadyExists", connect.CodeOf(err))
	}
	_, err = add.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", Name: "  "}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("blank add code = %v, want InvalidArgument", connect.CodeOf(err))
	}

	renamed, err := update.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", PlayerID: zed.Msg.Player.ID, Name: "Bita"}))
	if err != nil {
		t.Fatalf("UpdatePlayer: %v", err)
	}
	if renamed.Msg.Player.Name != "Bita" || renamed.Msg.Player.Avatar != DefaultAvatar {
		t.Errorf("updated player = %+v", renamed.Msg.Player)
	}

	res, err := list.CallUnary(ctx, connect.NewRequest(&AccountRequest{AccountID: "acct"}))
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(res.Msg.Players) != 2 || res.Msg.Players[0].Name != "Ali" || res.Msg.Players[1].Name != "Bita" {
		t.Errorf("players = %+v, want Ali then Bita", res.Msg.Players)
	}

	if _, err := del.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", PlayerID: zed.Msg.Player.ID})); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	_, err = del.CallUnary(ctx, connect.NewRequest(&PlayerRequest{AccountID: "acct", PlayerID: zed.Msg.Player.ID}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("second delete code = %v, want NotFound", connect.CodeOf(err))
	}
}
