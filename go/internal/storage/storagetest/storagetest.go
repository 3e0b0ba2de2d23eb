// Package storagetest holds behavior checks shared by every history and roster backend.
package storagetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
)

// Night builds a completed two-set singles night
func Night(id, date string) models.NightRecord {
	ali := models.Player{ID: "p-ali", Name: "Ali", Avatar: "🦊"}
	bita := models.Player{ID: "p-bita", Name: "Bita"}
	game := func(n, winner, s0, s1 int) models.GameRecord {
		return models.GameRecord{
			GameNumber: n,
			Teams: []models.GameTeamResult{
				{ID: 0, Name: ali.Name, Score: s0, Players: []models.Player{ali}},
				{ID: 1, Name: bita.Name, Score: s1, Players: []models.Player{bita}},
			},
			WinnerTeamID: winner,
		}
	}
	return models.NightRecord{
		ID:   id,
		Date: date,
		Mode: models.DefaultGameModes()[0],
		Sets: []models.SetRecord{
			{SetNumber: 1, Games: []models.GameRecord{game(1, 0, 101, 12), game(2, 0, 110, 90)}, WinnerTeamID: models.IntPtr(0)},
			{SetNumber: 2, Games: []models.GameRecord{game(1, 1, 30, 104)}, WinnerTeamID: models.IntPtr(1)},
		},
		NightWinnerTeamID: models.IntPtr(0),
	}
}

var byID = cmpopts.SortSlices(func(a, b models.NightRecord) bool { return a.ID < b.ID })

// RunHistory exercises the history repository contract against repo
func RunHistory(t *testing.T, repo history.Repository) {
	t.Helper()
	ctx := context.Background()
	const account = "storagetest-history"
	t.Cleanup(func() { _ = repo.ClearHistory(ctx, account) })

	t.Run("empty account", func(t *testing.T) {
		got, err := repo.LoadHistory(ctx, account)
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no nights, got %d", len(got))
		}
	})

	first := Night("1760640000000", "2026-10-16T20:00:00Z")
	second := Night("1760726400000", "2026-10-17T20:00:00Z")

	t.Run("round trip", func(t *testing.T) {
		if err := repo.SaveHistory(ctx, account, []models.NightRecord{first, second}); err != nil {
			t.Fatalf("SaveHistory: %v", err)
		}
		got, err := repo.LoadHistory(ctx, account)
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if diff := cmp.Diff([]models.NightRecord{first, second}, got, byID); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("upsert by id", func(t *testing.T) {
		changed := first.Clone()
		changed.Sets[0].Games[0].Teams[1].Score = 13
		if err := repo.SaveHistory(ctx, account, []models.NightRecord{changed}); err != nil {
			t.Fatalf("SaveHistory: %v", err)
		}
		if err := repo.SaveHistory(ctx, account, []models.NightRecord{changed}); err != nil {
			t.Fatalf("SaveHistory again: %v", err)
		}
		got, err := repo.LoadHistory(ctx, account)
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if diff := cmp.Diff([]models.NightRecord{changed, second}, got, byID); diff != "" {
			t.Errorf("upsert mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		got, err := repo.LoadHistory(ctx, account+"-other")
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("other account sees %d nights", len(got))
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := repo.ClearHistory(ctx, account); err != nil {
			t.Fatalf("ClearHistory: %v", err)
		}
		got, err := repo.LoadHistory(ctx, account)
		if err != nil {
			t.Fatalf("LoadHistory: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no nights after clear, got %d", len(got))
		}
	})
}

var byName = cmpopts.SortSlices(func(a, b models.Player) bool { return a.Name < b.Name })

// RunRoster exercises the roster repository contract against repo
func RunRoster(t *testing.T, repo roster.Repository) {
	t.Helper()
	ctx := context.Background()
	const account = "storagetest-roster"
	t.Cleanup(func() { _ = repo.ClearPlayers(ctx, account) })

	ali := models.Player{ID: "p-ali", Name: "Ali", Avatar: "🦊"}
	bita := models.Player{ID: "p-bita", Name: "Bita", Avatar: "👤"}
	cyrus := models.Player{ID: "p-cyrus", Name: "Cyrus", Avatar: "🐻"}

	t.Run("save replaces roster", func(t *testing.T) {
		if err := repo.SavePlayers(ctx, account, []models.Player{ali, bita}); err != nil {
			t.Fatalf("SavePlayers: %v", err)
		}
		if err := repo.SavePlayers(ctx, account, []models.Player{ali, cyrus}); err != nil {
			t.Fatalf("SavePlayers: %v", err)
		}
		got, err := repo.LoadPlayers(ctx, account)
		if err != nil {
			t.Fatalf("LoadPlayers: %v", err)
		}
		if diff := cmp.Diff([]models.Player{ali, cyrus}, got, byName); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update", func(t *testing.T) {
		renamed := ali
		renamed.Name = "Alireza"
		renamed.Avatar = "🐯"
		if err := repo.UpdatePlayer(ctx, account, renamed); err != nil {
			t.Fatalf("UpdatePlayer: %v", err)
		}
		got, err := repo.LoadPlayers(ctx, account)
		if err != nil {
			t.Fatalf("LoadPlayers: %v", err)
		}
		if diff := cmp.Diff([]models.Player{renamed, cyrus}, got, byName); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeletePlayer(ctx, account, cyrus.ID); err != nil {
			t.Fatalf("DeletePlayer: %v", err)
		}
		got, err := repo.LoadPlayers(ctx, account)
		if err != nil {
			t.Fatalf("LoadPlayers: %v", err)
		}
		if len(got) != 1 || got[0].ID != ali.ID {
			t.Errorf("got %+v after delete", got)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := repo.ClearPlayers(ctx, account); err != nil {
			t.Fatalf("ClearPlayers: %v", err)
		}
		got, err := repo.LoadPlayers(ctx, account)
		if err != nil {
			t.Fatalf("LoadPlayers: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty roster, got %+v", got)
		}
	})
}
