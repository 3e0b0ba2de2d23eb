package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mcdev12/dominonight/go/internal/models"
)

func team(id int, score int, names ...string) models.GameTeamResult {
	players := make([]models.Player, len(names))
	for i, n := range names {
		players[i] = models.Player{ID: "id-" + n, Name: n}
	}
	return models.GameTeamResult{ID: id, Name: models.TeamName(players), Score: score, Players: players}
}

func game(number, winner int, teams ...models.GameTeamResult) models.GameRecord {
	return models.GameRecord{GameNumber: number, Teams: teams, WinnerTeamID: winner}
}

// Ali beats Bita two games to one in a single-set night.
func singlesNight() models.NightRecord {
	return models.NightRecord{
		ID:   "1",
		Date: "2026-10-16T20:00:00Z",
		Mode: models.DefaultGameModes()[0],
		Sets: []models.SetRecord{{
			SetNumber: 1,
			Games: []models.GameRecord{
				game(1, 0, team(0, 105, "Ali"), team(1, 70, "Bita")),
				game(2, 1, team(0, 50, "Ali"), team(1, 110, "Bita")),
				game(3, 0, team(0, 120, "Ali"), team(1, 30, "Bita")),
			},
			WinnerTeamID: models.IntPtr(0),
		}},
		NightWinnerTeamID: models.IntPtr(0),
	}
}

func doublesNight(id string, winner int, teamA, teamB []string) models.NightRecord {
	return models.NightRecord{
		ID:   id,
		Mode: models.DefaultGameModes()[2],
		Sets: []models.SetRecord{{
			SetNumber:    1,
			Games:        []models.GameRecord{game(1, winner, team(0, 151, teamA...), team(1, 60, teamB...))},
			WinnerTeamID: models.IntPtr(winner),
		}},
		NightWinnerTeamID: models.IntPtr(winner),
	}
}

func TestComputePlayerStatsEmpty(t *testing.T) {
	got := ComputePlayerStats(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestComputePlayerStatsSingleNight(t *testing.T) {
	got := ComputePlayerStats([]models.NightRecord{singlesNight()})

	want := []models.PlayerStats{
		{Name: "Ali", GamesPlayed: 3, GamesWon: 2, WinRate: "66.7%", TotalPoints: 275, AvgPointsPerGame: "91.7", SetWins: 1, NightWins: 1},
		{Name: "Bita", GamesPlayed: 3, GamesWon: 1, WinRate: "33.3%", TotalPoints: 210, AvgPointsPerGame: "70.0", SetWins: 0, NightWins: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestComputePlayerStatsOrdering(t *testing.T) {
	history := []models.NightRecord{
		singlesNight(),
		doublesNight("2", 1, []string{"Ali", "Cyrus"}, []string{"Bita", "Dana"}),
		doublesNight("3", 1, []string{"Ali", "Cyrus"}, []string{"Bita", "Dana"}),
	}

	got := ComputePlayerStats(history)

	var names []string
	for _, r := range got {
		names = append(names, r.Name)
	}
	// Bita and Dana have 2 night wins; Bita has more games won. Ali has 1, Cyrus none.
	want := []string{"Bita", "Dana", "Ali", "Cyrus"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestComputePlayerStatsStableForEqualRows(t *testing.T) {
	history := []models.NightRecord{{
		ID: "1",
		Sets: []models.SetRecord{{
			SetNumber: 1,
			Games:     []models.GameRecord{game(1, 0, team(0, 10, "Zed"), team(1, 10, "Amy"), team(2, 10, "Kai"))},
		}},
	}}
	// Amy and Kai tie on every key and keep their first-seen order.
	got := ComputePlayerStats(history)
	if got[0].Name != "Zed" || got[1].Name != "Amy" || got[2].Name != "Kai" {
		t.Errorf("got order %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestComputePlayerStatsKeepsFirstAvatar(t *testing.T) {
	n := singlesNight()
	n.Sets[0].Games[1].Teams[0].Players[0].Avatar = "🦊"
	n.Sets[0].Games[2].Teams[0].Players[0].Avatar = "🐻"

	row, ok := Find(ComputePlayerStats([]models.NightRecord{n}), "Ali")
	if !ok {
		t.Fatal("Ali missing")
	}
	if row.Avatar != "🦊" {
		t.Errorf("avatar: got %q, want first non-empty", row.Avatar)
	}
}

func TestComputePlayerStatsMergesSameName(t *testing.T) {
	n := singlesNight()
	n.Sets[0].Games[0].Teams[1].Players[0].ID = "someone-else"

	rows := ComputePlayerStats([]models.NightRecord{n})
	if len(rows) != 2 {
		t.Fatalf("expected players keyed by name, got %d rows", len(rows))
	}
}

func TestComputePlayerStatsIgnoresSetsWithoutGames(t *testing.T) {
	n := singlesNight()
	n.Sets = append(n.Sets, models.SetRecord{SetNumber: 2, Games: []models.GameRecord{}, WinnerTeamID: models.IntPtr(0)})

	row, _ := Find(ComputePlayerStats([]models.NightRecord{n}), "Ali")
	if row.SetWins != 1 {
		t.Errorf("setWins: got %d, want 1", row.SetWins)
	}
}

func TestLeaderboard(t *testing.T) {
	history := []models.NightRecord{singlesNight()}
	if got := Leaderboard(history, 1); len(got) != 1 || got[0].Name != "Ali" {
		t.Errorf("limit 1: got %+v", got)
	}
	if got := Leaderboard(history, 0); len(got) != 2 {
		t.Errorf("limit 0: got %d rows, want 2", len(got))
	}
}

func TestComputeHeadToHead(t *testing.T) {
	history := []models.NightRecord{
		singlesNight(),
		doublesNight("2", 0, []string{"Ali", "Cyrus"}, []string{"Bita", "Dana"}),
		doublesNight("3", 0, []string{"Ali", "Bita"}, []string{"Cyrus", "Dana"}),
		doublesNight("4", 1, []string{"Ali", "Bita"}, []string{"Cyrus", "Dana"}),
	}

	tests := []struct {
		name string
		p1   string
		p2   string
		want models.HeadToHeadStats
	}{
		{
			name: "rivals and teammates",
			p1:   "Ali", p2: "Bita",
			want: models.HeadToHeadStats{Player1Name: "Ali", Player2Name: "Bita", GamesPlayedTogether: 6, Player1Wins: 3, Player2Wins: 1, Ties: 1},
		},
		{
			name: "order swaps the win columns",
			p1:   "Bita", p2: "Ali",
			want: models.HeadToHeadStats{Player1Name: "Bita", Player2Name: "Ali", GamesPlayedTogether: 6, Player1Wins: 1, Player2Wins: 3, Ties: 1},
		},
		{
			name: "never met",
			p1:   "Ali", p2: "Nobody",
			want: models.HeadToHeadStats{Player1Name: "Ali", Player2Name: "Nobody"},
		},
		{
			name: "same player",
			p1:   "Ali", p2: "Ali",
			want: models.HeadToHeadStats{Player1Name: "Ali", Player2Name: "Ali", GamesPlayedTogether: 6, Ties: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHeadToHead(tt.p1, tt.p2, history)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("head to head mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOneDecimalRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"average on a half", avgPoints(405, 4), "101.3"},
		{"win rate on a half", winRate(1, 16), "6.3%"},
		{"win rate exact", winRate(1, 8), "12.5%"},
		{"repeating decimal", winRate(2, 3), "66.7%"},
		{"whole number", avgPoints(210, 3), "70.0"},
		{"small half", toFixed1(0.25), "0.3"},
		{"stored below the half", toFixed1(0.15), "0.1"},
		{"stored above the half", toFixed1(0.05), "0.1"},
		{"no games", avgPoints(0, 0), "0"},
		{"no win rate", winRate(0, 0), "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestComputePlayerStatsAverageOnAHalf(t *testing.T) {
	night := models.NightRecord{
		ID:   "1",
		Date: "2026-10-16T20:00:00Z",
		Mode: models.DefaultGameModes()[0],
		Sets: []models.SetRecord{{
			SetNumber: 1,
			Games: []models.GameRecord{
				game(1, 0, team(0, 101, "Ali"), team(1, 40, "Bita")),
				game(2, 0, team(0, 101, "Ali"), team(1, 40, "Bita")),
				game(3, 0, team(0, 101, "Ali"), team(1, 40, "Bita")),
				game(4, 1, team(0, 102, "Ali"), team(1, 103, "Bita")),
			},
			WinnerTeamID: models.IntPtr(0),
		}},
		NightWinnerTeamID: models.IntPtr(0),
	}

	ali, ok := Find(ComputePlayerStats([]models.NightRecord{night}), "Ali")
	if !ok {
		t.Fatal("Ali missing from stats")
	}
	if ali.AvgPointsPerGame != "101.3" || ali.WinRate != "75.0%" {
		t.Errorf("got avg %q rate %q, want 101.3 and 75.0%%", ali.AvgPointsPerGame, ali.WinRate)
	}
}
