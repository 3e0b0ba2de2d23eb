// Package stats derives player metrics from the history of completed nights.
package stats

import (
	"math/big"
	"sort"

	"github.com/mcdev12/dominonight/go/internal/models"
)

// playerTally accumulates raw counters for one player name
type playerTally struct {
	name        string
	avatar      string
	gamesPlayed int
	gamesWon    int
	totalPoints int
	setWins     int
	nightWins   int
}

// ComputePlayerStats aggregates every player found in history.
//
// Players are keyed by display name, so two people sharing a name are merged. Set and night
// winners are resolved against the team snapshot of the first game of the set or night.
// Rows are ordered by night wins, then set wins, then games won; ties keep first-seen order.
func ComputePlayerStats(history []models.NightRecord) []models.PlayerStats {
	tallies := make(map[string]*playerTally)
	var order []string

	get := func(p models.Player) *playerTally {
		t, ok := tallies[p.Name]
		if !ok {
			t = &playerTally{name: p.Name, avatar: p.Avatar}
			tallies[p.Name] = t
			order = append(order, p.Name)
		}
		if t.avatar == "" && p.Avatar != "" {
			t.avatar = p.Avatar
		}
		return t
	}

	for _, night := range history {
		if night.NightWinnerTeamID != nil && len(night.Sets) > 0 && len(night.Sets[0].Games) > 0 {
			if team, ok := night.Sets[0].Games[0].Team(*night.NightWinnerTeamID); ok {
				for _, p := range team.Players {
					get(p).nightWins++
				}
			}
		}

		for _, set := range night.Sets {
			if set.WinnerTeamID != nil && len(set.Games) > 0 {
				if team, ok := set.Games[0].Team(*set.WinnerTeamID); ok {
					for _, p := range team.Players {
						get(p).setWins++
					}
				}
			}

			for _, game := range set.Games {
				for _, team := range game.Teams {
					for _, p := range team.Players {
						t := get(p)
						t.gamesPlayed++
						t.totalPoints += team.Score
						if team.ID == game.WinnerTeamID {
							t.gamesWon++
						}
					}
				}
			}
		}
	}

	out := make([]models.PlayerStats, 0, len(order))
	for _, name := range order {
		t := tallies[name]
		out = append(out, models.PlayerStats{
			Name:             t.name,
			Avatar:           t.avatar,
			GamesPlayed:      t.gamesPlayed,
			GamesWon:         t.gamesWon,
			WinRate:          winRate(t.gamesWon, t.gamesPlayed),
			TotalPoints:      t.totalPoints,
			AvgPointsPerGame: avgPoints(t.totalPoints, t.gamesPlayed),
			SetWins:          t.setWins,
			NightWins:        t.nightWins,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.NightWins != b.NightWins {
			return a.NightWins > b.NightWins
		}
		if a.SetWins != b.SetWins {
			return a.SetWins > b.SetWins
		}
		return a.GamesWon > b.GamesWon
	})
	return out
}

// Leaderboard returns the first limit rows of ComputePlayerStats; limit <= 0 returns all.
func Leaderboard(history []models.NightRecord, limit int) []models.PlayerStats {
	rows := ComputePlayerStats(history)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Find returns the stats row for the given player name.
func Find(rows []models.PlayerStats, name string) (models.PlayerStats, bool) {
	for _, r := range rows {
		if r.Name == name {
			return r, true
		}
	}
	return models.PlayerStats{}, false
}

func winRate(won, played int) string {
	if played == 0 {
		return "0%"
	}
	return toFixed1(float64(won)/float64(played)*100) + "%"
}

func avgPoints(total, played int) string {
	if played == 0 {
		return "0"
	}
	return toFixed1(float64(total) / float64(played))
}

// toFixed1 formats a non-negative x with one decimal. Halves round up, judged on the exact
// binary value of x, so 101.25 gives "101.3" while 0.15 (stored just below) gives "0.1".
func toFixed1(x float64) string {
	v := new(big.Float).SetPrec(256).SetFloat64(x)
	v.Mul(v, big.NewFloat(10))
	v.Add(v, big.NewFloat(0.5))
	tenths, _ := v.Int(nil)
	whole, frac := new(big.Int).QuoRem(tenths, big.NewInt(10), new(big.Int))
	return whole.String() + "." + frac.String()
}
