package stats

import "github.com/mcdev12/dominonight/go/internal/models"

// ComputeHeadToHead compares two players over every game both took part in, on opposing
// teams or the same one. A game won by the team they shared counts as a tie, so comparing a
// player with themselves reports each of their wins as a tie.
func ComputeHeadToHead(player1, player2 string, history []models.NightRecord) models.HeadToHeadStats {
	h2h := models.HeadToHeadStats{
		Player1Name: player1,
		Player2Name: player2,
	}

	for _, night := range history {
		for _, set := range night.Sets {
			for _, game := range set.Games {
				team1, ok1 := teamOf(game, player1)
				team2, ok2 := teamOf(game, player2)
				if !ok1 || !ok2 {
					continue
				}
				h2h.GamesPlayedTogether++

				won1 := team1 == game.WinnerTeamID
				won2 := team2 == game.WinnerTeamID
				switch {
				case won1 && !won2:
					h2h.Player1Wins++
				case won2 && !won1:
					h2h.Player2Wins++
				case won1 && won2:
					h2h.Ties++
				}
			}
		}
	}
	return h2h
}

func teamOf(game models.GameRecord, name string) (int, bool) {
	for _, t := range game.Teams {
		if t.HasPlayer(name) {
			return t.ID, true
		}
	}
	return 0, false
}
