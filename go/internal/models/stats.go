package models

// PlayerStats aggregates a player's results across the history log
type PlayerStats struct {
	Name             string `json:"name"`
	Avatar           string `json:"avatar,omitempty"`
	GamesPlayed      int    `json:"gamesPlayed"`
	GamesWon         int    `json:"gamesWon"`
	WinRate          string `json:"winRate"`
	TotalPoints      int    `json:"totalPoints"`
	AvgPointsPerGame string `json:"avgPointsPerGame"`
	SetWins          int    `json:"setWins"`
	NightWins        int    `json:"nightWins"`
}

// HeadToHeadStats compares two players over the games they both played.
// Ties counts games the two won together on the same team.
type HeadToHeadStats struct {
	Player1Name         string `json:"player1Name"`
	Player2Name         string `json:"player2Name"`
	GamesPlayedTogether int    `json:"gamesPlayedTogether"`
	Player1Wins         int    `json:"player1Wins"`
	Player2Wins         int    `json:"player2Wins"`
	Ties                int    `json:"ties"`
}
