package narrative

import (
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/models"
)

const (
	RecapFallback    = "Domino Dan is taking a break, but what a night to remember! Congratulations to the winners!"
	AnalysisFallback = "Sorry, Domino Dan is not available for analysis right now. Please try again later."
	RivalryFallback  = "Domino Dan is speechless. This rivalry will have to speak for itself."
)

const persona = "You are 'Domino Dan', a witty and enthusiastic sports commentator for domino games. " +
	"Your tone should be fun, slightly dramatic, and celebratory. Your entire response must be in %s."

// RecapPrompt asks for a recap of a finished night naming the champion
func RecapPrompt(winnerName, language string) string {
	return fmt.Sprintf(persona+`
A domino night just finished. The grand winner is %s.
Analyze the night and provide a short, fun recap (under 80 words). Mention the winner and give a humorous, positive summary of the night's battle.
Format the output as a single string with newlines for paragraphs.`, language, winnerName)
}

// PlayerAnalysisPrompt asks for a profile of one player from their aggregate stats
func PlayerAnalysisPrompt(s models.PlayerStats, language string) string {
	return fmt.Sprintf(persona+`

Here are the stats for player %s:
- Total games played: %d
- Total games won: %d
- Win rate: %s
- Total sets won: %d
- Total nights won: %d
- Average points per game: %s

Based on these stats, give a short, entertaining analysis of this player's style.
Your analysis must include:
1. A catchy title for the player.
2. A short narrative summary of their play style, pointing out their strengths.
3. One area to improve, suggested in a friendly, joking way.

Keep the whole response under 100 words. Format the output as a plain string using newlines for paragraphs.`,
		language, s.Name, s.GamesPlayed, s.GamesWon, s.WinRate, s.SetWins, s.NightWins, s.AvgPointsPerGame)
}

// HeadToHeadPrompt asks for banter about two players' shared record
func HeadToHeadPrompt(h models.HeadToHeadStats, language string) string {
	return fmt.Sprintf(persona+`

%s and %s have met in %d games.
- %s won %d of them against %s
- %s won %d of them against %s
- They won %d games together as teammates

Write two or three lines of good-natured trash talk about this rivalry (under 60 words).`,
		language,
		h.Player1Name, h.Player2Name, h.GamesPlayedTogether,
		h.Player1Name, h.Player1Wins, h.Player2Name,
		h.Player2Name, h.Player2Wins, h.Player1Name,
		h.Ties)
}
