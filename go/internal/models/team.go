package models

import "strings"

// TeamNameSeparator joins member names into a team display name
const TeamNameSeparator = " & "

// Team represents one competing side within a night
type Team struct {
	ID               int      `json:"id"` // 0-based slot within the night
	Name             string   `json:"name"`
	Players          []Player `json:"players"`
	CurrentGameScore int      `json:"currentGameScore"`
	GamesWon         int      `json:"gamesWon"` // within the current set
	SetsWon          int      `json:"setsWon"`  // within the current night
}

// TeamName derives a team's display name from its members
func TeamName(players []Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return strings.Join(names, TeamNameSeparator)
}

// HasPlayer reports whether a player with the given name is on the team
func (t Team) HasPlayer(name string) bool {
	for _, p := range t.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}
