package models

// GameModeType identifies a preset table layout
type GameModeType string

const (
	GameModeTwoPlayers   GameModeType = "2P"
	GameModeThreePlayers GameModeType = "3P"
	GameModeFourPlayers  GameModeType = "4P"
)

// GameModeDetails is the configuration fixed at night start
type GameModeDetails struct {
	Type           GameModeType `json:"type" bson:"type" yaml:"type"`
	Title          string       `json:"title" bson:"title" yaml:"title"`
	Description    string       `json:"description" bson:"description" yaml:"description"`
	Teams          int          `json:"teams" bson:"teams" yaml:"teams"`
	PlayersPerTeam int          `json:"playersPerTeam" bson:"playersPerTeam" yaml:"players_per_team"`
	PointCap       int          `json:"pointCap" bson:"pointCap" yaml:"point_cap"`
}

// DefaultGameModes are the built-in table layouts
func DefaultGameModes() []GameModeDetails {
	return []GameModeDetails{
		{
			Type:           GameModeTwoPlayers,
			Title:          "2 players",
			Description:    "1 vs 1, first to 101",
			Teams:          2,
			PlayersPerTeam: 1,
			PointCap:       101,
		},
		{
			Type:           GameModeThreePlayers,
			Title:          "3 players",
			Description:    "1 vs 1 vs 1, first to 151",
			Teams:          3,
			PlayersPerTeam: 1,
			PointCap:       151,
		},
		{
			Type:           GameModeFourPlayers,
			Title:          "4 players",
			Description:    "2 vs 2, first to 151",
			Teams:          2,
			PlayersPerTeam: 2,
			PointCap:       151,
		},
	}
}
