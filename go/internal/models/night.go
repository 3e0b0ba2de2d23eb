package models

// GameTeamResult is a team's frozen state at the end of a game
type GameTeamResult struct {
	ID      int      `json:"id" bson:"id"`
	Name    string   `json:"name" bson:"name"`
	Score   int      `json:"score" bson:"score"`
	Players []Player `json:"players" bson:"players"`
}

// HasPlayer reports whether a player with the given name was on the team
func (r GameTeamResult) HasPlayer(name string) bool {
	for _, p := range r.Players {
		if p.Name == name {
			return true
		}
	}
	return false
}

// GameRecord is the immutable record of a finished game
type GameRecord struct {
	GameNumber   int              `json:"gameNumber" bson:"gameNumber"`
	Teams        []GameTeamResult `json:"teams" bson:"teams"`
	WinnerTeamID int              `json:"winnerTeamId" bson:"winnerTeamId"`
}

// Team returns the result row for the given team id
func (g GameRecord) Team(id int) (GameTeamResult, bool) {
	for _, t := range g.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return GameTeamResult{}, false
}

// SetRecord groups the games of one set. WinnerTeamID stays nil until the set concludes.
type SetRecord struct {
	SetNumber    int          `json:"setNumber" bson:"setNumber"`
	Games        []GameRecord `json:"games" bson:"games"`
	WinnerTeamID *int         `json:"winnerTeamId,omitempty" bson:"winnerTeamId,omitempty"`
}

// NightRecord is one play session. It becomes immutable once NightWinnerTeamID is set.
type NightRecord struct {
	ID                string          `json:"id" bson:"id"`
	Date              string          `json:"date" bson:"date"` // RFC 3339
	Mode              GameModeDetails `json:"mode" bson:"mode"`
	Sets              []SetRecord     `json:"sets" bson:"sets"`
	NightWinnerTeamID *int            `json:"nightWinnerTeamId,omitempty" bson:"nightWinnerTeamId,omitempty"`
}

// Completed reports whether the night has a recorded champion
func (n NightRecord) Completed() bool {
	return n.NightWinnerTeamID != nil
}

// FirstGame returns the first game played in the night, used to resolve team rosters
func (n NightRecord) FirstGame() (GameRecord, bool) {
	for _, s := range n.Sets {
		if len(s.Games) > 0 {
			return s.Games[0], true
		}
	}
	return GameRecord{}, false
}

// GameCount returns the number of games recorded across all sets
func (n NightRecord) GameCount() int {
	count := 0
	for _, s := range n.Sets {
		count += len(s.Games)
	}
	return count
}

// Clone returns a deep copy of the record
func (n NightRecord) Clone() NightRecord {
	out := n
	out.NightWinnerTeamID = cloneIntPtr(n.NightWinnerTeamID)
	if n.Sets != nil {
		out.Sets = make([]SetRecord, len(n.Sets))
		for i, s := range n.Sets {
			out.Sets[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the set
func (s SetRecord) Clone() SetRecord {
	out := s
	out.WinnerTeamID = cloneIntPtr(s.WinnerTeamID)
	if s.Games != nil {
		out.Games = make([]GameRecord, len(s.Games))
		for i, g := range s.Games {
			out.Games[i] = g.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the game
func (g GameRecord) Clone() GameRecord {
	out := g
	if g.Teams != nil {
		out.Teams = make([]GameTeamResult, len(g.Teams))
		for i, t := range g.Teams {
			t.Players = ClonePlayers(t.Players)
			out.Teams[i] = t
		}
	}
	return out
}

// ClonePlayers copies a player slice
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	copy(out, players)
	return out
}

// CloneTeams deep-copies a team slice
func CloneTeams(teams []Team) []Team {
	if teams == nil {
		return nil
	}
	out := make([]Team, len(teams))
	for i, t := range teams {
		t.Players = ClonePlayers(t.Players)
		out[i] = t
	}
	return out
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
