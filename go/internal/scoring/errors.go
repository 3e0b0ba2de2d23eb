package scoring

import "errors"

var (
	// ErrInvalidScores is returned when a round's score vector does not fit the teams
	ErrInvalidScores = errors.New("invalid round scores")
	// ErrInvalidSettings is returned when a night is configured with non-positive limits
	ErrInvalidSettings = errors.New("invalid night settings")
	// ErrInvalidRoster is returned when teams do not match the selected game mode
	ErrInvalidRoster = errors.New("invalid team roster")
	// ErrWinPending is returned when a command needs the pending win to be acknowledged first
	ErrWinPending = errors.New("a win is waiting to be acknowledged")
	// ErrNoPendingWin is returned when advancing without a win to acknowledge
	ErrNoPendingWin = errors.New("no win to acknowledge")
	// ErrStageMismatch is returned when the requested stage differs from the pending win level
	ErrStageMismatch = errors.New("stage does not match pending win")
	// ErrNoGamesInSet is returned when ending a set before any game was played in it
	ErrNoGamesInSet = errors.New("no games played in current set")
	// ErrNightComplete is returned for any mutation after the night was finalized
	ErrNightComplete = errors.New("night is already complete")
)
