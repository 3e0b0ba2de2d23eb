package history

import "errors"

var (
	// ErrStoreUnavailable classifies any failure of the backing store. The caller may retry.
	ErrStoreUnavailable = errors.New("history store unavailable")
	// ErrMalformedRecord is returned when a persisted night does not match the record schema
	ErrMalformedRecord = errors.New("malformed night record")
	// ErrAccountRequired is returned when no account id was supplied
	ErrAccountRequired = errors.New("account id is required")
	// ErrNightIncomplete is returned when saving a night without a champion
	ErrNightIncomplete = errors.New("night is not complete")
	// ErrPlayerNotInHistory is returned when stats are requested for a name that never played
	ErrPlayerNotInHistory = errors.New("player has no recorded games")
	// ErrSamePlayer is returned when a head-to-head names one player twice
	ErrSamePlayer = errors.New("head to head needs two different players")
)
