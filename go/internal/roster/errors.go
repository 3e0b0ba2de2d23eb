package roster

import "errors"

var (
	// ErrStoreUnavailable classifies any failure of the backing store
	ErrStoreUnavailable = errors.New("roster store unavailable")
	// ErrPlayerNotFound is returned when no roster entry has the given id
	ErrPlayerNotFound = errors.New("player not found")
	// ErrNameRequired is returned for blank player names
	ErrNameRequired = errors.New("player name is required")
	// ErrDuplicateName is returned when another roster entry already uses the name
	ErrDuplicateName = errors.New("player name already exists")
	// ErrAccountRequired is returned when no account id was supplied
	ErrAccountRequired = errors.New("account id is required")
)
