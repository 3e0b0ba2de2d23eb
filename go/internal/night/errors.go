package night

import "errors"

var (
	ErrAccountRequired = errors.New("account id is required")
	ErrNoNight         = errors.New("no night in progress")
	ErrNightInProgress = errors.New("a night is already in progress")
	ErrUnknownMode     = errors.New("unknown game mode")
	// ErrUnsavedNight blocks a new night while the finished one is still waiting for RetrySave
	ErrUnsavedNight  = errors.New("the finished night has not been saved")
	ErrNothingToSave = errors.New("no finished night waiting to be saved")
)
