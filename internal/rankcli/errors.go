package rankcli

import "errors"

// Sentinel kinds for rank tool errors.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrRemote          = errors.New("remote leaderboard unavailable")
	ErrMismatch        = errors.New("leaderboards differ")
)
