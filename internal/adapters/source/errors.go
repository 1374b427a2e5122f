package source

import "errors"

// Sentinel kinds for source failures. Callers treat both as "event not available".
var (
	ErrFetch = errors.New("fetch source failed")
	ErrParse = errors.New("parse source failed")
)

// ErrScoresheet reports a scoresheet that cannot be converted.
var ErrScoresheet = errors.New("invalid scoresheet")
