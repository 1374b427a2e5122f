package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownCategory = errors.New("unknown category")
)
