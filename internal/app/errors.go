package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrNoEventData       = errors.New("no event data available")
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrInvalidEvent      = errors.New("invalid event configuration")
	ErrInvalidSchedule   = errors.New("invalid refresh schedule")
)
