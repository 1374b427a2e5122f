package model

// Workout is the free-text description of one event.
type Workout struct {
	EventID     string
	Description string
}
