// Package types contains the JSON shapes served by the API and printed by the CLI.
package types

import (
	"time"

	"github.com/okian/wodboard/internal/domain/model"
)

// EventScore is a competitor's result in one event.
type EventScore struct {
	Rank        int    `json:"rank"`
	Score       string `json:"score"`
	Kind        string `json:"kind"`
	Division    string `json:"division"`
	Tiebreak    *int   `json:"tiebreak,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Standing is one row of a category leaderboard.
type Standing struct {
	Rank     int                   `json:"rank"`
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Points   int                   `json:"points"`
	Events   map[string]EventScore `json:"events"`
}

// Rejection describes an input row that was not scored.
type Rejection struct {
	EventID string   `json:"event_id"`
	Line    int      `json:"line,omitempty"`
	Cells   []string `json:"cells"`
	Reason  string   `json:"reason"`
}

// Leaderboard is the full ranked board of a category.
type Leaderboard struct {
	Category   string      `json:"category"`
	SnapshotID string      `json:"snapshot_id"`
	ComputedAt time.Time   `json:"computed_at"`
	Events     []string    `json:"events"`
	Standings  []Standing  `json:"standings"`
	Rejected   []Rejection `json:"rejected,omitempty"`
}

// EventResult is one row of an event table.
type EventResult struct {
	Name string `json:"name"`
	EventScore
}

// EventResults is the ranked table of one event in one category.
type EventResults struct {
	EventID  string        `json:"event_id"`
	Category string        `json:"category"`
	NextRank int           `json:"next_rank"`
	Results  []EventResult `json:"results"`
}

// Workout is an event description.
type Workout struct {
	EventID     string `json:"event_id"`
	Description string `json:"description"`
}

// NewEventScore converts a ranked entry.
func NewEventScore(e model.EventRankEntry) EventScore {
	s := EventScore{
		Rank:        e.Rank,
		Score:       e.ScoreRaw,
		Kind:        e.ScoreKind.String(),
		Division:    e.Division.String(),
		Placeholder: e.Placeholder,
	}
	if e.HasTiebreak {
		tb := e.Tiebreak
		s.Tiebreak = &tb
	}
	return s
}

// NewStanding converts a competitor standing.
func NewStanding(st model.CompetitorStanding) Standing {
	events := make(map[string]EventScore, len(st.PerEvent))
	for id, e := range st.PerEvent {
		events[id] = NewEventScore(e)
	}
	return Standing{
		Rank:     st.OverallRank,
		Name:     st.Name,
		Category: string(st.Category),
		Points:   st.Points,
		Events:   events,
	}
}

// NewLeaderboard converts a board, keeping standings in ranked order.
func NewLeaderboard(b model.Board) Leaderboard {
	lb := Leaderboard{
		Category:   string(b.Category),
		SnapshotID: b.SnapshotID,
		ComputedAt: b.ComputedAt,
		Events:     append([]string{}, b.EventIDs...),
		Standings:  make([]Standing, 0, len(b.Standings)),
	}
	for _, st := range b.Standings {
		lb.Standings = append(lb.Standings, NewStanding(st))
	}
	for _, r := range b.Rejected {
		lb.Rejected = append(lb.Rejected, NewRejection(r))
	}
	return lb
}

// NewRejection converts a rejected row.
func NewRejection(r model.Rejection) Rejection {
	reason := ""
	if r.Reason != nil {
		reason = r.Reason.Error()
	}
	return Rejection{EventID: r.EventID, Line: r.Line, Cells: r.Cells, Reason: reason}
}

// NewEventResults converts an event table, keeping ranked order.
func NewEventResults(category model.Category, t model.EventTable) EventResults {
	out := EventResults{
		EventID:  t.EventID,
		Category: string(category),
		NextRank: t.NextRank,
		Results:  make([]EventResult, 0, len(t.Order)),
	}
	for _, e := range t.Ranked() {
		out.Results = append(out.Results, EventResult{Name: e.Name, EventScore: NewEventScore(e)})
	}
	return out
}

// NewWorkouts converts workout descriptions.
func NewWorkouts(ws []model.Workout) []Workout {
	out := make([]Workout, 0, len(ws))
	for _, w := range ws {
		out = append(out, Workout{EventID: w.EventID, Description: w.Description})
	}
	return out
}

// EventStatus reports how one event fared during a refresh.
type EventStatus struct {
	EventID   string `json:"event_id"`
	Available bool   `json:"available"`
	Rows      int    `json:"rows"`
	Error     string `json:"error,omitempty"`
}

// RefreshReport summarizes a recompute.
type RefreshReport struct {
	SnapshotID string        `json:"snapshot_id,omitempty"`
	Outcome    string        `json:"outcome"`
	DurationMs int64         `json:"duration_ms"`
	Events     []EventStatus `json:"events"`
	Rejected   int           `json:"rejected_rows"`
}
