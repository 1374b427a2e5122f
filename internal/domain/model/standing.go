package model

import "time"

// EventRankEntry is a competitor's placing in a single event.
type EventRankEntry struct {
	Name        string
	Rank        int
	ScoreRaw    string
	ScoreValue  int
	ScoreKind   ScoreKind
	Tiebreak    int
	HasTiebreak bool
	Division    Division
	// Placeholder marks an entry synthesized for a competitor with no result.
	Placeholder bool
}

// EventTable is the ranked result of one event within one category.
type EventTable struct {
	EventID string
	Entries map[string]EventRankEntry // keyed by competitor name
	Order   []string                  // names in ranked order
	// NextRank is the rank handed to competitors absent from this event.
	NextRank int
}

// Ranked returns the entries in ranked order.
func (t EventTable) Ranked() []EventRankEntry {
	out := make([]EventRankEntry, 0, len(t.Order))
	for _, name := range t.Order {
		out = append(out, t.Entries[name])
	}
	return out
}

// CompetitorStanding aggregates a competitor's results across all events.
type CompetitorStanding struct {
	Name        string
	Category    Category
	PerEvent    map[string]EventRankEntry // keyed by event id
	Points      int
	OverallRank int
}

// Rejection records a raw row that was dropped during normalization.
type Rejection struct {
	EventID string
	Line    int
	Cells   []string
	Reason  error
}

// Board is the finished leaderboard of one category.
type Board struct {
	SnapshotID string
	Category   Category
	EventIDs   []string // display order
	Standings  []CompetitorStanding
	Tables     map[string]EventTable
	Rejected   []Rejection
	ComputedAt time.Time
}

// Standing looks up a competitor by name.
func (b Board) Standing(name string) (CompetitorStanding, bool) {
	for _, s := range b.Standings {
		if s.Name == name {
			return s, true
		}
	}
	return CompetitorStanding{}, false
}
