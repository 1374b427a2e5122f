// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Category is a case-normalized competitor category, e.g. "men" or "women".
type Category string

// NormalizeCategory lower-cases and trims a raw category cell.
func NormalizeCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// Division is the performance division a score was achieved under.
type Division int

const (
	// DivisionRx is the prescribed division; it outranks Scaled unconditionally.
	DivisionRx Division = iota
	// DivisionScaled is every non-Rx result.
	DivisionScaled
)

// ParseDivision maps "rx" (any case) to Rx and everything else to Scaled.
func ParseDivision(raw string) Division {
	if strings.EqualFold(strings.TrimSpace(raw), "rx") {
		return DivisionRx
	}
	return DivisionScaled
}

func (d Division) String() string {
	if d == DivisionRx {
		return "rx"
	}
	return "scaled"
}

// ScoreKind discriminates how ScoreValue must be read.
type ScoreKind int

const (
	// ScoreCount is a repetition or weight count; higher is better.
	ScoreCount ScoreKind = iota
	// ScoreTime is a completion time in seconds; lower is better.
	ScoreTime
)

func (k ScoreKind) String() string {
	if k == ScoreTime {
		return "time"
	}
	return "count"
}

// RawRow is one line of an event result file, cells already trimmed.
// Cell order: category, name, division, score, tiebreak.
type RawRow struct {
	Line  int // 1-based line in the source file, 0 when unknown
	Cells []string
}

// Cell returns the i-th cell or "" when the row is shorter.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Performance is a normalized result of one competitor in one event.
// Values are never mutated after normalization.
type Performance struct {
	EventID     string
	Category    Category
	Name        string
	Division    Division
	ScoreRaw    string
	ScoreKind   ScoreKind
	ScoreValue  int // seconds for ScoreTime, count otherwise
	TiebreakRaw string
	Tiebreak    int // seconds or count, valid only when HasTiebreak
	HasTiebreak bool
}

// Key identifies the competitor across events.
func (p Performance) Key() string {
	return string(p.Category) + "/" + p.Name
}

func (p Performance) String() string {
	return fmt.Sprintf("%s %s[%s] %s", p.EventID, p.Name, p.Division, p.ScoreRaw)
}
