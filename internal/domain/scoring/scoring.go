// Package scoring orders performances within a single event.
package scoring

import (
	"fmt"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
)

// Policy declares which score kinds an event accepts and how they order.
type Policy int

const (
	// PolicyTime ranks clock times ascending; other scores rank below every time.
	PolicyTime Policy = iota
	// PolicyCount ranks counts descending; other scores rank below every count.
	PolicyCount
	// PolicyMixed accepts both; any finished time beats any rep count.
	PolicyMixed
)

// ParsePolicy accepts "time", "count" or "mixed" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "time-only", "for_time":
		return PolicyTime, nil
	case "count", "count-only", "reps", "amrap":
		return PolicyCount, nil
	case "mixed", "mixed-time-dominant":
		return PolicyMixed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyTime:
		return "time"
	case PolicyCount:
		return "count"
	case PolicyMixed:
		return "mixed"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Rules is the ordering configuration of one event.
type Rules struct {
	Policy Policy
	// TiebreakCap, when HasTiebreakCap is set, replaces a missing tiebreak
	// for count-kind scores (a fixed time cap).
	TiebreakCap    int
	HasTiebreakCap bool
}

// Ordering is the outcome of comparing two performances.
type Ordering int

const (
	// Before means the first argument ranks better.
	Before Ordering = -1
	// Tie means neither ranks better.
	Tie Ordering = 0
	// After means the second argument ranks better.
	After Ordering = 1
)

// Compare orders a against b for the same event. The first decisive rule
// wins: division, then metric, then tiebreak. It is a strict weak ordering.
func Compare(a, b model.Performance, rules Rules) Ordering {
	if o := compareDivision(a.Division, b.Division); o != Tie {
		return o
	}
	if o := compareMetric(a, b, rules.Policy); o != Tie {
		return o
	}
	return compareTiebreak(a, b, rules)
}

func compareDivision(a, b model.Division) Ordering {
	switch {
	case a == b:
		return Tie
	case a == model.DivisionRx:
		return Before
	default:
		return After
	}
}

func compareMetric(a, b model.Performance, policy Policy) Ordering {
	if a.ScoreKind != b.ScoreKind {
		primary := primaryKind(policy)
		if a.ScoreKind == primary {
			return Before
		}
		return After
	}
	if a.ScoreKind == model.ScoreTime {
		return ascending(a.ScoreValue, b.ScoreValue)
	}
	return ascending(b.ScoreValue, a.ScoreValue)
}

func primaryKind(policy Policy) model.ScoreKind {
	if policy == PolicyCount {
		return model.ScoreCount
	}
	return model.ScoreTime
}

func compareTiebreak(a, b model.Performance, rules Rules) Ordering {
	at, aok := a.Tiebreak, a.HasTiebreak
	bt, bok := b.Tiebreak, b.HasTiebreak
	if rules.HasTiebreakCap && a.ScoreKind == model.ScoreCount && b.ScoreKind == model.ScoreCount {
		if !aok {
			at, aok = rules.TiebreakCap, true
		}
		if !bok {
			bt, bok = rules.TiebreakCap, true
		}
	}
	switch {
	case aok && bok:
		return ascending(at, bt)
	case aok:
		return Before
	case bok:
		return After
	default:
		return Tie
	}
}

func ascending(a, b int) Ordering {
	switch {
	case a < b:
		return Before
	case a > b:
		return After
	default:
		return Tie
	}
}
