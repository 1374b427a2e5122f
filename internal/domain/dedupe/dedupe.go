// Package dedupe reduces repeated entries of a competitor to a single result.
package dedupe

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
)

// SelectBest keeps one performance per competitor (category + name): the
// best one under rules. Re-attempts and corrections collapse into the
// result that ranks highest.
//
// The outcome does not depend on input order. Comparator ties between
// duplicates fall back to the raw cell text so the same entry always wins.
// Output is sorted by category, then name.
func SelectBest(perfs []model.Performance, rules scoring.Rules) []model.Performance {
	best := make(map[string]model.Performance, len(perfs))
	for _, p := range perfs {
		cur, seen := best[p.Key()]
		if !seen || better(p, cur, rules) {
			best[p.Key()] = p
		}
	}

	out := make([]model.Performance, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Performance) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Duplicates counts how many entries SelectBest would drop.
func Duplicates(perfs []model.Performance) int {
	seen := make(map[string]struct{}, len(perfs))
	for _, p := range perfs {
		seen[p.Key()] = struct{}{}
	}
	return len(perfs) - len(seen)
}

func better(a, b model.Performance, rules scoring.Rules) bool {
	switch scoring.Compare(a, b, rules) {
	case scoring.Before:
		return true
	case scoring.After:
		return false
	}
	if c := strings.Compare(a.ScoreRaw, b.ScoreRaw); c != 0 {
		return c < 0
	}
	if c := strings.Compare(a.TiebreakRaw, b.TiebreakRaw); c != 0 {
		return c < 0
	}
	return a.Division < b.Division
}
