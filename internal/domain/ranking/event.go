// Package ranking assigns event ranks and overall standings using standard
// competition ("1224") ranking: tied entries share a rank and the next
// distinct entry takes its 1-based position.
package ranking

import (
	"slices"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/scoring"
)

// assignRanks walks a sorted sequence and returns its 1224 ranks. tied
// reports whether element i compares equal to element i-1.
func assignRanks(n int, tied func(i int) bool) []int {
	ranks := make([]int, n)
	for i := range ranks {
		if i > 0 && tied(i) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// RankEvent ranks the selected performances of one event within one
// category. perfs must hold at most one entry per competitor; it is not
// modified. Competitors absent from perfs get NextRank, which is one past
// the last finishing position.
func RankEvent(eventID string, perfs []model.Performance, rules scoring.Rules) model.EventTable {
	sorted := slices.Clone(perfs)
	slices.SortStableFunc(sorted, func(a, b model.Performance) int {
		if o := scoring.Compare(a, b, rules); o != scoring.Tie {
			return int(o)
		}
		// display order only; does not affect ranks
		return strings.Compare(a.Name, b.Name)
	})

	ranks := assignRanks(len(sorted), func(i int) bool {
		return scoring.Compare(sorted[i-1], sorted[i], rules) == scoring.Tie
	})

	table := model.EventTable{
		EventID:  eventID,
		Entries:  make(map[string]model.EventRankEntry, len(sorted)),
		Order:    make([]string, 0, len(sorted)),
		NextRank: len(sorted) + 1,
	}
	for i, p := range sorted {
		table.Entries[p.Name] = model.EventRankEntry{
			Name:        p.Name,
			Rank:        ranks[i],
			ScoreRaw:    p.ScoreRaw,
			ScoreValue:  p.ScoreValue,
			ScoreKind:   p.ScoreKind,
			Tiebreak:    p.Tiebreak,
			HasTiebreak: p.HasTiebreak,
			Division:    p.Division,
		}
		table.Order = append(table.Order, p.Name)
	}
	return table
}
