package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
)

// RankOverall orders standings by points ascending and assigns 1224 overall
// ranks. Equal points are broken on the competitors' per-event ranks sorted
// ascending, compared element by element; when one vector is a prefix of the
// other, the competitor with more events ranks first. The input is not
// modified.
func RankOverall(standings map[string]model.CompetitorStanding) []model.CompetitorStanding {
	out := make([]model.CompetitorStanding, 0, len(standings))
	vectors := make(map[string][]int, len(standings))
	for name, s := range standings {
		out = append(out, cloneStanding(s))
		vectors[name] = rankVector(s)
	}

	compare := func(a, b model.CompetitorStanding) int {
		if c := cmp.Compare(a.Points, b.Points); c != 0 {
			return c
		}
		return compareVectors(vectors[a.Name], vectors[b.Name])
	}

	slices.SortFunc(out, func(a, b model.CompetitorStanding) int {
		if c := compare(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	ranks := assignRanks(len(out), func(i int) bool {
		return compare(out[i-1], out[i]) == 0
	})
	for i := range out {
		out[i].OverallRank = ranks[i]
	}
	return out
}

func rankVector(s model.CompetitorStanding) []int {
	v := make([]int, 0, len(s.PerEvent))
	for _, e := range s.PerEvent {
		v = append(v, e.Rank)
	}
	slices.Sort(v)
	return v
}

// compareVectors returns <0 when a is the better tie-break vector.
func compareVectors(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	// more recorded events wins
	return cmp.Compare(len(b), len(a))
}

func cloneStanding(s model.CompetitorStanding) model.CompetitorStanding {
	c := s
	c.PerEvent = make(map[string]model.EventRankEntry, len(s.PerEvent))
	for k, v := range s.PerEvent {
		c.PerEvent[k] = v
	}
	return c
}
