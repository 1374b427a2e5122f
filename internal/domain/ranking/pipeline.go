package ranking

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/okian/wodboard/internal/domain/dedupe"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/normalize"
	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/okian/wodboard/pkg/metrics"
)

// EventInput carries one event's raw rows into Compute.
type EventInput struct {
	ID    string
	Rules scoring.Rules
	Rows  []model.RawRow
	// Available is false when the event's data could not be loaded; such
	// events are left out of the standings entirely.
	Available bool
}

// Compute runs the full engine for every category: normalize, select the
// best entry per competitor, rank each event, aggregate and rank overall.
// Boards are returned in the order of categories, one per distinct
// category. The result depends only on the set of input rows, not their order.
func Compute(ctx context.Context, n *normalize.Normalizer, categories []model.Category, events []EventInput) []model.Board {
	snapshot := uuid.NewString()
	now := time.Now().UTC()
	categories = uniqueCategories(categories)

	type categoryState struct {
		eventIDs []string
		tables   map[string]model.EventTable
		roster   map[string]struct{}
		rejected []model.Rejection
	}
	states := make(map[model.Category]*categoryState, len(categories))
	for _, c := range categories {
		states[c] = &categoryState{
			tables: make(map[string]model.EventTable),
			roster: make(map[string]struct{}),
		}
	}

	for _, ev := range events {
		if !ev.Available {
			continue
		}
		perfs, rejected := n.Normalize(ctx, ev.Rows, ev.ID)
		slices.SortStableFunc(rejected, func(a, b model.Rejection) int {
			return cmp.Compare(a.Line, b.Line)
		})

		byCategory := make(map[model.Category][]model.Performance)
		for _, p := range perfs {
			byCategory[p.Category] = append(byCategory[p.Category], p)
		}

		for _, c := range categories {
			st := states[c]
			best := dedupe.SelectBest(byCategory[c], ev.Rules)
			st.eventIDs = append(st.eventIDs, ev.ID)
			st.tables[ev.ID] = RankEvent(ev.ID, best, ev.Rules)
			for _, p := range best {
				st.roster[p.Name] = struct{}{}
			}
			metrics.RecordEventRanked()
		}
		// rejected rows have no trustworthy category; every board reports them
		for _, c := range categories {
			states[c].rejected = append(states[c].rejected, rejected...)
		}
	}

	boards := make([]model.Board, 0, len(categories))
	for _, c := range categories {
		st := states[c]
		roster := make([]string, 0, len(st.roster))
		for name := range st.roster {
			roster = append(roster, name)
		}
		slices.Sort(roster)

		standings := Aggregate(c, roster, st.eventIDs, st.tables)
		boards = append(boards, model.Board{
			SnapshotID: snapshot,
			Category:   c,
			EventIDs:   st.eventIDs,
			Standings:  RankOverall(standings),
			Tables:     st.tables,
			Rejected:   st.rejected,
			ComputedAt: now,
		})
		metrics.UpdateCompetitors(string(c), len(roster))
	}
	return boards
}

func uniqueCategories(categories []model.Category) []model.Category {
	seen := make(map[model.Category]struct{}, len(categories))
	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		c = model.NormalizeCategory(string(c))
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
