package ranking

import "github.com/okian/wodboard/internal/domain/model"

// Aggregate folds per-event tables into standings for every competitor in
// roster. A competitor without a result in an event receives a placeholder
// at that event's NextRank. Event ids missing from tables are skipped.
// Points is the sum of per-event ranks; OverallRank is left unset.
func Aggregate(category model.Category, roster []string, eventIDs []string, tables map[string]model.EventTable) map[string]model.CompetitorStanding {
	out := make(map[string]model.CompetitorStanding, len(roster))
	for _, name := range roster {
		s := model.CompetitorStanding{
			Name:     name,
			Category: category,
			PerEvent: make(map[string]model.EventRankEntry, len(eventIDs)),
		}
		for _, id := range eventIDs {
			table, ok := tables[id]
			if !ok {
				continue
			}
			entry, ok := table.Entries[name]
			if !ok {
				entry = placeholder(name, table.NextRank)
			}
			s.PerEvent[id] = entry
			s.Points += entry.Rank
		}
		out[name] = s
	}
	return out
}

func placeholder(name string, rank int) model.EventRankEntry {
	if rank < 1 {
		rank = 1
	}
	return model.EventRankEntry{
		Name:        name,
		Rank:        rank,
		ScoreKind:   model.ScoreCount,
		Division:    model.DivisionScaled,
		Placeholder: true,
	}
}
