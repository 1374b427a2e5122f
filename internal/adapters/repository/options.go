package repository

import "github.com/okian/wodboard/internal/domain/model"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithCategories restricts the store to the given categories. Without it any
// category may be saved and queried.
func WithCategories(categories ...string) Option {
	return func(s *SnapshotStore) {
		if len(categories) == 0 {
			return
		}
		s.known = make(map[model.Category]struct{}, len(categories))
		for _, c := range categories {
			s.known[model.NormalizeCategory(c)] = struct{}{}
		}
	}
}
