package normalize

import (
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/logger"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithCategories replaces the set of accepted categories. Names are matched
// case-insensitively; an empty list keeps the defaults.
func WithCategories(categories []string) Option {
	return func(n *Normalizer) {
		known := make(map[model.Category]struct{}, len(categories))
		for _, c := range categories {
			if cat := model.NormalizeCategory(c); cat != "" {
				known[cat] = struct{}{}
			}
		}
		if len(known) > 0 {
			n.known = known
		}
	}
}

// WithLogger sets a custom logger for the normalizer.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}
