// Package normalize turns raw result rows into typed performances.
package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/logger"
	"github.com/okian/wodboard/pkg/metrics"
)

// Column positions in a raw row.
const (
	colCategory = iota
	colName
	colDivision
	colScore
	colTiebreak

	minCells = colName + 1
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Normalizer converts raw rows of one event into performances.
type Normalizer struct {
	known  map[model.Category]struct{}
	logger logger.Logger
}

// New creates a Normalizer. Without WithCategories it accepts "men" and "women".
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		known: map[model.Category]struct{}{
			"men":   {},
			"women": {},
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logger.Get().Named("normalize")
	}
	return n
}

// Normalize converts rows of eventID. Bad rows never abort the batch; they are
// returned as rejections in input order.
func (n *Normalizer) Normalize(ctx context.Context, rows []model.RawRow, eventID string) ([]model.Performance, []model.Rejection) {
	perfs := make([]model.Performance, 0, len(rows))
	var rejected []model.Rejection

	for _, row := range rows {
		p, err := n.normalizeRow(row, eventID)
		if err != nil {
			rejected = append(rejected, model.Rejection{
				EventID: eventID,
				Line:    row.Line,
				Cells:   row.Cells,
				Reason:  err,
			})
			reason := "malformed"
			if isUnknownCategory(err) {
				reason = "unknown_category"
				n.logger.Warn(ctx, "dropping row with unknown category",
					logger.String("event", eventID),
					logger.Int("line", row.Line),
					logger.String("category", row.Cell(colCategory)),
				)
			} else {
				n.logger.Debug(ctx, "dropping malformed row",
					logger.String("event", eventID),
					logger.Int("line", row.Line),
					logger.Error(err),
				)
			}
			metrics.RecordRowRejected(reason)
			continue
		}
		perfs = append(perfs, p)
	}
	metrics.RecordRowsNormalized(len(perfs))
	return perfs, rejected
}

func (n *Normalizer) normalizeRow(row model.RawRow, eventID string) (model.Performance, error) {
	if len(row.Cells) < minCells {
		return model.Performance{}, fmt.Errorf("%w: expected at least %d cells, got %d", ErrMalformedRow, minCells, len(row.Cells))
	}
	category := model.NormalizeCategory(row.Cell(colCategory))
	if category == "" {
		return model.Performance{}, fmt.Errorf("%w: empty category", ErrMalformedRow)
	}
	name := strings.TrimSpace(row.Cell(colName))
	if name == "" {
		return model.Performance{}, fmt.Errorf("%w: empty name", ErrMalformedRow)
	}
	if _, ok := n.known[category]; !ok {
		return model.Performance{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	scoreRaw := strings.TrimSpace(row.Cell(colScore))
	kind, value := ParseScore(scoreRaw)
	tbRaw := strings.TrimSpace(row.Cell(colTiebreak))
	tb, hasTB := ParseTiebreak(tbRaw)

	return model.Performance{
		EventID:     eventID,
		Category:    category,
		Name:        name,
		Division:    model.ParseDivision(row.Cell(colDivision)),
		ScoreRaw:    scoreRaw,
		ScoreKind:   kind,
		ScoreValue:  value,
		TiebreakRaw: tbRaw,
		Tiebreak:    tb,
		HasTiebreak: hasTB,
	}, nil
}

// ParseClock parses M:SS or MM:SS into total seconds.
func ParseClock(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	return minutes*60 + seconds, true
}

// ParseScore classifies a score cell. Clock values are times; anything else
// is read as a count, with unparseable or missing values counting as 0.
func ParseScore(raw string) (model.ScoreKind, int) {
	if secs, ok := ParseClock(raw); ok {
		return model.ScoreTime, secs
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return model.ScoreCount, 0
	}
	return model.ScoreCount, v
}

// ParseTiebreak reads a clock or integer tiebreak. Empty or unparseable
// cells mean no tiebreak.
func ParseTiebreak(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	if secs, ok := ParseClock(raw); ok {
		return secs, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
