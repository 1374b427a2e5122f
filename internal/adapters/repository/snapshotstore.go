package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/metrics"
)

// Snapshot is an immutable view of every published board.
type Snapshot struct {
	boards      map[model.Category]model.Board
	byName      map[model.Category]map[string]int // index into Standings
	PublishedAt time.Time
}

// SnapshotStore is an in-memory Store. Writers build a new Snapshot and swap
// it in atomically; readers never take a lock.
type SnapshotStore struct {
	mu       sync.Mutex // serializes writers
	known    map[model.Category]struct{}
	snapshot atomic.Pointer[Snapshot]
}

var _ Store = (*SnapshotStore)(nil)

// NewSnapshotStore constructs an empty store with configuration options.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(&Snapshot{
		boards: map[model.Category]model.Board{},
		byName: map[model.Category]map[string]int{},
	})
	return s
}

// Save publishes boards as one snapshot.
func (s *SnapshotStore) Save(_ context.Context, boards ...model.Board) error {
	for _, b := range boards {
		if !s.isKnown(b.Category) {
			metrics.RecordErrorByComponent("repository", "unknown_category")
			return fmt.Errorf("%w: %q", ErrUnknownCategory, b.Category)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snapshot.Load()
	next := &Snapshot{
		boards:      make(map[model.Category]model.Board, len(cur.boards)+len(boards)),
		byName:      make(map[model.Category]map[string]int, len(cur.byName)+len(boards)),
		PublishedAt: time.Now(),
	}
	for c, b := range cur.boards {
		next.boards[c] = b
		next.byName[c] = cur.byName[c]
	}
	for _, b := range boards {
		idx := make(map[string]int, len(b.Standings))
		for i, st := range b.Standings {
			idx[st.Name] = i
		}
		next.boards[b.Category] = b
		next.byName[b.Category] = idx
	}
	s.snapshot.Store(next)
	return nil
}

// Board returns the current board of a category.
func (s *SnapshotStore) Board(_ context.Context, category model.Category) (model.Board, error) {
	return s.board(s.snapshot.Load(), category)
}

// Rank returns a competitor's standing in a category.
func (s *SnapshotStore) Rank(_ context.Context, category model.Category, name string) (model.CompetitorStanding, error) {
	snap := s.snapshot.Load()
	b, err := s.board(snap, category)
	if err != nil {
		return model.CompetitorStanding{}, err
	}
	i, ok := snap.byName[b.Category][name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.CompetitorStanding{}, fmt.Errorf("%w: %q in %q", ErrNotFound, name, b.Category)
	}
	return b.Standings[i], nil
}

// Categories lists the categories with a published board, sorted.
func (s *SnapshotStore) Categories(_ context.Context) []model.Category {
	snap := s.snapshot.Load()
	out := make([]model.Category, 0, len(snap.boards))
	for c := range snap.boards {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Count returns the number of competitors across all boards.
func (s *SnapshotStore) Count(_ context.Context) int {
	total := 0
	for _, b := range s.snapshot.Load().boards {
		total += len(b.Standings)
	}
	return total
}

// PublishedAt reports when the current snapshot was built; zero before the first Save.
func (s *SnapshotStore) PublishedAt() time.Time {
	return s.snapshot.Load().PublishedAt
}

func (s *SnapshotStore) board(snap *Snapshot, category model.Category) (model.Board, error) {
	category = model.NormalizeCategory(string(category))
	if !s.isKnown(category) {
		metrics.RecordErrorByComponent("repository", "unknown_category")
		return model.Board{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	b, ok := snap.boards[category]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Board{}, fmt.Errorf("%w: no board for %q", ErrNotFound, category)
	}
	return b, nil
}

func (s *SnapshotStore) isKnown(c model.Category) bool {
	if s.known == nil {
		return true
	}
	_, ok := s.known[c]
	return ok
}
