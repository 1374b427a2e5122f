// Package repository holds the latest computed leaderboards.
package repository

import (
	"context"

	"github.com/okian/wodboard/internal/domain/model"
)

// Store provides read/write access to computed boards.
type Store interface {
	// Save publishes boards as one snapshot, replacing any earlier board of
	// the same categories.
	Save(ctx context.Context, boards ...model.Board) error

	// Board returns the current board of a category.
	// Returns ErrUnknownCategory for categories outside the configured set and
	// ErrNotFound when nothing has been computed yet.
	Board(ctx context.Context, category model.Category) (model.Board, error)

	// Rank returns a competitor's standing in a category.
	// Returns ErrNotFound if the competitor is unknown.
	Rank(ctx context.Context, category model.Category, name string) (model.CompetitorStanding, error)

	// Categories lists the categories with a published board, sorted.
	Categories(ctx context.Context) []model.Category

	// Count returns the number of competitors across all boards.
	Count(ctx context.Context) int
}
