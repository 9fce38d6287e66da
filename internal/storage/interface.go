package storage

import (
	"context"

	"github.com/mcoot/bingobot/internal/model"
)

// Storage defines the interface for data persistence.
// Game state itself lives in memory; only side records are stored here.
type Storage interface {
	// Creation attempt operations
	IncrementAttempts(ctx context.Context, userID model.PlayerID) (int, error)
	GetAttempts(ctx context.Context, userID model.PlayerID) (int, error)

	// ResetAttemptsIfStale clears every attempt count when the stored day marker
	// differs from day, then stores day. It returns true if counts were cleared.
	ResetAttemptsIfStale(ctx context.Context, day string) (bool, error)

	// Game summary operations
	SaveGameSummary(ctx context.Context, summary *model.GameSummary) error
	ListGameSummaries(ctx context.Context, limit int) ([]model.GameSummary, error)
}
