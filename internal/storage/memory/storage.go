package memory

import (
	"context"
	"sync"

	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	attempts     map[model.PlayerID]int
	attemptsDay  string
	summaries    []model.GameSummary
	maxSummaries int
}

// DefaultMaxSummaries bounds the retained game history
const DefaultMaxSummaries = 100

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		attempts:     make(map[model.PlayerID]int),
		maxSummaries: DefaultMaxSummaries,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Creation attempt operations

func (s *Storage) IncrementAttempts(ctx context.Context, userID model.PlayerID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[userID]++
	return s.attempts[userID], nil
}

func (s *Storage) GetAttempts(ctx context.Context, userID model.PlayerID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts[userID], nil
}

func (s *Storage) ResetAttemptsIfStale(ctx context.Context, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attemptsDay == day {
		return false, nil
	}
	s.attempts = make(map[model.PlayerID]int)
	s.attemptsDay = day
	return true, nil
}

// Game summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, *summary)
	if len(s.summaries) > s.maxSummaries {
		s.summaries = s.summaries[len(s.summaries)-s.maxSummaries:]
	}
	return nil
}

// ListGameSummaries returns up to limit summaries, newest first
func (s *Storage) ListGameSummaries(ctx context.Context, limit int) ([]model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.summaries) {
		limit = len(s.summaries)
	}
	result := make([]model.GameSummary, 0, limit)
	for i := len(s.summaries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.summaries[i])
	}
	return result, nil
}
