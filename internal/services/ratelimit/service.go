package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/bingobot/internal/dependencies/clock"
	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/storage"
)

// DefaultDailyLimit is the number of game creations an unprivileged user may
// attempt per day
const DefaultDailyLimit = 3

const dayLayout = "2006-01-02"

// Service counts game creation attempts per user per calendar day.
// Counts for every user are cleared together when the day changes.
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	limit    int
	location *time.Location
	logger   *slog.Logger
}

// New creates a rate limiter. A nil location means UTC.
func New(storage storage.Storage, clock clock.Clock, limit int, location *time.Location, logger *slog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		limit:    limit,
		location: location,
		logger:   logger.With(slog.String("component", "ratelimit")),
	}
}

// Limit returns the daily attempt limit
func (s *Service) Limit() int {
	return s.limit
}

// RecordAttempt counts one attempt for user and returns the new total for today
func (s *Service) RecordAttempt(ctx context.Context, user model.PlayerID) (int, error) {
	if err := s.resetIfNewDay(ctx); err != nil {
		return 0, err
	}
	n, err := s.storage.IncrementAttempts(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	return n, nil
}

// AttemptsToday returns how many attempts user has made today
func (s *Service) AttemptsToday(ctx context.Context, user model.PlayerID) (int, error) {
	if err := s.resetIfNewDay(ctx); err != nil {
		return 0, err
	}
	n, err := s.storage.GetAttempts(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("get attempts: %w", err)
	}
	return n, nil
}

// Allow returns true if user has attempts left today
func (s *Service) Allow(ctx context.Context, user model.PlayerID) (bool, error) {
	n, err := s.AttemptsToday(ctx, user)
	if err != nil {
		return false, err
	}
	return n < s.limit, nil
}

func (s *Service) resetIfNewDay(ctx context.Context) error {
	day := s.clock.Now().In(s.location).Format(dayLayout)
	reset, err := s.storage.ResetAttemptsIfStale(ctx, day)
	if err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	if reset {
		s.logger.Info("creation attempts reset", slog.String("day", day))
	}
	return nil
}

// Interface for dependency injection
type Limiter interface {
	RecordAttempt(ctx context.Context, user model.PlayerID) (int, error)
	AttemptsToday(ctx context.Context, user model.PlayerID) (int, error)
	Allow(ctx context.Context, user model.PlayerID) (bool, error)
	Limit() int
}

var _ Limiter = (*Service)(nil)
