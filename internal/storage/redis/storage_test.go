package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bingobot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.AttemptsTTL = time.Hour
	cfg.MaxSummaries = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Attempt tests

func (s *StorageSuite) TestGetAttemptsMissing() {
	n, err := s.storage.GetAttempts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *StorageSuite) TestIncrementAttempts() {
	n, err := s.storage.IncrementAttempts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.storage.IncrementAttempts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(2, n)

	got, err := s.storage.GetAttempts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(2, got)
}

func (s *StorageSuite) TestAttemptsExpire() {
	_, _ = s.storage.IncrementAttempts(s.ctx, "alice")

	s.mini.FastForward(2 * time.Hour)

	n, err := s.storage.GetAttempts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *StorageSuite) TestResetAttemptsIfStale() {
	reset, err := s.storage.ResetAttemptsIfStale(s.ctx, "2024-01-01")
	s.Require().NoError(err)
	s.True(reset)

	_, _ = s.storage.IncrementAttempts(s.ctx, "alice")

	reset, err = s.storage.ResetAttemptsIfStale(s.ctx, "2024-01-01")
	s.Require().NoError(err)
	s.False(reset)
	n, _ := s.storage.GetAttempts(s.ctx, "alice")
	s.Equal(1, n)

	reset, err = s.storage.ResetAttemptsIfStale(s.ctx, "2024-01-02")
	s.Require().NoError(err)
	s.True(reset)
	n, _ = s.storage.GetAttempts(s.ctx, "alice")
	s.Equal(0, n)

	day, err := s.mini.Get(s.storage.keys.attemptsDay())
	s.Require().NoError(err)
	s.Equal("2024-01-02", day)
}

// Summary tests

func (s *StorageSuite) TestSaveAndListSummaries() {
	ended := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	summary := &model.GameSummary{
		ID:          "game-1",
		Outcome:     model.OutcomeWon,
		Winner:      "alice",
		Mode:        model.ModeCorners,
		CalledCount: 12,
		PlayerCount: 2,
		CreatedBy:   "bob",
		EndedAt:     ended,
	}

	s.Require().NoError(s.storage.SaveGameSummary(s.ctx, summary))

	list, err := s.storage.ListGameSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(model.PlayerID("alice"), list[0].Winner)
	s.Equal(model.ModeCorners, list[0].Mode)
	s.True(ended.Equal(list[0].EndedAt))
}

func (s *StorageSuite) TestSummariesTrimmedNewestFirst() {
	for i := 0; i < 5; i++ {
		err := s.storage.SaveGameSummary(s.ctx, &model.GameSummary{ID: fmt.Sprintf("game-%d", i)})
		s.Require().NoError(err)
	}

	list, err := s.storage.ListGameSummaries(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("game-4", list[0].ID)
	s.Equal("game-2", list[2].ID)

	limited, err := s.storage.ListGameSummaries(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *StorageSuite) TestKeyPrefixIsolatesBots() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other-guild"
	other := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)

	_, err := s.storage.IncrementAttempts(s.ctx, "alice")
	s.Require().NoError(err)

	n, err := other.GetAttempts(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, n)
	s.True(s.mini.Exists("bingo:attempts"))
	s.False(s.mini.Exists("other-guild:attempts"))
}
