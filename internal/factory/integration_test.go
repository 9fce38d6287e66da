package factory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/notify"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.app.Start()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

// Test: Complete game flow from creation to a line win
func (s *IntegrationSuite) TestCompleteGameFlow() {
	sub := s.app.Hub.Subscribe("test")
	defer s.app.Hub.Unsubscribe(sub)

	// Step 1: Create the game
	s.Require().NoError(s.app.Game.Create(s.ctx, "alice", false))
	s.Equal(model.GameStateLobby, s.app.Game.Snapshot().State)

	// Step 2: Two players join with known cards
	s.app.QueueSequentialCard()
	card, err := s.app.Game.Join(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]int{1, 16, 31, 46, 61}, card.Row(0))

	s.app.QueueSequentialCard()
	_, err = s.app.Game.Join(s.ctx, "bob")
	s.Require().NoError(err)

	// Step 3: The lobby closes and calling begins
	s.app.QueueCalls(1, 16, 31, 46, 61)
	s.app.MockClock.Advance(TestLobbyWindow)
	s.Equal(model.GameStateRunning, s.app.Game.Snapshot().State)

	// Step 4: Five calls, alice marks each one
	for _, n := range []int{1, 16, 31, 46, 61} {
		s.app.MockClock.Advance(TestCallInterval)
		s.Require().NoError(s.app.Game.Mark(s.ctx, "alice", n))
	}
	s.Len(s.app.Game.Snapshot().Called, 5)

	// Step 5: alice declares and wins
	result, err := s.app.Game.DeclareWin(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(result.Won)
	s.Equal(model.ModeLine, result.Mode)
	s.Equal(5, result.TotalCalled)
	s.Equal(model.GameStateIdle, s.app.Game.Snapshot().State)

	// The win is recorded
	history, err := s.app.Game.History(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(model.OutcomeWon, history[0].Outcome)
	s.Equal(model.PlayerID("alice"), history[0].Winner)
	s.Equal(2, history[0].PlayerCount)

	// Events reach hub subscribers in order
	var types []model.EventType
	timeout := time.After(time.Second)
	for len(types) < 10 {
		select {
		case e := <-sub.Events():
			types = append(types, e.Type)
		case <-timeout:
			s.FailNow("timed out waiting for events", "got %v", types)
		}
	}
	s.Equal([]model.EventType{
		model.EventLobbyStarted,
		model.EventPlayerJoined,
		model.EventPlayerJoined,
		model.EventGameStarted,
		model.EventNumberCalled,
		model.EventNumberCalled,
		model.EventNumberCalled,
		model.EventNumberCalled,
		model.EventNumberCalled,
		model.EventGameWon,
	}, types)
}

// Test: Players receive their card privately and see each call
func (s *IntegrationSuite) TestNotificationsDelivered() {
	s.Require().NoError(s.app.Game.Create(s.ctx, "alice", false))
	s.app.QueueSequentialCard()
	_, err := s.app.Game.Join(s.ctx, "alice")
	s.Require().NoError(err)

	s.app.QueueCalls(16)
	s.app.MockClock.Advance(TestLobbyWindow)
	s.app.MockClock.Advance(TestCallInterval)
	s.Require().NoError(s.app.Game.Mark(s.ctx, "alice", 16))

	s.Eventually(func() bool {
		return len(s.app.Notifications.For("alice")) == 3
	}, time.Second, 10*time.Millisecond)

	got := s.app.Notifications.For("alice")
	s.Equal(notify.KindCardIssued, got[0].Kind)
	s.Equal(notify.KindNumberCalled, got[1].Kind)
	s.Equal(16, got[1].Number)
	s.Equal(notify.KindCardUpdated, got[2].Kind)
	s.Equal([]int{16}, got[2].Marked)
}

// Test: A lobby nobody joins is cancelled and recorded
func (s *IntegrationSuite) TestEmptyLobbyCancelled() {
	s.Require().NoError(s.app.Game.Create(s.ctx, "alice", false))
	s.app.MockClock.Advance(TestLobbyWindow)

	s.Equal(model.GameStateIdle, s.app.Game.Snapshot().State)
	history, err := s.app.Game.History(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(model.OutcomeCancelled, history[0].Outcome)
}

// Test: Daily creation limit is shared across games and resets the next day
func (s *IntegrationSuite) TestDailyCreationLimit() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.app.Game.Create(s.ctx, "alice", false))
		s.Require().NoError(s.app.Game.Stop(s.ctx, "admin", true))
	}

	err := s.app.Game.Create(s.ctx, "alice", false)
	s.ErrorIs(err, model.ErrRateLimited)

	// Privileged callers are never limited
	s.Require().NoError(s.app.Game.Create(s.ctx, "alice", true))
	s.Require().NoError(s.app.Game.Stop(s.ctx, "admin", true))

	s.app.MockClock.Set(time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC))
	s.NoError(s.app.Game.Create(s.ctx, "alice", false))
}

// Test: Mode changes carry over to the next game
func (s *IntegrationSuite) TestModePersistsAcrossGames() {
	_, err := s.app.Game.SetMode(s.ctx, "admin", true, "corners")
	s.ErrorIs(err, model.ErrNotJoinable)

	s.Require().NoError(s.app.Game.Create(s.ctx, "alice", false))
	mode, err := s.app.Game.SetMode(s.ctx, "admin", true, "corners")
	s.Require().NoError(err)
	s.Equal(model.ModeCorners, mode)
	s.Require().NoError(s.app.Game.Stop(s.ctx, "admin", true))

	s.Require().NoError(s.app.Game.Create(s.ctx, "alice", false))
	s.Equal(model.ModeCorners, s.app.Game.Snapshot().Mode)
}
