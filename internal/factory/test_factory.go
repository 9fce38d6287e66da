package factory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/bingobot/internal/config"
	"github.com/mcoot/bingobot/internal/dependencies/mocks"
	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/notify"
	"github.com/mcoot/bingobot/internal/storage/memory"
	"github.com/mcoot/bingobot/internal/testutil"
)

// Game timings used by test apps
const (
	TestLobbyWindow  = 15 * time.Second
	TestCallInterval = 10 * time.Second
	TestCooldown     = 5 * time.Second
)

// RecordingNotifier keeps every delivered notification
type RecordingNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
}

func (r *RecordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

// For returns the notifications delivered to player, in delivery order
func (r *RecordingNotifier) For(player model.PlayerID) []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []notify.Notification
	for _, n := range r.notifications {
		if n.Player == player {
			result = append(result, n)
		}
	}
	return result
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	Notifications *RecordingNotifier
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	notifications := &RecordingNotifier{}

	settings := config.Config{
		LobbyWindow:  TestLobbyWindow,
		CallInterval: TestCallInterval,
		Cooldown:     TestCooldown,
		Location:     time.UTC,
	}
	app := newWithDependencies(store, mockClock, mockRandom, settings, notifications, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		Notifications: notifications,
	}
}

// QueueSequentialCard makes the next card hold 15*col + row + 1 in each cell,
// so row 0 reads 1, 16, 31, 46, 61
func (t *TestApp) QueueSequentialCard() {
	for col := 0; col < model.CardSize; col++ {
		t.MockRandom.QueueIntn(0, 1, 2, 3, 4)
	}
}

// QueueCalls makes the caller draw the given numbers in order
func (t *TestApp) QueueCalls(numbers ...int) {
	for _, n := range numbers {
		t.MockRandom.QueueIntn(n - 1)
	}
}
