package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/testutil"
)

// recorder collects delivered notifications per player
type recorder struct {
	mu        sync.Mutex
	delivered map[model.PlayerID][]int
}

func newRecorder() *recorder {
	return &recorder{delivered: make(map[model.PlayerID][]int)}
}

func (r *recorder) Notify(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered[n.Player] = append(r.delivered[n.Player], n.Number)
	return nil
}

func (r *recorder) numbers(player model.PlayerID) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.delivered[player]...)
}

func TestDispatcher_DeliversInOrderPerPlayer(t *testing.T) {
	rec := newRecorder()
	d := NewDispatcher(rec, testutil.NopLogger())

	for n := 1; n <= 10; n++ {
		d.Enqueue(Notification{Kind: KindNumberCalled, Player: "alice", Number: n})
		d.Enqueue(Notification{Kind: KindNumberCalled, Player: "bob", Number: 100 + n})
	}

	require.Eventually(t, func() bool {
		return len(rec.numbers("alice")) == 10 && len(rec.numbers("bob")) == 10
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, rec.numbers("alice"))
	assert.Equal(t, 101, rec.numbers("bob")[0])
	assert.Equal(t, 110, rec.numbers("bob")[9])
	assert.Equal(t, 2, d.queueCount())

	d.Close()
}

func TestDispatcher_SlowPlayerDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	rec := newRecorder()
	notifier := NotifierFunc(func(ctx context.Context, n Notification) error {
		if n.Player == "slow" {
			<-release
		}
		return rec.Notify(ctx, n)
	})
	d := NewDispatcher(notifier, testutil.NopLogger())

	d.Enqueue(Notification{Player: "slow", Number: 1})
	d.Enqueue(Notification{Player: "fast", Number: 2})

	require.Eventually(t, func() bool {
		return len(rec.numbers("fast")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, rec.numbers("slow"))

	close(release)
	require.Eventually(t, func() bool {
		return len(rec.numbers("slow")) == 1
	}, time.Second, 5*time.Millisecond)

	d.Close()
}

func TestDispatcher_FailuresAreLoggedAndIgnored(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	rec := newRecorder()
	notifier := NotifierFunc(func(ctx context.Context, n Notification) error {
		if n.Number == 1 {
			return errors.New("dm closed")
		}
		return rec.Notify(ctx, n)
	})
	d := NewDispatcher(notifier, logger)

	d.Enqueue(Notification{Player: "alice", Number: 1})
	d.Enqueue(Notification{Player: "alice", Number: 2})

	require.Eventually(t, func() bool {
		return len(rec.numbers("alice")) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2}, rec.numbers("alice"))
	assert.True(t, strings.Contains(logs.String(), "dm closed"))

	d.Close()
}

func TestDispatcher_ResetDropsQueues(t *testing.T) {
	release := make(chan struct{})
	rec := newRecorder()
	notifier := NotifierFunc(func(ctx context.Context, n Notification) error {
		<-release
		return rec.Notify(ctx, n)
	})
	d := NewDispatcher(notifier, testutil.NopLogger())

	d.Enqueue(Notification{Player: "alice", Number: 1})
	d.Enqueue(Notification{Player: "alice", Number: 2})
	d.Enqueue(Notification{Player: "alice", Number: 3})

	// First delivery is in flight; the rest are abandoned
	time.Sleep(20 * time.Millisecond)
	d.Reset()
	assert.Equal(t, 0, d.queueCount())
	close(release)

	d.Close()
	assert.Equal(t, []int{1}, rec.numbers("alice"))
}

func TestDispatcher_EnqueueAfterCloseIsIgnored(t *testing.T) {
	rec := newRecorder()
	d := NewDispatcher(rec, testutil.NopLogger())
	d.Close()

	d.Enqueue(Notification{Player: "alice", Number: 1})

	assert.Equal(t, 0, d.queueCount())
	assert.Empty(t, rec.numbers("alice"))
}
