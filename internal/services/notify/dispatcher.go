package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/bingobot/internal/model"
)

const (
	// Buffer size for each player's queue
	queueSize = 32

	// Time allowed for a single delivery
	deliveryTimeout = 10 * time.Second
)

// Kind describes why a notification was sent
type Kind string

const (
	KindCardIssued   Kind = "card_issued"   // Sent once on join
	KindCardUpdated  Kind = "card_updated"  // Sent after a successful mark
	KindNumberCalled Kind = "number_called" // Sent to every player on each call
)

// Notification is a private message to one player. Card and Marked are
// copies taken when the notification was queued.
type Notification struct {
	Kind   Kind
	Player model.PlayerID
	Card   model.Card
	Marked []int
	Number int // The called number, for KindNumberCalled
}

// Notifier delivers a notification to its player (a DM, a log line)
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// queue is one player's ordered outbox
type queue struct {
	notifications chan Notification
	done          chan struct{}
}

// Dispatcher delivers notifications through one ordered worker per player.
// A slow or failing delivery to one player never delays another.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	queues map[model.PlayerID]*queue
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher that delivers through notifier
func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   logger.With(slog.String("component", "notify")),
		queues:   make(map[model.PlayerID]*queue),
	}
}

// Enqueue queues n for its player without blocking. If the player's queue
// is full the notification is dropped.
func (d *Dispatcher) Enqueue(n Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	q, ok := d.queues[n.Player]
	if !ok {
		q = &queue{
			notifications: make(chan Notification, queueSize),
			done:          make(chan struct{}),
		}
		d.queues[n.Player] = q
		d.wg.Add(1)
		go d.work(n.Player, q)
	}

	select {
	case q.notifications <- n:
	default:
		d.logger.Warn("notification dropped - queue full",
			slog.String("player_id", string(n.Player)),
			slog.String("kind", string(n.Kind)))
	}
}

// Reset abandons every queued notification and stops all workers.
// A delivery already in progress is allowed to finish.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *Dispatcher) resetLocked() {
	for id, q := range d.queues {
		close(q.done)
		delete(d.queues, id)
	}
}

// Close stops all workers and waits for in-flight deliveries
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.resetLocked()
	d.mu.Unlock()

	d.wg.Wait()
}

// queueCount returns the number of players with an active queue
func (d *Dispatcher) queueCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

func (d *Dispatcher) work(player model.PlayerID, q *queue) {
	defer d.wg.Done()
	for {
		// Prefer shutdown over pending work
		select {
		case <-q.done:
			return
		default:
		}

		select {
		case <-q.done:
			return
		case n := <-q.notifications:
			d.deliver(n)
		}
	}
}

func (d *Dispatcher) deliver(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, n); err != nil {
		d.logger.Warn("notification delivery failed",
			slog.String("player_id", string(n.Player)),
			slog.String("kind", string(n.Kind)),
			slog.Any("error", err))
	}
}

// Interface for dependency injection
type Queue interface {
	Enqueue(n Notification)
	Reset()
}

var _ Queue = (*Dispatcher)(nil)

// LogNotifier records notifications in the log instead of delivering them.
// Used when no chat session is configured.
func LogNotifier(logger *slog.Logger) Notifier {
	return NotifierFunc(func(_ context.Context, n Notification) error {
		logger.Debug("notification",
			slog.String("player_id", string(n.Player)),
			slog.String("kind", string(n.Kind)),
			slog.Int("number", n.Number),
			slog.Int("marked", len(n.Marked)))
		return nil
	})
}
