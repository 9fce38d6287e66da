package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/bingobot/internal/model"
)

const (
	// Buffer size for events waiting to be fanned out
	publishBufferSize = 256

	// Buffer size for each subscriber
	subscriberBufferSize = 64
)

// Subscription receives every event published after it registers
type Subscription struct {
	name        string
	events      chan model.Event
	connectedAt time.Time
}

// Events returns the channel of delivered events. It is closed when the
// subscription is removed or the hub shuts down.
func (s *Subscription) Events() <-chan model.Event {
	return s.events
}

// Name returns the label given at subscription time
func (s *Subscription) Name() string {
	return s.name
}

// Hub fans game events out to subscribers (chat adapter, SSE clients).
// Publish never blocks; a subscriber that falls behind loses events.
type Hub struct {
	subscribers map[*Subscription]bool
	mu          sync.RWMutex
	logger      *slog.Logger

	// Channels for managing subscribers
	register   chan *Subscription
	unregister chan *Subscription
	broadcast  chan model.Event
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub. Call Run to start delivery.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*Subscription]bool),
		logger:      logger.With(slog.String("component", "events")),
		register:    make(chan *Subscription),
		unregister:  make(chan *Subscription),
		broadcast:   make(chan model.Event, publishBufferSize),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("event hub started")
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			h.logger.Info("subscriber registered",
				slog.String("subscriber", sub.name),
				slog.Int("total_subscribers", count))

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.events)
				count := len(h.subscribers)
				h.mu.Unlock()
				h.logger.Info("subscriber unregistered",
					slog.String("subscriber", sub.name),
					slog.Duration("connection_duration", time.Since(sub.connectedAt)),
					slog.Int("total_subscribers", count))
			} else {
				h.mu.Unlock()
			}

		case event := <-h.broadcast:
			h.mu.RLock()
			for sub := range h.subscribers {
				select {
				case sub.events <- event:
				default:
					h.logger.Warn("event dropped - subscriber buffer full",
						slog.String("subscriber", sub.name),
						slog.String("event", string(event.Type)))
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			count := len(h.subscribers)
			for sub := range h.subscribers {
				close(sub.events)
				delete(h.subscribers, sub)
			}
			h.mu.Unlock()
			h.logger.Info("event hub stopped", slog.Int("disconnected_subscribers", count))
			return
		}
	}
}

// Subscribe registers a new subscriber. On a closed hub the returned
// subscription's channel is already closed.
func (h *Hub) Subscribe(name string) *Subscription {
	sub := &Subscription{
		name:        name,
		events:      make(chan model.Event, subscriberBufferSize),
		connectedAt: time.Now(),
	}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.events)
	}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Publish queues an event for delivery to all subscribers
func (h *Hub) Publish(event model.Event) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("event dropped - hub buffer full", slog.String("event", string(event.Type)))
	}
}

// Close shuts down the hub. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Interface for dependency injection
type Publisher interface {
	Publish(event model.Event)
}

var _ Publisher = (*Hub)(nil)
