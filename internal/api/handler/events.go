package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/bingobot/internal/api/middleware"
	"github.com/mcoot/bingobot/internal/events"
)

// Time between keepalive comments
const pingPeriod = 30 * time.Second

// Subscriber is the part of the event hub the stream needs
type Subscriber interface {
	Subscribe(name string) *events.Subscription
	Unsubscribe(sub *events.Subscription)
}

// EventsHandler streams game events as server-sent events
type EventsHandler struct {
	hub    Subscriber
	logger *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub Subscriber, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		hub:    hub,
		logger: logger,
	}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	name := "sse"
	if caller := middleware.GetCaller(r.Context()); caller != nil && caller.ID != "" {
		name = "sse:" + string(caller.ID)
	}
	sub := h.hub.Subscribe(name)
	defer h.hub.Unsubscribe(sub)

	// Send initial connection event
	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				// Hub closed the subscription
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to encode event", slog.Any("error", err))
				continue
			}
			if _, err := w.Write(formatSSEMessage(string(event.Type), string(data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits on \n, dropping \r and a trailing empty line
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
