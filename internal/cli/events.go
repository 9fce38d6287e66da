package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/bingobot/internal/model"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream game events",
		Long: `Follow the server's event stream and print each game event as it happens:
lobbies opening, players joining, numbers being called and bingo declarations.

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), jsonOutput || cfg.Output == "json")
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// StreamedEvent is one event received from the stream
type StreamedEvent struct {
	Received time.Time       `json:"received"`
	Type     string          `json:"type"`
	Player   string          `json:"player,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// wireEvent mirrors model.Event with the payload left undecoded
type wireEvent struct {
	PlayerID string          `json:"player_id"`
	Payload  json.RawMessage `json:"payload"`
}

func streamEvents(ctx context.Context, w io.Writer, jsonOutput bool) error {
	req, err := client.newRequest(http.MethodGet, "/api/v1/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req = req.WithContext(ctx)

	// The stream stays open, so the client's request timeout does not apply
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var name string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			if name != "" && name != "connected" {
				printEvent(w, decodeEvent(name, strings.Join(data, "\n")), jsonOutput)
			}
			name, data = "", nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}
	if !jsonOutput {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

func decodeEvent(name, data string) StreamedEvent {
	evt := StreamedEvent{Received: time.Now(), Type: name}
	var raw wireEvent
	if err := json.Unmarshal([]byte(data), &raw); err == nil {
		evt.Player = raw.PlayerID
		evt.Payload = raw.Payload
	}
	return evt
}

func printEvent(w io.Writer, evt StreamedEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", evt.Received.Format("15:04:05"), describeEvent(evt))
}

// describeEvent renders an event as a one-line summary
func describeEvent(evt StreamedEvent) string {
	var p struct {
		CreatedBy   string   `json:"created_by"`
		Mode        string   `json:"mode"`
		Players     []string `json:"players"`
		Number      int      `json:"number"`
		TotalCalled int      `json:"total_called"`
		Winner      string   `json:"winner"`
	}
	_ = json.Unmarshal(evt.Payload, &p)

	switch model.EventType(evt.Type) {
	case model.EventLobbyStarted:
		return fmt.Sprintf("%s opened a lobby (%s mode)", p.CreatedBy, p.Mode)
	case model.EventPlayerJoined:
		return evt.Player + " joined"
	case model.EventGameStarted:
		return fmt.Sprintf("calling started with %d players", len(p.Players))
	case model.EventNumberCalled:
		return fmt.Sprintf("%s-%d (call %d)", columnLetter(p.Number), p.Number, p.TotalCalled)
	case model.EventModeChanged:
		return "mode set to " + p.Mode
	case model.EventGameWon:
		return fmt.Sprintf("%s won in %s mode after %d calls", p.Winner, p.Mode, p.TotalCalled)
	case model.EventGameIncorrect:
		return evt.Player + " declared bingo without a winning card"
	case model.EventPoolExhausted:
		return "every number has been called"
	case model.EventGameStopped:
		return "game stopped"
	case model.EventGameCancelledNoPlayers:
		return "lobby closed with no players"
	}
	return evt.Type
}

func columnLetter(n int) string {
	col := model.ColumnOf(n)
	if col < 0 || col >= len(model.ColumnLetters) {
		return "?"
	}
	return string(model.ColumnLetters[col])
}
