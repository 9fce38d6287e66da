package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Game:
		o.printGame(v)
	case Card:
		o.printCard(v)
	case CardView:
		o.printCardView(v)
	case Players:
		o.printPlayers(v)
	case ModeResult:
		fmt.Fprintf(o.w, "Mode: %s\n", v.Mode)
	case MarkResult:
		fmt.Fprintf(o.w, "Marked %d\n", v.Marked)
		o.printCard(v.Card)
	case BingoResult:
		o.printBingo(v)
	case History:
		o.printHistory(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Game response type (matches API)
type Game struct {
	State       string     `json:"state"`
	Mode        string     `json:"mode"`
	Called      []int      `json:"called"`
	LastCalled  *int       `json:"last_called"`
	PlayerCount int        `json:"player_count"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

// Card response type. The free cell is 0.
type Card struct {
	Rows   [][]int `json:"rows"`
	Marked []int   `json:"marked"`
}

// CardView response type
type CardView struct {
	Card
	Player  string `json:"player"`
	Mode    string `json:"mode"`
	Called  []int  `json:"called"`
	Missing []int  `json:"missing"`
}

// Players response type
type Players struct {
	Players []string `json:"players"`
}

// ModeResult response type
type ModeResult struct {
	Mode string `json:"mode"`
}

// MarkResult response type
type MarkResult struct {
	Marked int  `json:"marked"`
	Card   Card `json:"card"`
}

// BingoResult response type
type BingoResult struct {
	Result        string     `json:"result"`
	Mode          string     `json:"mode"`
	TotalCalled   int        `json:"total_called"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
}

// GameSummary response type
type GameSummary struct {
	ID          string    `json:"id"`
	Outcome     string    `json:"outcome"`
	Winner      *string   `json:"winner"`
	Mode        string    `json:"mode"`
	CalledCount int       `json:"called_count"`
	PlayerCount int       `json:"player_count"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// History response type
type History struct {
	Games []GameSummary `json:"games"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "State: %s\n", g.State)
	fmt.Fprintf(o.w, "Mode: %s\n", g.Mode)
	if g.State == "idle" {
		return
	}
	fmt.Fprintf(o.w, "Players: %d\n", g.PlayerCount)
	if g.CreatedBy != "" {
		fmt.Fprintf(o.w, "Created By: %s\n", g.CreatedBy)
	}
	fmt.Fprintf(o.w, "Called (%d): %s\n", len(g.Called), joinInts(g.Called))
	if g.LastCalled != nil {
		fmt.Fprintf(o.w, "Last Called: %d\n", *g.LastCalled)
	}
}

func (o *Output) printCard(c Card) {
	if len(c.Rows) == 0 {
		return
	}

	marked := make(map[int]bool, len(c.Marked))
	for _, n := range c.Marked {
		marked[n] = true
	}

	border := "+" + strings.Repeat("-", 25) + "+"
	fmt.Fprintln(o.w, "   B    I    N    G    O")
	fmt.Fprintln(o.w, border)
	for _, row := range c.Rows {
		fmt.Fprint(o.w, "|")
		for _, n := range row {
			switch {
			case n == 0:
				fmt.Fprint(o.w, "  ** ")
			case marked[n]:
				fmt.Fprintf(o.w, " [%2d]", n)
			default:
				fmt.Fprintf(o.w, "  %2d ", n)
			}
		}
		fmt.Fprintln(o.w, "|")
	}
	fmt.Fprintln(o.w, border)
}

func (o *Output) printCardView(v CardView) {
	fmt.Fprintf(o.w, "Player: %s\n", v.Player)
	fmt.Fprintf(o.w, "Mode: %s\n", v.Mode)
	o.printCard(v.Card)
	if len(v.Missing) > 0 {
		fmt.Fprintf(o.w, "Still needed: %s\n", joinInts(v.Missing))
	} else {
		fmt.Fprintln(o.w, "Pattern complete - declare bingo!")
	}
}

func (o *Output) printPlayers(p Players) {
	fmt.Fprintf(o.w, "Players (%d):\n", len(p.Players))
	for _, id := range p.Players {
		fmt.Fprintf(o.w, "  - %s\n", id)
	}
}

func (o *Output) printBingo(b BingoResult) {
	if b.Result == "won" {
		fmt.Fprintf(o.w, "BINGO! Won in %s mode after %d calls\n", b.Mode, b.TotalCalled)
		return
	}
	fmt.Fprintf(o.w, "Incorrect bingo for %s mode\n", b.Mode)
	if b.CooldownUntil != nil {
		fmt.Fprintf(o.w, "Cooldown until: %s\n", b.CooldownUntil.Local().Format(time.TimeOnly))
	}
}

func (o *Output) printHistory(h History) {
	if len(h.Games) == 0 {
		fmt.Fprintln(o.w, "No finished games")
		return
	}
	for _, g := range h.Games {
		winner := ""
		if g.Winner != nil {
			winner = " winner=" + *g.Winner
		}
		fmt.Fprintf(o.w, "%s  %-9s mode=%s called=%d players=%d%s\n",
			g.EndedAt.Local().Format(time.DateTime), g.Outcome, g.Mode, g.CalledCount, g.PlayerCount, winner)
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
