package response

import (
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/game"
)

// Game represents the current game in API responses
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

// GameFromSnapshot converts a model.GameSnapshot
func GameFromSnapshot(s model.GameSnapshot) Game {
	g := Game{
		State:       string(s.State),
		Mode:        string(s.Mode),
		Called:      s.Called,
		PlayerCount: s.PlayerCount,
	}
	if g.Called == nil {
		g.Called = []int{}
	}
	if s.LastCalled != 0 {
		last := s.LastCalled
		g.LastCalled = &last
	}
	if s.State != model.GameStateIdle {
		g.CreatedBy = string(s.CreatedBy)
		g.CreatedAt = timePtr(s.CreatedAt)
		g.StartedAt = timePtr(s.StartedAt)
	}
	return g
}

// Card represents a player's card as rows of cells. The free cell is 0.
type Card struct {
	Rows   [][]int `json:"rows"`
	Marked []int   `json:"marked"`
}

// CardFromModel converts model.Card
func CardFromModel(c model.Card, marked []int) Card {
	rows := lo.Chunk(c.Cells[:], model.CardSize)
	if marked == nil {
		marked = []int{}
	}
	return Card{Rows: rows, Marked: marked}
}

// CardView is a card with progress toward the current mode
type CardView struct {
	Card
	Player  string `json:"player"`
	Mode    string `json:"mode"`
	Called  []int  `json:"called"`
	Missing []int  `json:"missing"`
}

// CardViewFromGame converts game.CardView
func CardViewFromGame(v game.CardView) CardView {
	missing := v.Missing
	if missing == nil {
		missing = []int{}
	}
	return CardView{
		Card:    CardFromModel(v.Card, v.Marked),
		Player:  string(v.Player),
		Mode:    string(v.Mode),
		Called:  v.Called,
		Missing: missing,
	}
}

// Players lists enrolled players in join order
type Players struct {
	Players []string `json:"players"`
}

// PlayersFromModel converts player ids
func PlayersFromModel(ids []model.PlayerID) Players {
	return Players{Players: lo.Map(ids, func(id model.PlayerID, _ int) string { return string(id) })}
}

// ModeResponse is the response after changing the mode
type ModeResponse struct {
	Mode string `json:"mode"`
}

// MarkResponse is the response after marking a number
type MarkResponse struct {
	Marked int  `json:"marked"`
	Card   Card `json:"card"`
}

// BingoResponse is the response to a bingo declaration
type BingoResponse struct {
	Result        string     `json:"result"` // "won" or "incorrect"
	Mode          string     `json:"mode"`
	TotalCalled   int        `json:"total_called"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
}

// BingoFromResult converts game.WinResult
func BingoFromResult(r game.WinResult) BingoResponse {
	resp := BingoResponse{
		Result:      "incorrect",
		Mode:        string(r.Mode),
		TotalCalled: r.TotalCalled,
	}
	if r.Won {
		resp.Result = "won"
	} else {
		resp.CooldownUntil = timePtr(r.CooldownUntil)
	}
	return resp
}

// GameSummary represents a finished game
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

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g model.GameSummary) GameSummary {
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}
	return GameSummary{
		ID:          g.ID,
		Outcome:     string(g.Outcome),
		Winner:      winner,
		Mode:        string(g.Mode),
		CalledCount: g.CalledCount,
		PlayerCount: g.PlayerCount,
		CreatedBy:   string(g.CreatedBy),
		CreatedAt:   g.CreatedAt,
		EndedAt:     g.EndedAt,
	}
}

// History lists finished games, newest first
type History struct {
	Games []GameSummary `json:"games"`
}

// HistoryFromModel converts model.GameSummary values
func HistoryFromModel(summaries []model.GameSummary) History {
	return History{Games: lo.Map(summaries, func(g model.GameSummary, _ int) GameSummary {
		return GameSummaryFromModel(g)
	})}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
