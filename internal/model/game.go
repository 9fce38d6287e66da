package model

import "time"

// GameState represents the current phase of the game
type GameState string

const (
	GameStateIdle    GameState = "idle"    // No game; waiting for create
	GameStateLobby   GameState = "lobby"   // Accepting players before calling starts
	GameStateRunning GameState = "running" // Numbers are being called
)

// CalledNumbers is the ordered sequence of numbers drawn so far
type CalledNumbers struct {
	order []int
	seen  [MaxNumber + 1]bool
}

// NewCalledNumbers returns an empty sequence
func NewCalledNumbers() *CalledNumbers {
	return &CalledNumbers{}
}

// Add appends n and returns true, or returns false if n is out of range or already called
func (c *CalledNumbers) Add(n int) bool {
	if n < 1 || n > MaxNumber || c.seen[n] {
		return false
	}
	c.seen[n] = true
	c.order = append(c.order, n)
	return true
}

// Contains returns true if n has been called
func (c *CalledNumbers) Contains(n int) bool {
	if n < 1 || n > MaxNumber {
		return false
	}
	return c.seen[n]
}

// Len returns the number of calls so far
func (c *CalledNumbers) Len() int {
	return len(c.order)
}

// Full returns true once every number has been called
func (c *CalledNumbers) Full() bool {
	return len(c.order) >= MaxNumber
}

// Last returns the most recent call, or 0 if nothing has been called
func (c *CalledNumbers) Last() int {
	if len(c.order) == 0 {
		return 0
	}
	return c.order[len(c.order)-1]
}

// Values returns a copy of the calls in order
func (c *CalledNumbers) Values() []int {
	result := make([]int, len(c.order))
	copy(result, c.order)
	return result
}

// GameSnapshot is a read-only view of the game for display
type GameSnapshot struct {
	State       GameState `json:"state"`
	Mode        Mode      `json:"mode"`
	Called      []int     `json:"called"`
	LastCalled  int       `json:"last_called,omitempty"` // 0 before the first call
	PlayerCount int       `json:"player_count"`
	CreatedBy   PlayerID  `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	StartedAt   time.Time `json:"started_at,omitempty"`
}

// GameOutcome describes how a round finished
type GameOutcome string

const (
	OutcomeWon       GameOutcome = "won"
	OutcomeStopped   GameOutcome = "stopped"
	OutcomeCancelled GameOutcome = "cancelled"
)

// GameSummary is a lightweight record of a finished round
type GameSummary struct {
	ID          string      `json:"id"`
	Outcome     GameOutcome `json:"outcome"`
	Winner      PlayerID    `json:"winner,omitempty"` // Empty unless Outcome is won
	Mode        Mode        `json:"mode"`
	CalledCount int         `json:"called_count"`
	PlayerCount int         `json:"player_count"`
	CreatedBy   PlayerID    `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	EndedAt     time.Time   `json:"ended_at"`
}
