package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Lifecycle events
	EventLobbyStarted           EventType = "lobby_started"
	EventGameStarted            EventType = "game_started"
	EventGameCancelledNoPlayers EventType = "game_cancelled_no_players"
	EventGameStopped            EventType = "game_stopped"

	// Calling events
	EventNumberCalled  EventType = "number_called"
	EventPoolExhausted EventType = "pool_exhausted"

	// Player events
	EventPlayerJoined  EventType = "player_joined"
	EventModeChanged   EventType = "mode_changed"
	EventGameWon       EventType = "game_won"
	EventGameIncorrect EventType = "game_incorrect"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"player_id,omitempty"` // The player who triggered or is affected
	Payload   any       `json:"payload,omitempty"`   // Type-specific data
}

// LobbyStartedPayload contains data for lobby started events
type LobbyStartedPayload struct {
	CreatedBy   PlayerID      `json:"created_by"`
	Mode        Mode          `json:"mode"`
	LobbyWindow time.Duration `json:"lobby_window"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	Players []PlayerID `json:"players"`
	Mode    Mode       `json:"mode"`
}

// NumberCalledPayload contains data for number called events
type NumberCalledPayload struct {
	Number      int `json:"number"`
	TotalCalled int `json:"total_called"`
}

// ModeChangedPayload contains data for mode changed events
type ModeChangedPayload struct {
	Mode Mode `json:"mode"`
}

// GameWonPayload contains data for game won events
type GameWonPayload struct {
	Winner      PlayerID `json:"winner"`
	Mode        Mode     `json:"mode"`
	TotalCalled int      `json:"total_called"`
}
