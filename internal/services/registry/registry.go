package registry

import (
	"github.com/samber/lo"

	"github.com/mcoot/bingobot/internal/dependencies/clock"
	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/card"
)

// Registry tracks the players enrolled in the current game.
// It is not safe for concurrent use; the game controller serializes access.
type Registry struct {
	cards   card.Generator
	clock   clock.Clock
	players map[model.PlayerID]*model.Player
	order   []model.PlayerID
}

// New creates an empty Registry
func New(cards card.Generator, clock clock.Clock) *Registry {
	return &Registry{
		cards:   cards,
		clock:   clock,
		players: make(map[model.PlayerID]*model.Player),
	}
}

// Join enrolls a player with a freshly generated card
func (r *Registry) Join(id model.PlayerID) (model.Card, error) {
	if _, ok := r.players[id]; ok {
		return model.Card{}, model.ErrAlreadyJoined
	}

	player := &model.Player{
		ID:       id,
		Card:     r.cards.Generate(),
		Marked:   []int{},
		JoinedAt: r.clock.Now(),
	}
	r.players[id] = player
	r.order = append(r.order, id)
	return player.Card, nil
}

// Mark records that a player has marked a called number.
// Checks run in order: membership, called, on card, not yet marked.
func (r *Registry) Mark(id model.PlayerID, number int, called *model.CalledNumbers) error {
	player, ok := r.players[id]
	if !ok {
		return model.ErrNotInGame
	}
	if !called.Contains(number) {
		return model.ErrNotCalled
	}
	if !player.Card.Contains(number) {
		return model.ErrNotOnCard
	}
	if player.HasMarked(number) {
		return model.ErrAlreadyMarked
	}
	player.Marked = append(player.Marked, number)
	return nil
}

// Get returns the player with the given id, or nil if not enrolled
func (r *Registry) Get(id model.PlayerID) *model.Player {
	return r.players[id]
}

// List returns player ids in join order
func (r *Registry) List() []model.PlayerID {
	result := make([]model.PlayerID, len(r.order))
	copy(result, r.order)
	return result
}

// Players returns the enrolled players in join order
func (r *Registry) Players() []*model.Player {
	return lo.Map(r.order, func(id model.PlayerID, _ int) *model.Player {
		return r.players[id]
	})
}

// Len returns the number of enrolled players
func (r *Registry) Len() int {
	return len(r.order)
}

// Clear discards all players
func (r *Registry) Clear() {
	r.players = make(map[model.PlayerID]*model.Player)
	r.order = nil
}
