package model

import "time"

// PlayerID uniquely identifies a player (the chat platform's user id)
type PlayerID string

// Player is an enrolled participant in the current game
type Player struct {
	ID   PlayerID
	Card Card

	// Marked holds marked numbers in the order they were marked
	Marked []int

	// CooldownUntil is the zero time when no cooldown is active
	CooldownUntil time.Time
	JoinedAt      time.Time
}

// HasMarked returns true if n is in the player's marked set
func (p *Player) HasMarked(n int) bool {
	for _, m := range p.Marked {
		if m == n {
			return true
		}
	}
	return false
}

// MarkedSet returns the marked numbers as a set
func (p *Player) MarkedSet() map[int]bool {
	set := make(map[int]bool, len(p.Marked))
	for _, m := range p.Marked {
		set[m] = true
	}
	return set
}

// OnCooldown returns true if the player's cooldown has not elapsed at now
func (p *Player) OnCooldown(now time.Time) bool {
	return now.Before(p.CooldownUntil)
}
