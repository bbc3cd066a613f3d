package agent

import "github.com/cory-johannsen/giftrun/internal/game/level"

// Avatar is the player-controlled agent. Its intent is whatever was last
// commanded.
type Avatar struct {
	Body
	command Intent
}

// NewAvatar places a new avatar at spawn.
func NewAvatar(spawn level.Point) *Avatar {
	return &Avatar{Body: NewBody(spawn)}
}

// Command replaces the avatar's current intent.
func (a *Avatar) Command(i Intent) { a.command = i }

// Decide returns the last commanded intent.
func (a *Avatar) Decide(Navigator) Intent { return a.command }

// Reset returns the avatar to its spawn tile and clears its command.
func (a *Avatar) Reset() {
	a.Body.Reset()
	a.command = Intent{}
}

// NearestTarget returns the active target closest to the avatar.
//
// Postcondition: Returns (-1, false) when no target is active.
func (a *Avatar) NearestTarget(n Navigator) (int, bool) {
	ti, _, ok := n.NearestActiveTarget(a.pos.X, a.pos.Y)
	return ti, ok
}
