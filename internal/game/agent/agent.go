package agent

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

// Navigator is the read side of a world that agents consult when deciding.
type Navigator interface {
	// LevelID identifies the board.
	LevelID() string
	// Size returns the board dimensions.
	Size() (width, height int)
	// TargetCount returns the size of the target set.
	TargetCount() int
	// NearestActiveTarget returns the active target closest to (x, y).
	NearestActiveTarget(x, y int) (int, nav.Target, bool)
	// Field returns the current hint field of target ti.
	Field(ti int) *nav.Field
}

// GoalProvider picks an independent goal for a pursuer. ok is false when the
// provider has no opinion and the default goal selection applies.
type GoalProvider interface {
	PursuerGoal(levelID, agentID string, x, y, ax, ay int) (ti int, ok bool)
}

// Agent is anything that occupies a tile and produces an intent each tick.
type Agent interface {
	ID() string
	Position() level.Point
	MoveTo(x, y int)
	Reset()
	Decide(n Navigator) Intent
}

// Body is the locomotion state shared by every agent kind.
type Body struct {
	id    string
	pos   level.Point
	spawn level.Point
}

// NewBody returns a Body at spawn with a fresh random id.
func NewBody(spawn level.Point) Body {
	return Body{id: uuid.New().String(), pos: spawn, spawn: spawn}
}

// ID returns the agent's unique id.
func (b *Body) ID() string { return b.id }

// Position returns the agent's tile.
func (b *Body) Position() level.Point { return b.pos }

// Spawn returns where the agent starts and respawns.
func (b *Body) Spawn() level.Point { return b.spawn }

// MoveTo places the agent on (x, y).
func (b *Body) MoveTo(x, y int) { b.pos = level.Point{X: x, Y: y} }

// Reset returns the agent to its spawn tile.
func (b *Body) Reset() { b.pos = b.spawn }
