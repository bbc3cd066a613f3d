package nav

import (
	"fmt"

	"github.com/cory-johannsen/giftrun/internal/game/level"
)

// Capabilities answers "can an agent at (x, y) do X" over a grid. It is the
// only component that inspects terrain for movement; everything else goes
// through these predicates.
//
// All predicates panic when (x, y) lies outside the grid.
type Capabilities struct {
	grid *level.Grid
}

// NewCapabilities wraps g.
//
// Precondition: g must not be nil.
func NewCapabilities(g *level.Grid) Capabilities {
	return Capabilities{grid: g}
}

// Width returns the grid width.
func (c Capabilities) Width() int { return c.grid.Width() }

// Height returns the grid height.
func (c Capabilities) Height() int { return c.grid.Height() }

func (c Capabilities) check(x, y int) {
	if !c.grid.InBounds(x, y) {
		panic(fmt.Sprintf("nav.Capabilities: (%d,%d) outside %dx%d grid", x, y, c.grid.Width(), c.grid.Height()))
	}
}

func (c Capabilities) kindAt(x, y int) level.Kind {
	return c.grid.At(x, y)
}

// CanMoveLeft reports whether the tile to the left exists and is not Brick.
func (c Capabilities) CanMoveLeft(x, y int) bool {
	c.check(x, y)
	return x > 0 && c.kindAt(x-1, y) != level.Brick
}

// CanMoveRight reports whether the tile to the right exists and is not Brick.
func (c Capabilities) CanMoveRight(x, y int) bool {
	c.check(x, y)
	return x+1 < c.grid.Width() && c.kindAt(x+1, y) != level.Brick
}

// CanStand reports whether (x, y) is on the bottom row or rests on Brick or Ladder.
func (c Capabilities) CanStand(x, y int) bool {
	c.check(x, y)
	if y+1 == c.grid.Height() {
		return true
	}
	below := c.kindAt(x, y+1)
	return below == level.Brick || below == level.Ladder
}

// CanHang reports whether (x, y) is a Rope tile.
func (c Capabilities) CanHang(x, y int) bool {
	c.check(x, y)
	return c.kindAt(x, y) == level.Rope
}

// CanClimbUp reports whether (x, y) is a Ladder tile.
func (c Capabilities) CanClimbUp(x, y int) bool {
	c.check(x, y)
	return c.kindAt(x, y) == level.Ladder
}

// CanClimbDown reports whether the tile below exists and is Ladder.
func (c Capabilities) CanClimbDown(x, y int) bool {
	c.check(x, y)
	return y+1 < c.grid.Height() && c.kindAt(x, y+1) == level.Ladder
}

// CanBreakLeft reports whether the tile diagonally below-left exists and is Brick.
func (c Capabilities) CanBreakLeft(x, y int) bool {
	c.check(x, y)
	return y+1 < c.grid.Height() && x > 0 && c.kindAt(x-1, y+1) == level.Brick
}

// CanBreakRight reports whether the tile diagonally below-right exists and is Brick.
func (c Capabilities) CanBreakRight(x, y int) bool {
	c.check(x, y)
	return y+1 < c.grid.Height() && x+1 < c.grid.Width() && c.kindAt(x+1, y+1) == level.Brick
}
