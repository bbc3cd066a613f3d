package nav

import "github.com/cory-johannsen/giftrun/internal/game/level"

// TargetKind records why a tile was selected as a target.
type TargetKind uint8

// Target kinds.
const (
	PlatformEdge TargetKind = iota
	RopeEdge
	LadderEdge
	GiftTarget
)

var targetKindNames = [...]string{"platform", "rope", "ladder", "gift"}

// String returns the lowercase kind name.
func (k TargetKind) String() string {
	if int(k) < len(targetKindNames) {
		return targetKindNames[k]
	}
	return "unknown"
}

// Target is a tile an agent may want to reach.
//
// Invariant: only gift targets ever become inactive.
type Target struct {
	X      int
	Y      int
	Kind   TargetKind
	Active bool
}

// Point returns the target's tile.
func (t Target) Point() level.Point {
	return level.Point{X: t.X, Y: t.Y}
}

// DiscoverTargets scans g once in row-major order and returns every platform,
// rope and ladder edge tile followed by every gift tile. The order is the
// index key of the matching hint fields and never changes.
//
// Postcondition: every returned target is Active.
func DiscoverTargets(g *level.Grid) []Target {
	w, h := g.Width(), g.Height()
	var edges, gifts []Target

	add := func(x, y int, k TargetKind) {
		edges = append(edges, Target{X: x, Y: y, Kind: k, Active: true})
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := g.At(x, y)
			boundaryX := x == 0 || x+1 == w

			if k == level.Gift {
				gifts = append(gifts, Target{X: x, Y: y, Kind: GiftTarget, Active: true})
			}

			// Both ends of every standable run.
			if k != level.Brick && k != level.Ladder && k != level.Gift {
				if y+1 == h {
					if boundaryX || g.At(x-1, y) == level.Brick || g.At(x+1, y) == level.Brick {
						add(x, y, PlatformEdge)
					}
				} else if g.At(x, y+1) == level.Brick {
					if boundaryX || g.At(x-1, y+1) != level.Brick || g.At(x+1, y+1) != level.Brick {
						add(x, y, PlatformEdge)
					}
				}
			}

			// Both ends of every rope run.
			if k == level.Rope && (boundaryX || g.At(x-1, y) != level.Rope || g.At(x+1, y) != level.Rope) {
				add(x, y, RopeEdge)
			}

			// Both ends of every ladder run.
			if k == level.Ladder && (y == 0 || y+1 == h || g.At(x, y-1) != level.Ladder || g.At(x, y+1) != level.Ladder) {
				add(x, y, LadderEdge)
			}
		}
	}

	return append(edges, gifts...)
}
