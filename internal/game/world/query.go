package world

import (
	"fmt"

	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

// Targets returns a copy of the target set in discovery order.
func (w *World) Targets() []nav.Target {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]nav.Target(nil), w.targets...)
}

// TargetCount returns the size of the target set. It never changes.
func (w *World) TargetCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.targets)
}

// Target returns the target at index ti.
//
// Postcondition: Returns (target, true) if ti is valid, or (zero, false).
func (w *World) Target(ti int) (nav.Target, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if ti < 0 || ti >= len(w.targets) {
		return nav.Target{}, false
	}
	return w.targets[ti], true
}

// NearestActiveTarget returns the active target closest to (x, y) by
// Manhattan distance; ties go to the earliest target in the set.
//
// Postcondition: Returns (index, target, true), or (-1, zero, false) when no
// target is active.
func (w *World) NearestActiveTarget(x, y int) (int, nav.Target, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	best, bestDist := -1, 0
	for i, t := range w.targets {
		if !t.Active {
			continue
		}
		d := abs(t.X-x) + abs(t.Y-y)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return -1, nav.Target{}, false
	}
	return best, w.targets[best], true
}

// Field returns the current hint field of target ti. The returned field is
// never modified; a later rebuild publishes a new one.
//
// Precondition: 0 <= ti < TargetCount().
func (w *World) Field(ti int) *nav.Field {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fields[ti]
}

// HintAt returns the first step from (x, y) toward target ti. Unreached is a
// valid answer meaning "no route".
//
// Precondition: ti is a valid target index and (x, y) lies on the board.
func (w *World) HintAt(ti, x, y int) nav.Move {
	return w.Field(ti).Move(x, y)
}

// DistanceAt returns the recorded cost from (x, y) to target ti; +Inf when
// there is no route.
//
// Precondition: ti is a valid target index and (x, y) lies on the board.
func (w *World) DistanceAt(ti, x, y int) float64 {
	return w.Field(ti).Distance(x, y)
}

// Lookup is the checked form of HintAt and DistanceAt for callers holding
// untrusted coordinates.
//
// Postcondition: Returns ErrUnknownTarget or ErrOutOfBounds for bad input.
func (w *World) Lookup(ti, x, y int) (nav.Cell, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if ti < 0 || ti >= len(w.fields) {
		return nav.Cell{}, fmt.Errorf("target %d: %w", ti, ErrUnknownTarget)
	}
	if !w.grid.InBounds(x, y) {
		return nav.Cell{}, fmt.Errorf("lookup (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return w.fields[ti].At(x, y), nil
}

// Deactivate removes target ti from NearestActiveTarget candidates. Its
// field stays valid and is still rebuilt.
//
// Postcondition: Returns ErrUnknownTarget for an invalid index.
func (w *World) Deactivate(ti int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ti < 0 || ti >= len(w.targets) {
		return fmt.Errorf("target %d: %w", ti, ErrUnknownTarget)
	}
	w.targets[ti].Active = false
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// KindAt returns the terrain at (x, y).
//
// Postcondition: Returns ErrOutOfBounds for coordinates off the board.
func (w *World) KindAt(x, y int) (level.Kind, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.grid.InBounds(x, y) {
		return level.Empty, fmt.Errorf("kind at (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return w.grid.At(x, y), nil
}
