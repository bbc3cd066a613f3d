package world

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

// BreakBrick opens the brick at (x, y) and schedules its restore at
// now + the restore delay.
//
// Postcondition: on success the tile is Empty, all fields are rebuilt and a
// restore is pending. Returns ErrOutOfBounds or ErrNotBrick otherwise.
func (w *World) BreakBrick(x, y int, now time.Time) error {
	err := w.Apply(TerrainChange{X: x, Y: y, Before: level.Brick, After: level.Empty})
	switch {
	case errors.Is(err, ErrStaleChange):
		return fmt.Errorf("break (%d,%d): %w", x, y, ErrNotBrick)
	case err != nil:
		return err
	}
	w.restores.Schedule(level.Point{X: x, Y: y}, now, w.restoreDelay)
	w.logger.Info("brick broken",
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Duration("restore_in", w.restoreDelay),
	)
	return nil
}

// PendingRestores returns the number of bricks waiting to be restored.
func (w *World) PendingRestores() int {
	return w.restores.Len()
}

// NextRestore returns when the earliest broken brick is restored; ok is
// false when none is pending.
func (w *World) NextRestore() (at time.Time, ok bool) {
	return w.restores.Next()
}

// Tick restores every brick whose deadline is <= now, in one rebuild, and
// returns the restored positions so occupants can be moved out.
//
// Postcondition: due restores are consumed. A restore whose tile is no
// longer Empty is dropped with a warning.
func (w *World) Tick(now time.Time) []level.Point {
	due := w.restores.Due(now)
	if len(due) == 0 {
		return nil
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	changes := make([]TerrainChange, 0, len(due))
	restored := make([]level.Point, 0, len(due))
	for _, p := range due {
		if got := w.grid.At(p.X, p.Y); got != level.Empty {
			w.logger.Warn("brick restore skipped",
				zap.Int("x", p.X),
				zap.Int("y", p.Y),
				zap.Stringer("found", got),
			)
			continue
		}
		changes = append(changes, TerrainChange{X: p.X, Y: p.Y, Before: level.Empty, After: level.Brick})
		restored = append(restored, p)
	}
	if len(changes) == 0 {
		return nil
	}
	if err := w.applyLocked(changes); err != nil {
		// Every change was checked against the same grid above.
		w.logger.Error("brick restore failed", zap.Error(err))
		return nil
	}
	for _, p := range restored {
		w.logger.Info("brick restored", zap.Int("x", p.X), zap.Int("y", p.Y))
	}
	return restored
}

// Relocate finds where an agent caught inside a restored brick at (x, y)
// goes: the first in-bounds non-Brick tile among above, left, right and
// below.
//
// Postcondition: Returns (point, true) or (zero, false) if all four are
// blocked.
func (w *World) Relocate(x, y int) (level.Point, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range []level.Point{{X: x, Y: y - 1}, {X: x - 1, Y: y}, {X: x + 1, Y: y}, {X: x, Y: y + 1}} {
		if w.grid.InBounds(p.X, p.Y) && w.grid.At(p.X, p.Y) != level.Brick {
			return p, true
		}
	}
	return level.Point{}, false
}

// CollectGift clears the gift at (x, y) and deactivates its target. Fields
// are not rebuilt: a gift tile moves like an empty one.
//
// Postcondition: Returns ErrOutOfBounds or ErrNotGift without modifying
// anything.
func (w *World) CollectGift(x, y int) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if !w.grid.InBounds(x, y) {
		return fmt.Errorf("collect (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	if w.grid.At(x, y) != level.Gift {
		return fmt.Errorf("collect (%d,%d): %w", x, y, ErrNotGift)
	}
	next := w.grid.Clone()
	next.Set(x, y, level.Empty)

	w.mu.Lock()
	w.grid = next
	for i := range w.targets {
		t := &w.targets[i]
		if t.X == x && t.Y == y && t.Kind == nav.GiftTarget {
			t.Active = false
		}
	}
	w.mu.Unlock()

	w.logger.Info("gift collected", zap.Int("x", x), zap.Int("y", y))
	return nil
}

// RemainingGifts returns the number of uncollected gifts.
func (w *World) RemainingGifts() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, t := range w.targets {
		if t.Kind == nav.GiftTarget && t.Active {
			n++
		}
	}
	return n
}
