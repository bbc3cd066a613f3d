// Package world owns one running board: its tile grid, target set and hint
// fields, plus the brick restore schedule that mutates them.
package world

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

// DefaultRestoreDelay is how long a broken brick stays open.
const DefaultRestoreDelay = 5 * time.Second

var (
	// ErrOutOfBounds is returned when external coordinates fall outside the board.
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	// ErrNotBrick is returned when breaking a tile that is not Brick.
	ErrNotBrick = errors.New("tile is not a brick")
	// ErrUnknownTarget is returned for a target index outside the target set.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrNotGift is returned when collecting from a tile that holds no gift.
	ErrNotGift = errors.New("tile holds no gift")
	// ErrStaleChange is returned when a TerrainChange's Before does not match the board.
	ErrStaleChange = errors.New("terrain change does not match board")
)

// TerrainChange is one tile mutation: the tile at (X, Y) must currently be
// Before and becomes After.
type TerrainChange struct {
	X, Y   int
	Before level.Kind
	After  level.Kind
}

// Option configures a World.
type Option func(*World)

// WithRestoreDelay sets how long a broken brick stays open. A delay <= 0
// leaves broken bricks open for the rest of the session.
func WithRestoreDelay(d time.Duration) Option {
	return func(w *World) { w.restoreDelay = d }
}

// World is the aggregate owning a board's grid, target set and hint fields.
//
// Grid and fields are never mutated once published: every terrain change
// builds a fresh grid and field set off-lock and swaps both in under the
// write lock, so readers never see a half-built field. Writers serialize on
// writeMu.
type World struct {
	levelID      string
	name         string
	compiler     *nav.Compiler
	logger       *zap.Logger
	restoreDelay time.Duration
	restores     *RestoreQueue

	avatarSpawn   level.Point
	hasAvatar     bool
	pursuerSpawns []level.Point

	writeMu sync.Mutex

	mu       sync.RWMutex
	grid     *level.Grid
	targets  []nav.Target
	fields   nav.FieldSet
	rebuilds int
}

// New builds the World for lvl. Human and Robot tiles are recorded as spawn
// points and cleared to Empty; the target set is discovered once and every
// field is compiled before New returns.
//
// Precondition: lvl, compiler and logger must not be nil.
// Postcondition: Returns a World with one compiled field per target, or an
// error if lvl has no grid.
func New(lvl *level.Level, compiler *nav.Compiler, logger *zap.Logger, opts ...Option) (*World, error) {
	if lvl == nil || lvl.Grid == nil {
		return nil, fmt.Errorf("world: level has no board")
	}
	w := &World{
		levelID:      lvl.ID,
		name:         lvl.Name,
		compiler:     compiler,
		logger:       logger.With(zap.String("level_id", lvl.ID)),
		restoreDelay: DefaultRestoreDelay,
		restores:     NewRestoreQueue(),
	}
	for _, opt := range opts {
		opt(w)
	}

	g := lvl.Grid.Clone()
	if humans := g.Find(level.Human); len(humans) > 0 {
		w.avatarSpawn, w.hasAvatar = humans[0], true
	}
	w.pursuerSpawns = g.Find(level.Robot)
	for _, k := range []level.Kind{level.Human, level.Robot} {
		for _, p := range g.Find(k) {
			g.Set(p.X, p.Y, level.Empty)
		}
	}

	w.grid = g
	w.targets = nav.DiscoverTargets(g)
	start := time.Now()
	w.fields = compiler.Compile(g, w.targets)
	w.logger.Debug("hint fields compiled",
		zap.Int("targets", len(w.targets)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return w, nil
}

// LevelID returns the id of the level this World was built from.
func (w *World) LevelID() string { return w.levelID }

// Name returns the level's display name.
func (w *World) Name() string { return w.name }

// Size returns the board dimensions. They never change.
func (w *World) Size() (width, height int) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid.Width(), w.grid.Height()
}

// InBounds reports whether (x, y) lies on the board.
func (w *World) InBounds(x, y int) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid.InBounds(x, y)
}

// AvatarSpawn returns where the level placed the avatar.
func (w *World) AvatarSpawn() level.Point { return w.avatarSpawn }

// PursuerSpawns returns where the level placed pursuers, in scan order.
func (w *World) PursuerSpawns() []level.Point {
	return append([]level.Point(nil), w.pursuerSpawns...)
}

// RestoreDelay returns how long a broken brick stays open.
func (w *World) RestoreDelay() time.Duration { return w.restoreDelay }

// Rebuilds returns the number of completed full field rebuilds since load.
func (w *World) Rebuilds() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rebuilds
}

// Snapshot returns a copy of the current grid.
func (w *World) Snapshot() *level.Grid {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.grid.Clone()
}

// Board returns a copy of the current grid with the avatar and pursuer spawn
// tiles written back, the form a level file or code carries.
func (w *World) Board() *level.Grid {
	g := w.Snapshot()
	mark := func(p level.Point, k level.Kind) {
		if g.At(p.X, p.Y) == level.Empty {
			g.Set(p.X, p.Y, k)
		}
	}
	if w.hasAvatar {
		mark(w.avatarSpawn, level.Human)
	}
	for _, p := range w.pursuerSpawns {
		mark(p, level.Robot)
	}
	return g
}

// Code returns the current board, spawn tiles included, in the shareable
// level encoding.
func (w *World) Code() (string, error) {
	return level.Encode(w.Board())
}

// Capabilities returns movement predicates over the current grid. The
// returned value stays bound to the grid it was taken from.
func (w *World) Capabilities() nav.Capabilities {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return nav.NewCapabilities(w.grid)
}

// Apply performs every change as one mutation and rebuilds all hint fields
// once. Either all changes land or none do.
//
// Postcondition: on success the new grid and fields are visible together;
// returns ErrOutOfBounds or ErrStaleChange without modifying anything.
func (w *World) Apply(changes ...TerrainChange) error {
	if len(changes) == 0 {
		return nil
	}
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.applyLocked(changes)
}

// applyLocked validates changes against the current grid and publishes them
// with a rebuild.
//
// Precondition: caller holds writeMu.
func (w *World) applyLocked(changes []TerrainChange) error {
	next := w.grid.Clone()
	for _, c := range changes {
		if !next.InBounds(c.X, c.Y) {
			return fmt.Errorf("apply (%d,%d): %w", c.X, c.Y, ErrOutOfBounds)
		}
		if got := next.At(c.X, c.Y); got != c.Before {
			return fmt.Errorf("apply (%d,%d): want %s, found %s: %w", c.X, c.Y, c.Before, got, ErrStaleChange)
		}
		next.Set(c.X, c.Y, c.After)
	}
	w.publish(next)
	return nil
}

// publish recompiles the field set against next off-lock, then swaps grid
// and fields in together.
//
// Precondition: caller holds writeMu.
func (w *World) publish(next *level.Grid) {
	start := time.Now()
	fields := w.compiler.Compile(next, w.Targets())
	w.logger.Debug("hint fields rebuilt",
		zap.Int("targets", len(fields)),
		zap.Duration("elapsed", time.Since(start)),
	)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.grid = next
	w.fields = fields
	w.rebuilds++
}
