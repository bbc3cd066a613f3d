package world

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestWorld(t testing.TB, rows ...string) *World {
	t.Helper()
	g, err := level.ParseRows(rows)
	require.NoError(t, err)
	w, err := New(&level.Level{ID: "test", Name: "Test", Grid: g}, nav.DefaultCompiler(), zap.NewNop())
	require.NoError(t, err)
	return w
}

// targetAt returns the index of the first target at (x, y).
func targetAt(t testing.TB, w *World, x, y int) int {
	t.Helper()
	for i, tg := range w.Targets() {
		if tg.X == x && tg.Y == y {
			return i
		}
	}
	t.Fatalf("no target at (%d,%d)", x, y)
	return -1
}

func TestNew_ClearsAgentMarkers(t *testing.T) {
	w := newTestWorld(t,
		"X  #",
		"%%%%",
	)
	assert.Equal(t, level.Point{X: 0, Y: 0}, w.AvatarSpawn())
	assert.Equal(t, []level.Point{{X: 3, Y: 0}}, w.PursuerSpawns())

	snap := w.Snapshot()
	assert.Equal(t, level.Empty, snap.At(0, 0))
	assert.Equal(t, level.Empty, snap.At(3, 0))
	assert.Equal(t, "test", w.LevelID())
	assert.Equal(t, "Test", w.Name())
	assert.Equal(t, 0, w.Rebuilds())

	for i := 0; i < w.TargetCount(); i++ {
		tg, ok := w.Target(i)
		require.True(t, ok)
		assert.Equal(t, nav.AtTarget, w.HintAt(i, tg.X, tg.Y))
		assert.Zero(t, w.DistanceAt(i, tg.X, tg.Y))
	}
}

func TestNew_NilLevel(t *testing.T) {
	_, err := New(nil, nav.DefaultCompiler(), zap.NewNop())
	assert.Error(t, err)
	_, err = New(&level.Level{ID: "x"}, nav.DefaultCompiler(), zap.NewNop())
	assert.Error(t, err)
}

func TestNearestActiveTarget(t *testing.T) {
	w := newTestWorld(t,
		"@    @",
		"%%%%%%",
	)
	// Platform edges at x=0 and x=5 sit on the gift tiles, which are
	// excluded, so the set is the two gifts.
	ts := w.Targets()
	require.Len(t, ts, 2)

	i, tg, ok := w.NearestActiveTarget(1, 0)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, 0, tg.X)

	i, _, ok = w.NearestActiveTarget(4, 0)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	require.NoError(t, w.Deactivate(0))
	i, _, ok = w.NearestActiveTarget(0, 0)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	require.NoError(t, w.Deactivate(1))
	i, _, ok = w.NearestActiveTarget(0, 0)
	assert.False(t, ok)
	assert.Equal(t, -1, i)

	assert.ErrorIs(t, w.Deactivate(2), ErrUnknownTarget)
	assert.ErrorIs(t, w.Deactivate(-1), ErrUnknownTarget)
}

func TestNearestActiveTarget_TieGoesToFirst(t *testing.T) {
	w := newTestWorld(t,
		"@ @",
		"%%%",
	)
	i, _, ok := w.NearestActiveTarget(1, 0)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestBreakBrick_OpensAndRestores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	g, err := level.ParseRows([]string{" % "})
	require.NoError(t, err)
	w, err := New(&level.Level{ID: "row", Name: "Row", Grid: g}, nav.DefaultCompiler(), zap.New(core),
		WithRestoreDelay(5*time.Second))
	require.NoError(t, err)

	far := targetAt(t, w, 2, 0)
	before := w.Field(far)
	assert.Equal(t, nav.Unreached, w.HintAt(far, 0, 0), "brick walls off the left cell")
	assert.True(t, math.IsInf(w.DistanceAt(far, 0, 0), 1))

	require.NoError(t, w.BreakBrick(1, 0, epoch))
	assert.Equal(t, level.Empty, w.Snapshot().At(1, 0))
	assert.Equal(t, 1, w.Rebuilds())
	assert.Equal(t, 1, w.PendingRestores())
	next, ok := w.NextRestore()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(5*time.Second), next)
	assert.Equal(t, nav.Right, w.HintAt(far, 0, 0))
	assert.Equal(t, 1, logs.FilterMessage("brick broken").Len())

	assert.Empty(t, w.Tick(epoch.Add(4*time.Second)))
	assert.Equal(t, 1, w.Rebuilds())

	restored := w.Tick(epoch.Add(5 * time.Second))
	assert.Equal(t, []level.Point{{X: 1, Y: 0}}, restored)
	assert.Equal(t, level.Brick, w.Snapshot().At(1, 0))
	assert.Equal(t, 2, w.Rebuilds())
	assert.Equal(t, 0, w.PendingRestores())
	_, ok = w.NextRestore()
	assert.False(t, ok)
	assert.True(t, before.Equal(w.Field(far)), "restore reverts the field")
	assert.Equal(t, 1, logs.FilterMessage("brick restored").Len())
}

func TestBreakBrick_Errors(t *testing.T) {
	w := newTestWorld(t, " % ")
	assert.ErrorIs(t, w.BreakBrick(0, 0, epoch), ErrNotBrick)
	assert.ErrorIs(t, w.BreakBrick(5, 0, epoch), ErrOutOfBounds)
	assert.Equal(t, 0, w.Rebuilds())
	assert.Equal(t, 0, w.PendingRestores())

	require.NoError(t, w.BreakBrick(1, 0, epoch))
	assert.ErrorIs(t, w.BreakBrick(1, 0, epoch), ErrNotBrick, "already open")
}

func TestApply_AllOrNothing(t *testing.T) {
	w := newTestWorld(t, "%% ")
	err := w.Apply(
		TerrainChange{X: 0, Y: 0, Before: level.Brick, After: level.Empty},
		TerrainChange{X: 2, Y: 0, Before: level.Brick, After: level.Empty},
	)
	assert.True(t, errors.Is(err, ErrStaleChange))
	assert.Equal(t, level.Brick, w.Snapshot().At(0, 0))
	assert.Equal(t, 0, w.Rebuilds())

	assert.NoError(t, w.Apply())
	assert.Equal(t, 0, w.Rebuilds())

	require.NoError(t, w.Apply(
		TerrainChange{X: 0, Y: 0, Before: level.Brick, After: level.Empty},
		TerrainChange{X: 1, Y: 0, Before: level.Brick, After: level.Ladder},
	))
	assert.Equal(t, 1, w.Rebuilds(), "one rebuild per batch")
	assert.Equal(t, level.Ladder, w.Snapshot().At(1, 0))
}

func TestTick_SkipsTileNoLongerEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g, err := level.ParseRows([]string{" % "})
	require.NoError(t, err)
	w, err := New(&level.Level{ID: "row", Name: "Row", Grid: g}, nav.DefaultCompiler(), zap.New(core))
	require.NoError(t, err)

	require.NoError(t, w.BreakBrick(1, 0, epoch))
	require.NoError(t, w.Apply(TerrainChange{X: 1, Y: 0, Before: level.Empty, After: level.Ladder}))

	assert.Empty(t, w.Tick(epoch.Add(DefaultRestoreDelay)))
	assert.Equal(t, level.Ladder, w.Snapshot().At(1, 0))
	assert.Equal(t, 1, logs.FilterMessage("brick restore skipped").Len())
}

func TestBreakBrick_ZeroDelayNeverRestores(t *testing.T) {
	g, err := level.ParseRows([]string{" % "})
	require.NoError(t, err)
	w, err := New(&level.Level{ID: "row", Name: "Row", Grid: g}, nav.DefaultCompiler(), zaptest.NewLogger(t),
		WithRestoreDelay(0))
	require.NoError(t, err)
	require.NoError(t, w.BreakBrick(1, 0, epoch))
	assert.Equal(t, 0, w.PendingRestores())
	assert.Empty(t, w.Tick(epoch.Add(time.Hour)))
}

func TestRelocate(t *testing.T) {
	w := newTestWorld(t,
		"%% ",
		"%  ",
		"%%%",
	)
	p, ok := w.Relocate(1, 1)
	require.True(t, ok)
	assert.Equal(t, level.Point{X: 2, Y: 1}, p, "above and left are brick")

	p, ok = w.Relocate(2, 1)
	require.True(t, ok)
	assert.Equal(t, level.Point{X: 2, Y: 0}, p, "above wins")

	_, ok = w.Relocate(0, 2)
	assert.False(t, ok, "boxed in")
}

func TestCollectGift(t *testing.T) {
	w := newTestWorld(t,
		" @ ",
		"%%%",
	)
	gift := targetAt(t, w, 1, 0)
	require.Equal(t, 1, w.RemainingGifts())

	require.NoError(t, w.CollectGift(1, 0))
	tg, ok := w.Target(gift)
	require.True(t, ok)
	assert.False(t, tg.Active)
	assert.Equal(t, level.Empty, w.Snapshot().At(1, 0))
	assert.Equal(t, 0, w.Rebuilds(), "collecting does not rebuild")
	assert.Equal(t, 0, w.RemainingGifts())

	assert.ErrorIs(t, w.CollectGift(1, 0), ErrNotGift)
	assert.ErrorIs(t, w.CollectGift(0, 9), ErrOutOfBounds)
}

func TestLookup(t *testing.T) {
	w := newTestWorld(t, "   ")
	cell, err := w.Lookup(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, nav.AtTarget, cell.Move)

	_, err = w.Lookup(w.TargetCount(), 0, 0)
	assert.ErrorIs(t, err, ErrUnknownTarget)
	_, err = w.Lookup(0, 3, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestCode_TracksMutations(t *testing.T) {
	w := newTestWorld(t, " % ")
	before, err := w.Code()
	require.NoError(t, err)
	require.NoError(t, w.BreakBrick(1, 0, epoch))
	after, err := w.Code()
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	g, err := level.Decode(after)
	require.NoError(t, err)
	assert.Equal(t, level.Empty, g.At(1, 0))
}

func TestCode_KeepsSpawnTiles(t *testing.T) {
	w := newTestWorld(t,
		"X  #@",
		"%%%%%",
	)
	require.NoError(t, w.BreakBrick(2, 1, epoch))
	code, err := w.Code()
	require.NoError(t, err)

	lvl, err := level.LoadLevelFromBytes([]byte("level:\n  id: shared\n  code: \"" + code + "\"\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"X  #@", "%% %%"}, lvl.Grid.Rows())
	assert.Equal(t, []string{"X  #@", "%% %%"}, w.Board().Rows())

	// The traversal grid itself stays clear of agents.
	assert.Equal(t, level.Empty, w.Snapshot().At(0, 0))
	assert.Equal(t, level.Empty, w.Snapshot().At(3, 0))
}

func TestWorld_ReadersNeverSeeHalfBuiltFields(t *testing.T) {
	w := newTestWorld(t,
		"  H    ",
		"%%H%%%%",
		"  H  - ",
		"%%%%%%%",
	)
	targets := w.Targets()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for i, tg := range targets {
					f := w.Field(i)
					if f.Move(tg.X, tg.Y) != nav.AtTarget {
						t.Errorf("target %d lost its own cell", i)
						return
					}
				}
			}
		}()
	}

	now := epoch
	for i := 0; i < 20; i++ {
		x := 3 + i%4
		require.NoError(t, w.BreakBrick(x, 1, now))
		now = now.Add(DefaultRestoreDelay)
		w.Tick(now)
	}
	close(stop)
	wg.Wait()
	assert.Equal(t, 0, w.PendingRestores())
}

func TestPropertyBreakThenRestoreRevertsFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wdt := rapid.IntRange(1, 6).Draw(t, "w")
		hgt := rapid.IntRange(1, 5).Draw(t, "h")
		kinds := []level.Kind{level.Empty, level.Brick, level.Brick, level.Ladder, level.Rope}
		g := level.NewGrid(wdt, hgt)
		for y := 0; y < hgt; y++ {
			for x := 0; x < wdt; x++ {
				g.Set(x, y, kinds[rapid.IntRange(0, len(kinds)-1).Draw(t, "k")])
			}
		}
		b := level.Point{
			X: rapid.IntRange(0, wdt-1).Draw(t, "bx"),
			Y: rapid.IntRange(0, hgt-1).Draw(t, "by"),
		}
		g.Set(b.X, b.Y, level.Brick)

		w, err := New(&level.Level{ID: "p", Name: "P", Grid: g}, nav.DefaultCompiler(), zap.NewNop())
		require.NoError(t, err)
		before := make(nav.FieldSet, w.TargetCount())
		for i := range before {
			before[i] = w.Field(i)
		}

		require.NoError(t, w.BreakBrick(b.X, b.Y, epoch))
		restored := w.Tick(epoch.Add(DefaultRestoreDelay))
		require.Equal(t, []level.Point{b}, restored)

		for i := range before {
			assert.True(t, before[i].Equal(w.Field(i)), "target %d", i)
		}
		assert.True(t, g.Equal(w.Snapshot()))
	})
}
