package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/giftrun/internal/game/level"
)

func compileOne(t testing.TB, c *Compiler, g *level.Grid, x, y int) *Field {
	t.Helper()
	fs := c.Compile(g, []Target{{X: x, Y: y, Active: true}})
	require.Len(t, fs, 1)
	return fs[0]
}

func TestCompile_LadderAboveHole(t *testing.T) {
	g := grid(t,
		"%H%",
		"% %",
		"%%%",
	)
	f := compileOne(t, DefaultCompiler(), g, 1, 1)

	assert.Equal(t, AtTarget, f.Move(1, 1))
	assert.Equal(t, 0.0, f.Distance(1, 1))

	assert.Equal(t, Fall, f.Move(1, 0), "nothing to grip below the ladder top")
	assert.InDelta(t, DefaultFallCost, f.Distance(1, 0), 1e-9)

	assert.Equal(t, Right, f.Move(0, 0))
	assert.InDelta(t, DefaultStepCost+DefaultFallCost, f.Distance(0, 0), 1e-9)
}

func TestCompile_DownRequiresGrip(t *testing.T) {
	rope := compileOne(t, DefaultCompiler(), grid(t, "-", " "), 0, 1)
	assert.Equal(t, Down, rope.Move(0, 0), "dropping off a rope")
	assert.InDelta(t, DefaultFallCost, rope.Distance(0, 0), 1e-9)

	ladder := compileOne(t, DefaultCompiler(), grid(t, "H", "H"), 0, 1)
	assert.Equal(t, Down, ladder.Move(0, 0))
	assert.InDelta(t, DefaultStepCost, ladder.Distance(0, 0), 1e-9)

	brick := compileOne(t, DefaultCompiler(), grid(t, " ", "%"), 0, 1)
	assert.Equal(t, Fall, brick.Move(0, 0), "breaking through is recorded as a fall")
	assert.InDelta(t, float64(DefaultBrickCost), brick.Distance(0, 0), 1e-9)
}

func TestCompile_ClimbUp(t *testing.T) {
	g := grid(t,
		"  ",
		"H%",
		"H ",
	)
	f := compileOne(t, DefaultCompiler(), g, 1, 0)
	assert.Equal(t, Up, f.Move(0, 2))
	assert.Equal(t, Up, f.Move(0, 1))
	assert.Equal(t, Right, f.Move(0, 0))
	assert.InDelta(t, 3.0, f.Distance(0, 2), 1e-9)
}

func TestCompile_UnreachableStaysUnreached(t *testing.T) {
	f := compileOne(t, DefaultCompiler(), grid(t, " % "), 2, 0)
	assert.Equal(t, Unreached, f.Move(0, 0))
	assert.True(t, math.IsInf(f.Distance(0, 0), 1))
	assert.Equal(t, Right, f.Move(1, 0))
	assert.Equal(t, 2, f.ReachableCount())
}

func TestCompile_TopRowLadder(t *testing.T) {
	// A ladder on the top row must not produce a step off the board.
	g := grid(t,
		"H ",
		"H ",
	)
	f := compileOne(t, DefaultCompiler(), g, 1, 1)
	assert.Equal(t, Right, f.Move(0, 1))
	assert.True(t, f.Resolved(0, 0))
}

func TestCompile_RebuildResetsFields(t *testing.T) {
	g := grid(t,
		"   ",
		"% %",
		"   ",
	)
	c := DefaultCompiler()
	fs := c.Compile(g, []Target{{X: 0, Y: 2, Active: true}})
	before := fs[0].String()

	g.Set(1, 1, level.Brick)
	c.Rebuild(g, fs)
	assert.NotEqual(t, before, fs[0].String())

	g.Set(1, 1, level.Empty)
	c.Rebuild(g, fs)
	assert.Equal(t, before, fs[0].String())
}

func TestNewCompiler_Validation(t *testing.T) {
	_, err := NewCompiler(DefaultCosts(), "fastest")
	assert.Error(t, err)

	_, err = NewCompiler(Costs{Step: 1, Fall: 1, Brick: 48}, StrategyReference)
	assert.Error(t, err, "fall must be cheaper than a step")

	_, err = NewCompiler(Costs{Step: 1, Fall: 0.5, Brick: 1}, StrategyReference)
	assert.Error(t, err, "brick must cost more than a step")

	_, err = NewCompiler(Costs{Step: 0, Fall: 0.5, Brick: 48}, StrategyReference)
	assert.Error(t, err)

	c, err := NewCompiler(DefaultCosts(), StrategyOptimal)
	require.NoError(t, err)
	assert.Equal(t, StrategyOptimal, c.Strategy())
	assert.Equal(t, DefaultCosts(), c.Costs())
}

// drawGrid generates a small random board.
func drawGrid(t *rapid.T) *level.Grid {
	w := rapid.IntRange(1, 8).Draw(t, "w")
	h := rapid.IntRange(1, 7).Draw(t, "h")
	kinds := []level.Kind{level.Empty, level.Empty, level.Brick, level.Brick, level.Ladder, level.Rope, level.Gift}
	g := level.NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, kinds[rapid.IntRange(0, len(kinds)-1).Draw(t, "k")])
		}
	}
	return g
}

// reachableTo returns the cells with some path to (tx, ty) under the
// movement rules, found by walking edges backward from the target.
func reachableTo(g *level.Grid, tx, ty int) []bool {
	caps := NewCapabilities(g)
	w, h := g.Width(), g.Height()
	rev := make([][]int, w*h)
	var buf []edge
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf = edges(caps, DefaultCosts(), x, y, buf)
			for _, e := range buf {
				rev[e.y*w+e.x] = append(rev[e.y*w+e.x], y*w+x)
			}
		}
	}
	seen := make([]bool, w*h)
	queue := []int{ty*w + tx}
	seen[ty*w+tx] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range rev[cur] {
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
	}
	return seen
}

func checkFieldProperties(t *rapid.T, g *level.Grid, ts []Target, fs FieldSet) {
	w, h := g.Width(), g.Height()
	require.Len(t, fs, len(ts))
	for i, tg := range ts {
		f := fs[i]

		// Self-resolution.
		assert.Equal(t, AtTarget, f.Move(tg.X, tg.Y))
		assert.Equal(t, 0.0, f.Distance(tg.X, tg.Y))

		// Reachability closure.
		reach := reachableTo(g, tg.X, tg.Y)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				assert.Equal(t, reach[y*w+x], f.Resolved(x, y), "target %d cell (%d,%d)", i, x, y)
				if !f.Resolved(x, y) {
					assert.True(t, math.IsInf(f.Distance(x, y), 1))
				}
			}
		}

		// Monotonic progress.
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !f.Resolved(x, y) {
					continue
				}
				cx, cy := x, y
				for steps := 0; f.Move(cx, cy) != AtTarget; steps++ {
					require.Less(t, steps, w*h, "hint chain from (%d,%d) does not terminate", x, y)
					dx, dy := f.Move(cx, cy).Delta()
					nx, ny := cx+dx, cy+dy
					require.True(t, g.InBounds(nx, ny))
					require.True(t, f.Resolved(nx, ny))
					require.Less(t, f.Distance(nx, ny), f.Distance(cx, cy))
					cx, cy = nx, ny
				}
				assert.Equal(t, tg.X, cx)
				assert.Equal(t, tg.Y, cy)
			}
		}
	}
}

// The reference strategy keeps the first chain found through a cell even
// when a cheaper route exists; these values pin that scan-order behavior.
func TestCompile_ReferenceKeepsFirstChain(t *testing.T) {
	g := grid(t,
		"- H ",
		" % %",
		" % %",
		"H-  ",
	)
	ref := compileOne(t, DefaultCompiler(), g, 3, 3)
	assert.Equal(t, Down, ref.Move(0, 0))
	assert.InDelta(t, 5.8, ref.Distance(0, 0), 1e-9)
	assert.Equal(t, Right, ref.Move(1, 3))
	assert.InDelta(t, 2.0, ref.Distance(1, 3), 1e-9)
	assert.Equal(t, Right, ref.Move(2, 3))
	assert.InDelta(t, 1.0, ref.Distance(2, 3), 1e-9)

	optimal, err := NewCompiler(DefaultCosts(), StrategyOptimal)
	require.NoError(t, err)
	best := compileOne(t, optimal, g, 3, 3)
	assert.Equal(t, Right, best.Move(0, 0))
	assert.InDelta(t, 5.7, best.Distance(0, 0), 1e-9)
	assert.False(t, ref.Equal(best))
}

func TestPropertyReferenceFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGrid(t)
		ts := DiscoverTargets(g)
		checkFieldProperties(t, g, ts, DefaultCompiler().Compile(g, ts))
	})
}

func TestPropertyOptimalFields(t *testing.T) {
	opt, err := NewCompiler(DefaultCosts(), StrategyOptimal)
	require.NoError(t, err)
	rapid.Check(t, func(t *rapid.T) {
		g := drawGrid(t)
		ts := DiscoverTargets(g)
		checkFieldProperties(t, g, ts, opt.Compile(g, ts))
	})
}

func TestPropertyOptimalNeverCostsMore(t *testing.T) {
	opt, err := NewCompiler(DefaultCosts(), StrategyOptimal)
	require.NoError(t, err)
	rapid.Check(t, func(t *rapid.T) {
		g := drawGrid(t)
		ts := DiscoverTargets(g)
		ref := DefaultCompiler().Compile(g, ts)
		best := opt.Compile(g, ts)
		for i := range ts {
			for y := 0; y < g.Height(); y++ {
				for x := 0; x < g.Width(); x++ {
					if !ref[i].Resolved(x, y) {
						continue
					}
					assert.LessOrEqual(t, best[i].Distance(x, y), ref[i].Distance(x, y)+1e-9)
				}
			}
		}
	})
}

func TestPropertyCompileIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := drawGrid(t)
		ts := DiscoverTargets(g)
		a := DefaultCompiler().Compile(g, ts)
		b := DefaultCompiler().Compile(g.Clone(), ts)
		for i := range a {
			assert.True(t, a[i].Equal(b[i]))
		}
	})
}
