package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/giftrun/internal/game/agent"
	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
	"github.com/cory-johannsen/giftrun/internal/game/world"
)

var (
	_ agent.Agent     = (*agent.Avatar)(nil)
	_ agent.Agent     = (*agent.Pursuer)(nil)
	_ agent.Navigator = (*world.World)(nil)
)

func newWorld(t *testing.T, rows ...string) *world.World {
	t.Helper()
	g, err := level.ParseRows(rows)
	require.NoError(t, err)
	w, err := world.New(&level.Level{ID: "chase", Name: "Chase", Grid: g}, nav.DefaultCompiler(), zap.NewNop())
	require.NoError(t, err)
	return w
}

// spawned places an avatar and one pursuer where the level marks them.
func spawned(w *world.World, goals agent.GoalProvider) (*agent.Avatar, *agent.Pursuer) {
	a := agent.NewAvatar(w.AvatarSpawn())
	p := agent.NewPursuer(w.PursuerSpawns()[0], a, goals)
	return a, p
}

type fixedGoal struct {
	ti    int
	ok    bool
	calls int
}

func (f *fixedGoal) PursuerGoal(levelID, agentID string, x, y, ax, ay int) (int, bool) {
	f.calls++
	return f.ti, f.ok
}

func TestIntentFor(t *testing.T) {
	assert.Equal(t, agent.Intent{Left: true}, agent.IntentFor(nav.Left))
	assert.Equal(t, agent.Intent{Right: true}, agent.IntentFor(nav.Right))
	assert.Equal(t, agent.Intent{Up: true}, agent.IntentFor(nav.Up))
	assert.Equal(t, agent.Intent{Down: true}, agent.IntentFor(nav.Down))
	for _, m := range []nav.Move{nav.Fall, nav.AtTarget, nav.Unreached} {
		assert.True(t, agent.IntentFor(m).IsZero(), m.String())
	}
}

func TestIntent_String(t *testing.T) {
	assert.Equal(t, "idle", agent.Intent{}.String())
	assert.Equal(t, "left+break-right", agent.Intent{Left: true, BreakRight: true}.String())
}

func TestBody_MoveAndReset(t *testing.T) {
	a := agent.NewAvatar(level.Point{X: 2, Y: 3})
	b := agent.NewAvatar(level.Point{X: 2, Y: 3})
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())

	a.MoveTo(5, 1)
	a.Command(agent.Intent{Left: true})
	assert.Equal(t, level.Point{X: 5, Y: 1}, a.Position())
	assert.Equal(t, agent.Intent{Left: true}, a.Decide(nil))

	a.Reset()
	assert.Equal(t, level.Point{X: 2, Y: 3}, a.Position())
	assert.True(t, a.Decide(nil).IsZero())
}

func TestPursuer_FollowsPathThroughAvatar(t *testing.T) {
	w := newWorld(t, "#   X  ")
	_, p := spawned(w, nil)

	d := p.Plan(w)
	assert.Equal(t, agent.GoalThroughAvatar, d.Source)
	tg, ok := w.Target(d.Goal)
	require.True(t, ok)
	assert.Equal(t, 6, tg.X)
	assert.Equal(t, nav.Right, d.Move)
	assert.Equal(t, agent.Intent{Right: true}, p.Decide(w))
}

func TestPursuer_PrefersClosestTargetThroughAvatar(t *testing.T) {
	w := newWorld(t, "#   X @ @")
	_, p := spawned(w, nil)

	d := p.Plan(w)
	assert.Equal(t, agent.GoalThroughAvatar, d.Source)
	tg, ok := w.Target(d.Goal)
	require.True(t, ok)
	assert.Equal(t, 6, tg.X, "the nearer gift beyond the avatar")
}

func TestPursuer_FallsBackToAvatarNearest(t *testing.T) {
	w := newWorld(t, "#  %X ")
	a, p := spawned(w, nil)

	want, ok := a.NearestTarget(w)
	require.True(t, ok)

	d := p.Plan(w)
	assert.Equal(t, agent.GoalAvatarNearest, d.Source)
	assert.Equal(t, want, d.Goal)
	assert.Equal(t, nav.Unreached, d.Move, "brick walls the pursuer off")
	assert.True(t, d.Intent.IsZero())
}

func TestPursuer_IdleOnAvatarTile(t *testing.T) {
	w := newWorld(t, "#   X  ")
	a, p := spawned(w, nil)
	p.MoveTo(a.Position().X, a.Position().Y)

	d := p.Plan(w)
	assert.Equal(t, agent.GoalNone, d.Source)
	assert.Equal(t, -1, d.Goal)
	assert.True(t, d.Intent.IsZero())
}

func TestPursuer_ScriptedGoal(t *testing.T) {
	w := newWorld(t, "#   X  ")
	goals := &fixedGoal{ti: 0, ok: true}
	_, p := spawned(w, goals)

	// Target 0 is the pursuer's own tile.
	d := p.Plan(w)
	assert.Equal(t, agent.GoalScripted, d.Source)
	assert.Equal(t, 0, d.Goal)
	assert.Equal(t, nav.AtTarget, d.Move)
	assert.True(t, d.Intent.IsZero())
	assert.Equal(t, 1, goals.calls)

	goals.ti = 99
	assert.Equal(t, agent.GoalThroughAvatar, p.Plan(w).Source, "out-of-range goal is ignored")

	goals.ti, goals.ok = 0, false
	assert.Equal(t, agent.GoalThroughAvatar, p.Plan(w).Source)
}

func TestPursuer_NoActiveTargets(t *testing.T) {
	w := newWorld(t, "#%X")
	// The pursuer is boxed off; deactivate everything so no fallback exists.
	for i := 0; i < w.TargetCount(); i++ {
		require.NoError(t, w.Deactivate(i))
	}
	_, p := spawned(w, nil)
	d := p.Plan(w)
	assert.Equal(t, agent.GoalNone, d.Source)
	assert.True(t, d.Intent.IsZero())
}

func TestNewPursuer_NilAvatarPanics(t *testing.T) {
	assert.Panics(t, func() { agent.NewPursuer(level.Point{}, nil, nil) })
}

func TestGoalSource_String(t *testing.T) {
	assert.Equal(t, "scripted", agent.GoalScripted.String())
	assert.Equal(t, "none", agent.GoalSource(42).String())
}
