package agent

import (
	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/nav"
)

// GoalSource records how a pursuer chose its goal.
type GoalSource int

const (
	// GoalNone means no goal was available.
	GoalNone GoalSource = iota
	// GoalScripted came from the GoalProvider.
	GoalScripted
	// GoalThroughAvatar is a target whose hint path crosses the avatar.
	GoalThroughAvatar
	// GoalAvatarNearest is the avatar's nearest active target.
	GoalAvatarNearest
)

func (s GoalSource) String() string {
	switch s {
	case GoalScripted:
		return "scripted"
	case GoalThroughAvatar:
		return "through-avatar"
	case GoalAvatarNearest:
		return "avatar-nearest"
	default:
		return "none"
	}
}

// Decision is the full outcome of one pursuer decision.
type Decision struct {
	Goal   int
	Source GoalSource
	Move   nav.Move
	Intent Intent
}

// Pursuer is a non-player agent that chases the avatar by following hint
// fields.
type Pursuer struct {
	Body
	avatar *Avatar
	goals  GoalProvider
}

// NewPursuer places a new pursuer at spawn, chasing avatar. goals may be nil.
//
// Precondition: avatar must not be nil.
func NewPursuer(spawn level.Point, avatar *Avatar, goals GoalProvider) *Pursuer {
	if avatar == nil {
		panic("agent.NewPursuer: avatar must not be nil")
	}
	return &Pursuer{Body: NewBody(spawn), avatar: avatar, goals: goals}
}

// Decide returns the pursuer's intent for this tick.
func (p *Pursuer) Decide(n Navigator) Intent {
	return p.Plan(n).Intent
}

// Plan chooses a goal and the hint toward it. A pursuer already on the
// avatar's tile does nothing.
//
// Goal selection, first match wins: the GoalProvider's answer; the target
// whose hint path from here passes the avatar within 2W+2H steps and has the
// smallest distance from here; the avatar's nearest active target.
func (p *Pursuer) Plan(n Navigator) Decision {
	ap := p.avatar.Position()
	if p.pos == ap {
		return Decision{Goal: -1}
	}

	goal, src := p.chooseGoal(n, ap)
	if src == GoalNone {
		return Decision{Goal: -1}
	}
	m := n.Field(goal).Move(p.pos.X, p.pos.Y)
	return Decision{Goal: goal, Source: src, Move: m, Intent: IntentFor(m)}
}

func (p *Pursuer) chooseGoal(n Navigator, ap level.Point) (int, GoalSource) {
	count := n.TargetCount()
	if p.goals != nil {
		if ti, ok := p.goals.PursuerGoal(n.LevelID(), p.id, p.pos.X, p.pos.Y, ap.X, ap.Y); ok && ti >= 0 && ti < count {
			return ti, GoalScripted
		}
	}

	w, h := n.Size()
	limit := 2*w + 2*h
	best, bestDist := -1, 0.0
	for ti := 0; ti < count; ti++ {
		f := n.Field(ti)
		if !passesThrough(f, p.pos, ap, limit) {
			continue
		}
		if d := f.Distance(p.pos.X, p.pos.Y); best < 0 || d < bestDist {
			best, bestDist = ti, d
		}
	}
	if best >= 0 {
		return best, GoalThroughAvatar
	}

	if ti, ok := p.avatar.NearestTarget(n); ok {
		return ti, GoalAvatarNearest
	}
	return -1, GoalNone
}

// passesThrough follows f's hints from start for at most limit steps and
// reports whether the walk visits via.
func passesThrough(f *nav.Field, start, via level.Point, limit int) bool {
	x, y := start.X, start.Y
	for i := 0; i < limit; i++ {
		if x == via.X && y == via.Y {
			return true
		}
		m := f.Move(x, y)
		if m == nav.Unreached || m == nav.AtTarget {
			return false
		}
		dx, dy := m.Delta()
		x, y = x+dx, y+dy
	}
	return false
}
