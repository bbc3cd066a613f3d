// Package gameserver runs loaded levels: it ticks each Game and serves the
// navigation queries over gRPC.
package gameserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/giftrun/internal/game/agent"
	"github.com/cory-johannsen/giftrun/internal/game/level"
	"github.com/cory-johannsen/giftrun/internal/game/world"
)

var (
	// ErrUnknownLevel is returned when no game runs the requested level.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrUnknownAgent is returned when no agent has the requested id.
	ErrUnknownAgent = errors.New("unknown agent")
)

// Relocation records an agent pushed out of a restored brick.
type Relocation struct {
	AgentID string
	From    level.Point
	To      level.Point
}

// TickReport summarizes what one Tick changed.
type TickReport struct {
	Restored  []level.Point
	Relocated []Relocation
	Broken    []level.Point
	Collected []level.Point
	Decisions map[string]agent.Decision
}

// Game is one running level: the world, the avatar and its pursuers.
//
// All methods are safe for concurrent use; agent state is guarded by mu.
type Game struct {
	world  *world.World
	logger *zap.Logger

	mu        sync.Mutex
	avatar    *agent.Avatar
	pursuers  []*agent.Pursuer
	decisions map[string]agent.Decision
}

// NewGame places the avatar and one pursuer per spawn point of w. goals may
// be nil.
//
// Precondition: w and logger must not be nil.
// Postcondition: Returns a Game with no decisions made yet.
func NewGame(w *world.World, goals agent.GoalProvider, logger *zap.Logger) *Game {
	avatar := agent.NewAvatar(w.AvatarSpawn())
	spawns := w.PursuerSpawns()
	pursuers := make([]*agent.Pursuer, len(spawns))
	for i, p := range spawns {
		pursuers[i] = agent.NewPursuer(p, avatar, goals)
	}
	return &Game{
		world:     w,
		logger:    logger.With(zap.String("level_id", w.LevelID())),
		avatar:    avatar,
		pursuers:  pursuers,
		decisions: make(map[string]agent.Decision),
	}
}

// World returns the game's world.
func (g *Game) World() *world.World { return g.world }

// AvatarID returns the avatar's id.
func (g *Game) AvatarID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.avatar.ID()
}

// AgentState is a snapshot of one agent.
type AgentState struct {
	ID       string
	Avatar   bool
	Position level.Point
	Intent   agent.Intent
	Decision agent.Decision
}

// Agents returns a snapshot of every agent, avatar first. Pursuer intents
// are those of the last Tick.
func (g *Game) Agents() []AgentState {
	g.mu.Lock()
	defer g.mu.Unlock()
	all := g.agents()
	out := make([]AgentState, len(all))
	for i, a := range all {
		out[i] = g.stateOf(a)
	}
	return out
}

// Agent returns the snapshot of agent id.
func (g *Game) Agent(id string) (AgentState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.find(id)
	if !ok {
		return AgentState{}, false
	}
	return g.stateOf(a), true
}

// stateOf snapshots a.
//
// Precondition: caller holds g.mu.
func (g *Game) stateOf(a agent.Agent) AgentState {
	if a == agent.Agent(g.avatar) {
		cmd := g.avatar.Decide(g.world)
		return AgentState{
			ID:       a.ID(),
			Avatar:   true,
			Position: a.Position(),
			Intent:   cmd,
			Decision: agent.Decision{Goal: -1, Intent: cmd},
		}
	}
	d, ok := g.decisions[a.ID()]
	if !ok {
		d = agent.Decision{Goal: -1}
	}
	return AgentState{ID: a.ID(), Position: a.Position(), Intent: d.Intent, Decision: d}
}

func (g *Game) agents() []agent.Agent {
	out := make([]agent.Agent, 0, 1+len(g.pursuers))
	out = append(out, g.avatar)
	for _, p := range g.pursuers {
		out = append(out, p)
	}
	return out
}

func (g *Game) find(id string) (agent.Agent, bool) {
	for _, a := range g.agents() {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// Command replaces the avatar's intent. Break requests are carried out on
// the next Tick and then cleared.
func (g *Game) Command(i agent.Intent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.avatar.Command(i)
}

// MoveAgent places agent id on (x, y). The avatar collects any gift there.
//
// Postcondition: Returns ErrUnknownAgent or world.ErrOutOfBounds without
// moving anything.
func (g *Game) MoveAgent(id string, x, y int) error {
	if !g.world.InBounds(x, y) {
		return fmt.Errorf("move to (%d,%d): %w", x, y, world.ErrOutOfBounds)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.find(id)
	if !ok {
		return fmt.Errorf("agent %q: %w", id, ErrUnknownAgent)
	}
	a.MoveTo(x, y)
	if a == agent.Agent(g.avatar) {
		g.collectUnderAvatar(nil)
	}
	return nil
}

// BreakBrick opens the brick at (x, y), independent of where the avatar
// stands.
func (g *Game) BreakBrick(x, y int, now time.Time) error {
	return g.world.BreakBrick(x, y, now)
}

// Reset returns every agent to its spawn tile and forgets past decisions.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, a := range g.agents() {
		a.Reset()
	}
	clear(g.decisions)
}

// Tick advances the game to now: due bricks are restored and anyone inside
// them is moved out, the avatar's break requests are carried out, the avatar
// collects the gift it stands on, and every pursuer decides its next intent.
func (g *Game) Tick(now time.Time) TickReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	var r TickReport
	r.Restored = g.world.Tick(now)
	for _, p := range r.Restored {
		for _, a := range g.agents() {
			if a.Position() != p {
				continue
			}
			to, ok := g.world.Relocate(p.X, p.Y)
			if !ok {
				g.logger.Warn("agent trapped in restored brick",
					zap.String("agent", a.ID()),
					zap.Stringer("at", p),
				)
				continue
			}
			a.MoveTo(to.X, to.Y)
			r.Relocated = append(r.Relocated, Relocation{AgentID: a.ID(), From: p, To: to})
		}
	}

	g.breakForAvatar(now, &r)
	g.collectUnderAvatar(&r)

	r.Decisions = make(map[string]agent.Decision, len(g.pursuers))
	for _, p := range g.pursuers {
		d := p.Plan(g.world)
		g.decisions[p.ID()] = d
		r.Decisions[p.ID()] = d
	}
	return r
}

// breakForAvatar carries out the avatar's break requests against the
// bricks diagonally below it.
//
// Precondition: caller holds g.mu.
func (g *Game) breakForAvatar(now time.Time, r *TickReport) {
	cmd := g.avatar.Decide(g.world)
	if !cmd.BreakLeft && !cmd.BreakRight {
		return
	}
	pos := g.avatar.Position()
	caps := g.world.Capabilities()
	type request struct {
		want bool
		can  func(x, y int) bool
		dx   int
	}
	for _, req := range []request{
		{cmd.BreakLeft, caps.CanBreakLeft, -1},
		{cmd.BreakRight, caps.CanBreakRight, 1},
	} {
		if !req.want || !req.can(pos.X, pos.Y) {
			continue
		}
		at := level.Point{X: pos.X + req.dx, Y: pos.Y + 1}
		if err := g.world.BreakBrick(at.X, at.Y, now); err != nil {
			g.logger.Debug("avatar break refused", zap.Stringer("at", at), zap.Error(err))
			continue
		}
		r.Broken = append(r.Broken, at)
	}
	cmd.BreakLeft, cmd.BreakRight = false, false
	g.avatar.Command(cmd)
}

// collectUnderAvatar collects the gift on the avatar's tile, if any. r may
// be nil.
//
// Precondition: caller holds g.mu.
func (g *Game) collectUnderAvatar(r *TickReport) {
	pos := g.avatar.Position()
	k, err := g.world.KindAt(pos.X, pos.Y)
	if err != nil || k != level.Gift {
		return
	}
	if err := g.world.CollectGift(pos.X, pos.Y); err != nil {
		return
	}
	if r != nil {
		r.Collected = append(r.Collected, pos)
	}
	if g.world.RemainingGifts() == 0 {
		g.logger.Info("all gifts collected")
	}
}
