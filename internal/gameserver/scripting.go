package gameserver

import (
	"math"

	"github.com/cory-johannsen/giftrun/internal/game/world"
	"github.com/cory-johannsen/giftrun/internal/scripting"
)

// queryable reports whether ti and (x, y) address a cell of w's fields.
func queryable(w *world.World, ti, x, y int) bool {
	return ti >= 0 && ti < w.TargetCount() && w.InBounds(x, y)
}

// WireScripting points the engine.* query callbacks of mgr at the games in
// reg. Queries about unknown levels, targets or tiles report nothing.
func WireScripting(mgr *scripting.Manager, reg *Registry) {
	mgr.TargetCount = func(levelID string) int {
		g, err := reg.Get(levelID)
		if err != nil {
			return 0
		}
		return g.World().TargetCount()
	}
	mgr.GetTarget = func(levelID string, ti int) *scripting.TargetInfo {
		g, err := reg.Get(levelID)
		if err != nil {
			return nil
		}
		t, ok := g.World().Target(ti)
		if !ok {
			return nil
		}
		return &scripting.TargetInfo{X: t.X, Y: t.Y, Kind: t.Kind.String(), Active: t.Active}
	}
	mgr.NearestTarget = func(levelID string, x, y int) (int, bool) {
		g, err := reg.Get(levelID)
		if err != nil {
			return 0, false
		}
		ti, _, ok := g.World().NearestActiveTarget(x, y)
		return ti, ok
	}
	mgr.Hint = func(levelID string, ti, x, y int) (string, bool) {
		g, err := reg.Get(levelID)
		if err != nil {
			return "", false
		}
		w := g.World()
		if !queryable(w, ti, x, y) {
			return "", false
		}
		return w.HintAt(ti, x, y).String(), true
	}
	mgr.Distance = func(levelID string, ti, x, y int) (float64, bool) {
		g, err := reg.Get(levelID)
		if err != nil {
			return 0, false
		}
		w := g.World()
		if !queryable(w, ti, x, y) {
			return 0, false
		}
		d := w.DistanceAt(ti, x, y)
		if math.IsInf(d, 1) {
			return 0, false
		}
		return d, true
	}
}
