package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine global into v's LState:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.target_count()          -> n
//	engine.target(i)               -> x, y, active, kind   (nil if unknown)
//	engine.nearest_target(x, y)    -> i                    (nil if none)
//	engine.hint(i, x, y)           -> move symbol          (nil if unknown)
//	engine.distance(i, x, y)       -> cost                 (nil if unknown)
//
// Target indices are 1-based.
func (m *Manager) registerModules(v *vm) {
	L := v.L
	engine := L.NewTable()

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("level_id", v.level), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "target_count", L.NewFunction(func(L *lua.LState) int {
		n := 0
		if m.TargetCount != nil {
			n = m.TargetCount(v.level)
		}
		L.Push(lua.LNumber(n))
		return 1
	}))

	L.SetField(engine, "target", L.NewFunction(func(L *lua.LState) int {
		ti := L.CheckInt(1) - 1
		if m.GetTarget == nil {
			L.Push(lua.LNil)
			return 1
		}
		t := m.GetTarget(v.level, ti)
		if t == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(t.X))
		L.Push(lua.LNumber(t.Y))
		L.Push(lua.LBool(t.Active))
		L.Push(lua.LString(t.Kind))
		return 4
	}))

	L.SetField(engine, "nearest_target", L.NewFunction(func(L *lua.LState) int {
		x, y := L.CheckInt(1), L.CheckInt(2)
		if m.NearestTarget == nil {
			L.Push(lua.LNil)
			return 1
		}
		ti, ok := m.NearestTarget(v.level, x, y)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(ti + 1))
		return 1
	}))

	L.SetField(engine, "hint", L.NewFunction(func(L *lua.LState) int {
		ti, x, y := L.CheckInt(1)-1, L.CheckInt(2), L.CheckInt(3)
		if m.Hint == nil {
			L.Push(lua.LNil)
			return 1
		}
		sym, ok := m.Hint(v.level, ti, x, y)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(sym))
		return 1
	}))

	L.SetField(engine, "distance", L.NewFunction(func(L *lua.LState) int {
		ti, x, y := L.CheckInt(1)-1, L.CheckInt(2), L.CheckInt(3)
		if m.Distance == nil {
			L.Push(lua.LNil)
			return 1
		}
		d, ok := m.Distance(v.level, ti, x, y)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(d))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
