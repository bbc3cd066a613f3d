package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// globalLevelID is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when a level has none of its own.
const globalLevelID = "__global__"

// PursuerGoalHook is the Lua global consulted for a pursuer's independent goal.
const PursuerGoalHook = "pursuer_goal"

// TargetInfo is a snapshot of one target passed to Lua.
type TargetInfo struct {
	X, Y   int
	Kind   string
	Active bool
}

// vm is one loaded LState. LStates are single-threaded, so every entry into
// L goes through mu. level is the level the current call runs for; engine.*
// callbacks read it.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel context.CancelFunc
	limit  int
	level  string
	closed bool
}

// Manager owns one sandboxed VM per level plus an optional shared VM.
//
// Manager is safe for concurrent CallHook after loading completes.
// Calls into the same VM serialize; different VMs run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* functions.
	// Target indices are 0-based here and 1-based in Lua.
	TargetCount   func(levelID string) int
	GetTarget     func(levelID string, ti int) *TargetInfo
	NearestTarget func(levelID string, x, y int) (int, bool)
	Hint          func(levelID string, ti, x, y int) (string, bool)
	Distance      func(levelID string, ti, x, y int) (float64, bool)
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		vms:    make(map[string]*vm),
		logger: logger,
	}
}

// LoadLevel creates a sandboxed VM for levelID, registers the engine module,
// then executes every *.lua file in scriptDir in lexicographic order.
// Loading again replaces the previous VM.
//
// Precondition: levelID must be non-empty; scriptDir must be a readable directory.
// Postcondition: the level VM is registered; returns error on Lua load failure.
func (m *Manager) LoadLevel(levelID, scriptDir string, instLimit int) error {
	return m.loadInto(levelID, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM consulted by CallHook for levels without
// scripts of their own.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: the shared VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalLevelID, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	v := &vm{L: L, cancel: cancel, limit: effectiveLimit(instLimit), level: key}
	m.registerModules(v)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		v.close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			v.close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = v
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripts loaded",
		zap.String("level_id", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

func (v *vm) close() {
	v.cancel()
	v.L.Close()
	v.closed = true
}

// HasLevel reports whether CallHook would find a VM for levelID, its own or
// the shared one.
func (m *Manager) HasLevel(levelID string) bool {
	return m.lookup(levelID) != nil
}

func (m *Manager) lookup(levelID string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[levelID]; ok {
		return v
	}
	return m.vms[globalLevelID]
}

// CallHook calls the named Lua global function in levelID's VM, falling back
// to the shared VM. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors, the instruction limit included, are logged at
// Warn and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(levelID, hook string, args ...lua.LValue) (lua.LValue, error) {
	v := m.lookup(levelID)
	if v == nil {
		m.logger.Info("scripting: no VM for level",
			zap.String("level_id", levelID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return lua.LNil, nil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	// Every call gets a fresh opcode budget.
	ctx, cancel := newCountingContext(v.limit)
	defer cancel()
	v.L.SetContext(ctx)
	v.level = levelID

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("level_id", levelID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// PursuerGoal asks the level's pursuer_goal hook for a target index. The
// hook receives the pursuer's id and tile and the avatar's tile, and returns
// a 1-based target index; any non-number return means no independent goal.
//
// Postcondition: Returns a 0-based index and true, or (-1, false).
func (m *Manager) PursuerGoal(levelID, agentID string, x, y, ax, ay int) (int, bool) {
	if !m.HasLevel(levelID) {
		return -1, false
	}
	ret, err := m.CallHook(levelID, PursuerGoalHook,
		lua.LString(agentID),
		lua.LNumber(x), lua.LNumber(y),
		lua.LNumber(ax), lua.LNumber(ay),
	)
	if err != nil {
		return -1, false
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return -1, false
	}
	return int(n) - 1, true
}

// Close shuts down every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.close()
		v.mu.Unlock()
	}
}
