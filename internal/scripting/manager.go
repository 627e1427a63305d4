package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// Manager owns the shared condition-script VM and dispatches hooks against
// one resistance set at a time.
//
// Manager is safe for concurrent RunResistanceHook calls; they are serialised
// on the single VM.
type Manager struct {
	mu        sync.Mutex
	L         *lua.LState
	cancel    func()
	instLimit int
	logger    *zap.Logger

	// target is the set bound to engine.resistance for the running hook.
	target *resistance.Set
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = DefaultInstructionLimit).
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	return &Manager{logger: logger, instLimit: instLimit}
}

// LoadGlobal creates a fresh sandboxed VM, registers the engine modules, and
// executes every *.lua file in scriptDir in lexicographic order. A previously
// loaded VM is replaced only when loading succeeds.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Returns an error on read or Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L, cancel := NewSandboxedState(m.instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	m.L = L
	m.cancel = cancel
	m.logger.Info("scripting: condition scripts loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// RunResistanceHook calls the named global Lua function with engine.resistance
// bound to set. A missing VM or hook is a no-op. Lua runtime errors, including
// an exhausted instruction budget, are logged at Warn and never propagated.
//
// Precondition: set must be non-nil.
func (m *Manager) RunResistanceHook(hook string, set *resistance.Set) error {
	if set == nil {
		return errors.New("scripting: RunResistanceHook: set must not be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.L == nil {
		m.logger.Info("scripting: no VM loaded", zap.String("hook", hook))
		return nil
	}
	fn := m.L.GetGlobal(hook)
	if fn == lua.LNil {
		m.logger.Debug("scripting: hook not defined", zap.String("hook", hook))
		return nil
	}

	m.target = set
	defer func() { m.target = nil }()
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = limitInstructions(m.L, m.instLimit)

	if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
	}
	return nil
}

// Close releases the VM. The Manager may be reloaded with LoadGlobal.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Manager) closeLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}
