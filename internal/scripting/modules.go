package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// RegisterModules registers the engine.resistance table into L:
//
//	engine.resistance.current(type)          -> number
//	engine.resistance.base(type)             -> number
//	engine.resistance.multiplier(type)       -> number
//	engine.resistance.activate(type, level)
//	engine.resistance.deactivate(type, level)
//	engine.resistance.set_current(type, n)
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	res := L.NewTable()
	L.SetFuncs(res, map[string]lua.LGFunction{
		"current": func(L *lua.LState) int {
			L.Push(lua.LNumber(m.state(L).Current()))
			return 1
		},
		"base": func(L *lua.LState) int {
			L.Push(lua.LNumber(m.state(L).Base()))
			return 1
		},
		"multiplier": func(L *lua.LState) int {
			L.Push(lua.LNumber(m.state(L).Multiplier()))
			return 1
		},
		"activate": func(L *lua.LState) int {
			st := m.state(L)
			st.Activate(checkLevel(L, 2))
			return 0
		},
		"deactivate": func(L *lua.LState) int {
			st := m.state(L)
			st.Deactivate(checkLevel(L, 2))
			return 0
		},
		"set_current": func(L *lua.LState) int {
			st := m.state(L)
			st.SetCurrent(checkClamped(L, 2))
			return 0
		},
	})
	L.SetField(engine, "resistance", res)
	L.SetGlobal("engine", engine)
}

// state resolves argument 1 to a member of the bound set, raising a Lua
// error when no set is bound or the damage type is unknown.
func (m *Manager) state(L *lua.LState) *resistance.State {
	name := L.CheckString(1)
	if m.target == nil {
		L.RaiseError("engine.resistance used outside a resistance hook")
		return nil
	}
	st, ok := m.target.Get(resistance.DamageType(name))
	if !ok {
		L.ArgError(1, "unknown damage type "+name)
		return nil
	}
	return st
}

// checkClamped reads argument n as a number and clamps it into the level
// range before converting, so huge or infinite values resolve to drain or weak.
func checkClamped(L *lua.LState, n int) int {
	v := float64(L.CheckNumber(n))
	switch {
	case math.IsNaN(v):
		L.ArgError(n, "level must be a number, got nan")
		return 0
	case v <= float64(resistance.MinLevel):
		return int(resistance.MinLevel)
	case v >= float64(resistance.MaxLevel):
		return int(resistance.MaxLevel)
	}
	return int(v)
}

func checkLevel(L *lua.LState, n int) resistance.Level {
	l, err := resistance.ParseLevel(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return l
}
