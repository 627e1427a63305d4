package condition

import "github.com/cory-johannsen/resistance/internal/game/resistance"

// ApplyResistances rebuilds every override on set from the active conditions.
// All overrides are cleared first, so a condition that was removed or expired
// since the last pass no longer affects the set.
//
// Precondition: active and set must be non-nil.
// Postcondition: Each member's overrides are exactly the union of those named by active conditions.
func ApplyResistances(active *ActiveSet, set *resistance.Set) {
	set.ClearOverrides()
	for _, ac := range active.All() {
		for _, o := range ac.Def.Overrides() {
			if st, ok := set.Get(o.Type); ok {
				st.Activate(o.Level)
			}
		}
	}
}

// Hooks returns the Lua hook names of the active conditions, ordered by condition ID.
// Conditions without a hook are skipped.
func Hooks(active *ActiveSet) []string {
	var hooks []string
	for _, ac := range active.All() {
		if ac.Def.LuaOnApply != "" {
			hooks = append(hooks, ac.Def.LuaOnApply)
		}
	}
	return hooks
}
