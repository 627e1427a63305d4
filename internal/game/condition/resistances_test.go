package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

func TestApplyResistances_ActivatesOverrides(t *testing.T) {
	set, err := resistance.NewSet(resistance.Record{resistance.Fire: 1})
	require.NoError(t, err)
	active := condition.NewActiveSet()
	require.NoError(t, active.Apply(fireWard(), 1, 2))

	condition.ApplyResistances(active, set)
	snap := set.DeriveAll()
	assert.Equal(t, resistance.Snapshot{EffectiveValue: resistance.Nullify, IsModified: true}, snap[resistance.Fire])
	assert.False(t, snap[resistance.Ice].IsModified)
}

func TestApplyResistances_OverlappingConditionsUsePriority(t *testing.T) {
	set, err := resistance.NewSet(nil)
	require.NoError(t, err)
	active := condition.NewActiveSet()
	require.NoError(t, active.Apply(soaked(), 1, -1))  // fire resist, electric weak
	require.NoError(t, active.Apply(fireWard(), 1, 2)) // fire nullify

	condition.ApplyResistances(active, set)
	snap := set.DeriveAll()
	assert.Equal(t, resistance.Nullify, snap[resistance.Fire].EffectiveValue)
	assert.Equal(t, resistance.Weak, snap[resistance.Electric].EffectiveValue)
}

func TestApplyResistances_ExpiredConditionDropsOverride(t *testing.T) {
	set, err := resistance.NewSet(nil)
	require.NoError(t, err)
	active := condition.NewActiveSet()
	require.NoError(t, active.Apply(fireWard(), 1, 1))
	condition.ApplyResistances(active, set)
	fire, _ := set.Get(resistance.Fire)
	require.Equal(t, resistance.Nullify, fire.Current())

	active.Tick()
	condition.ApplyResistances(active, set)
	assert.Equal(t, resistance.Normal, fire.Current())
	assert.False(t, fire.Overridden())
}

func TestApplyResistances_ClearsManualOverrides(t *testing.T) {
	set, err := resistance.NewSet(nil)
	require.NoError(t, err)
	dark, _ := set.Get(resistance.Dark)
	dark.SetCurrent(-1)
	condition.ApplyResistances(condition.NewActiveSet(), set)
	assert.Equal(t, resistance.Normal, dark.Current())
}

func TestHooks(t *testing.T) {
	active := condition.NewActiveSet()
	def := voidPact()
	def.LuaOnApply = "on_void_pact"
	require.NoError(t, active.Apply(def, 1, -1))
	require.NoError(t, active.Apply(fireWard(), 1, 2))
	assert.Equal(t, []string{"on_void_pact"}, condition.Hooks(active))
}
