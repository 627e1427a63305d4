package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/resistance/internal/game/condition"
)

func fireWard() *condition.ConditionDef {
	return &condition.ConditionDef{
		ID: "fire_ward", Name: "Fire Ward", DurationType: condition.DurationRounds,
		Resistances: map[string]string{"fire": "nullify"},
	}
}

func soaked() *condition.ConditionDef {
	return &condition.ConditionDef{
		ID: "soaked", Name: "Soaked", DurationType: condition.DurationUntilSave, MaxStacks: 3,
		Resistances: map[string]string{"electric": "weak", "fire": "resist"},
	}
}

func voidPact() *condition.ConditionDef {
	return &condition.ConditionDef{
		ID: "void_pact", Name: "Void Pact", DurationType: condition.DurationPermanent,
		Resistances: map[string]string{"dark": "drain"},
	}
}

func TestActiveSet_Apply_Permanent(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(voidPact(), 1, -1))
	assert.True(t, s.Has("void_pact"))
	assert.Equal(t, 1, s.Stacks("void_pact"))
}

func TestActiveSet_Apply_NilDef(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply(nil, 1, 1))
}

func TestActiveSet_Apply_StacksCapped(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(soaked(), 5, -1))
	assert.Equal(t, 3, s.Stacks("soaked"))
}

func TestActiveSet_Apply_Unstackable_AlwaysOne(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(fireWard(), 3, 2))
	require.NoError(t, s.Apply(fireWard(), 3, 2))
	assert.Equal(t, 1, s.Stacks("fire_ward"))
}

func TestActiveSet_Apply_KeepsLongerDuration(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(fireWard(), 1, 3))
	require.NoError(t, s.Apply(fireWard(), 1, 1))
	s.Tick()
	s.Tick()
	assert.True(t, s.Has("fire_ward"))
	assert.Equal(t, []string{"fire_ward"}, s.Tick())
}

func TestActiveSet_Remove(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(voidPact(), 1, -1))
	s.Remove("void_pact")
	assert.False(t, s.Has("void_pact"))
	assert.Equal(t, 0, s.Stacks("void_pact"))
	s.Remove("nonexistent") // must not panic
}

func TestActiveSet_Tick_OnlyRoundsExpire(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(fireWard(), 1, 1))
	require.NoError(t, s.Apply(soaked(), 1, -1))
	require.NoError(t, s.Apply(voidPact(), 1, -1))
	assert.Equal(t, []string{"fire_ward"}, s.Tick())
	assert.Equal(t, []string{"soaked", "void_pact"}, s.IDs())
}

func TestActiveSet_All_OrderedByID(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(voidPact(), 1, -1))
	require.NoError(t, s.Apply(fireWard(), 1, 2))
	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "fire_ward", all[0].Def.ID)
	assert.Equal(t, "void_pact", all[1].Def.ID)
}

func TestPropertyActiveSet_TickNeverBelowMinusOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		duration := rapid.IntRange(1, 10).Draw(t, "duration")
		ticks := rapid.IntRange(1, 20).Draw(t, "ticks")
		s := condition.NewActiveSet()
		require.NoError(t, s.Apply(fireWard(), 1, duration))
		for i := 0; i < ticks; i++ {
			s.Tick()
		}
		for _, ac := range s.All() {
			assert.GreaterOrEqual(t, ac.DurationRemaining, -1)
		}
		assert.Equal(t, ticks < duration, s.Has("fire_ward"))
	})
}

func TestPropertyActiveSet_StacksNeverExceedMaxStacks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxStacks := rapid.IntRange(1, 4).Draw(t, "max_stacks")
		stacks := rapid.IntRange(1, 8).Draw(t, "stacks")
		def := &condition.ConditionDef{ID: "test", Name: "Test", DurationType: condition.DurationRounds, MaxStacks: maxStacks}
		s := condition.NewActiveSet()
		require.NoError(t, s.Apply(def, stacks, 5))
		assert.LessOrEqual(t, s.Stacks("test"), maxStacks)
	})
}
