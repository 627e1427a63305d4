// Package character defines the character record that owns a resistance set
// and the preparation pass that resolves it.
package character

import (
	"time"

	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// Character is a character's resistance-bearing state.
//
// ID is set by the persistence layer; zero indicates an unsaved character.
// Only Name, Level and the resistance bases are persisted; Conditions and
// all resistance overrides are transient.
type Character struct {
	ID    int64
	Name  string
	Level int

	Resistances *resistance.Set
	Conditions  *condition.ActiveSet

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HookRunner runs a named condition hook against a resistance set.
// *scripting.Manager satisfies it.
type HookRunner interface {
	RunResistanceHook(hook string, set *resistance.Set) error
}
