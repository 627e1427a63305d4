package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/resistance/internal/config"
	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// ErrLevelOutOfRange is returned when a level falls outside [1, rules.LevelCap].
var ErrLevelOutOfRange = errors.New("character level out of range")

// New constructs a Character with the given resistance bases and no active conditions.
//
// Precondition: name must be non-empty; rules.LevelCap must be >= 1.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
// Malformed bases fail with a *resistance.ValidationError naming each field.
func New(rules config.RulesConfig, name string, level int, bases resistance.Record) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if err := checkLevel(rules, level); err != nil {
		return nil, err
	}
	set, err := resistance.NewSet(bases)
	if err != nil {
		return nil, fmt.Errorf("building resistances for %q: %w", name, err)
	}
	return &Character{
		Name:        name,
		Level:       level,
		Resistances: set,
		Conditions:  condition.NewActiveSet(),
	}, nil
}

func checkLevel(rules config.RulesConfig, level int) error {
	if level < 1 || level > rules.LevelCap {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrLevelOutOfRange, level, rules.LevelCap)
	}
	return nil
}

// SetLevel changes the character level within the configured cap.
//
// Postcondition: c.Level == level on success; unchanged on error.
func (c *Character) SetLevel(rules config.RulesConfig, level int) error {
	if err := checkLevel(rules, level); err != nil {
		return err
	}
	c.Level = level
	return nil
}

// Advance permanently changes the base resistance of one damage type, as
// during character advancement. Overrides are left untouched.
//
// Postcondition: On success the set still passes joint validation.
func (c *Character) Advance(dt resistance.DamageType, base int) error {
	st, ok := c.Resistances.Get(dt)
	if !ok {
		return fmt.Errorf("advancing %q: unknown damage type %q", c.Name, dt)
	}
	if err := st.SetBase(base); err != nil {
		return fmt.Errorf("advancing %q %s: %w", c.Name, dt, err)
	}
	return c.Resistances.ValidateJoint()
}

// Prepare runs the data-preparation pass: overrides are rebuilt from the
// active conditions, condition hooks run in condition ID order, the set is
// validated jointly, and a fresh snapshot is derived.
//
// Precondition: hooks may be nil to skip scripted conditions.
// Postcondition: Returns one Snapshot per damage type, or the joint validation error.
func (c *Character) Prepare(hooks HookRunner) (map[resistance.DamageType]resistance.Snapshot, error) {
	condition.ApplyResistances(c.Conditions, c.Resistances)
	if hooks != nil {
		for _, h := range condition.Hooks(c.Conditions) {
			if err := hooks.RunResistanceHook(h, c.Resistances); err != nil {
				return nil, fmt.Errorf("running hook %q for %q: %w", h, c.Name, err)
			}
		}
	}
	if err := c.Resistances.ValidateJoint(); err != nil {
		return nil, err
	}
	return c.Resistances.DeriveAll(), nil
}
