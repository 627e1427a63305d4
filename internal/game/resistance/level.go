// Package resistance models per-damage-type resistance levels and the
// override resolution that turns them into damage multipliers.
package resistance

import "fmt"

// Level is a resolved resistance level on the five-point scale.
type Level int

const (
	// Weak doubles incoming damage.
	Weak Level = -1
	// Normal takes damage unscaled.
	Normal Level = 0
	// Resist halves incoming damage.
	Resist Level = 1
	// Nullify blocks incoming damage.
	Nullify Level = 2
	// Drain turns incoming damage into healing.
	Drain Level = 3
)

// MinLevel and MaxLevel bound every base and resolved value.
const (
	MinLevel = Weak
	MaxLevel = Drain
)

var levelNames = map[Level]string{
	Weak:    "weak",
	Normal:  "normal",
	Resist:  "resist",
	Nullify: "nullify",
	Drain:   "drain",
}

// String returns the lower-case level name, or "level(n)" for values off the scale.
func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Valid reports whether l lies within [MinLevel, MaxLevel].
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// ParseLevel maps a level name ("weak", "normal", "resist", "nullify", "drain") to its Level.
//
// Postcondition: Returns the Level or a non-nil error for unknown names.
func ParseLevel(name string) (Level, error) {
	for l, n := range levelNames {
		if n == name {
			return l, nil
		}
	}
	return Normal, fmt.Errorf("unknown resistance level %q", name)
}

// DamageType identifies one of the eight fixed resistance slots.
type DamageType string

const (
	Physical DamageType = "physical"
	Fire     DamageType = "fire"
	Ice      DamageType = "ice"
	Electric DamageType = "electric"
	Wind     DamageType = "wind"
	Earth    DamageType = "earth"
	Light    DamageType = "light"
	Dark     DamageType = "dark"
)

// DamageTypes lists every damage type in canonical order.
var DamageTypes = []DamageType{Physical, Fire, Ice, Electric, Wind, Earth, Light, Dark}

// Valid reports whether d names one of the eight damage types.
func (d DamageType) Valid() bool {
	for _, known := range DamageTypes {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDamageType validates name as a DamageType.
func ParseDamageType(name string) (DamageType, error) {
	d := DamageType(name)
	if !d.Valid() {
		return "", fmt.Errorf("unknown damage type %q", name)
	}
	return d, nil
}
