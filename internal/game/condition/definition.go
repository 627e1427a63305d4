// Package condition implements the timed effects that temporarily override
// resistance levels.
package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// Duration types accepted in ConditionDef.DurationType.
const (
	DurationRounds    = "rounds"
	DurationUntilSave = "until_save"
	DurationPermanent = "permanent"
)

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DurationType string `yaml:"duration_type"` // "rounds" | "until_save" | "permanent"
	MaxStacks    int    `yaml:"max_stacks"`    // 0 = unstackable
	// Resistances maps a damage type to the override this condition
	// activates: weak, resist, nullify or drain.
	Resistances map[string]string `yaml:"resistances"`
	// LuaOnApply names a global Lua function run on every preparation pass
	// while the condition is active.
	LuaOnApply string `yaml:"lua_on_apply"`
}

// Validate checks the definition's identifiers and resistance table.
//
// Postcondition: Returns nil, or an error naming every bad entry.
func (d *ConditionDef) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	switch d.DurationType {
	case DurationRounds, DurationUntilSave, DurationPermanent:
	default:
		errs = append(errs, fmt.Sprintf("duration_type must be one of [rounds, until_save, permanent], got %q", d.DurationType))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, fmt.Sprintf("max_stacks must be >= 0, got %d", d.MaxStacks))
	}
	keys := make([]string, 0, len(d.Resistances))
	for k := range d.Resistances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := resistance.ParseDamageType(k); err != nil {
			errs = append(errs, fmt.Sprintf("resistances.%s: %v", k, err))
			continue
		}
		l, err := resistance.ParseLevel(d.Resistances[k])
		if err != nil {
			errs = append(errs, fmt.Sprintf("resistances.%s: %v", k, err))
			continue
		}
		if l == resistance.Normal {
			errs = append(errs, fmt.Sprintf("resistances.%s: normal is not an override", k))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("condition %q: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Overrides returns the parsed resistance table in canonical damage type order.
//
// Precondition: Validate returned nil.
func (d *ConditionDef) Overrides() []Override {
	out := make([]Override, 0, len(d.Resistances))
	for _, dt := range resistance.DamageTypes {
		name, ok := d.Resistances[string(dt)]
		if !ok {
			continue
		}
		l, err := resistance.ParseLevel(name)
		if err != nil || l == resistance.Normal {
			continue
		}
		out = append(out, Override{Type: dt, Level: l})
	}
	return out
}

// Override is one damage type forced to one level.
type Override struct {
	Type  resistance.DamageType
	Level resistance.Level
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// LoadDirectory reads every *.yaml file in dir, parses and validates each as a
// ConditionDef, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
