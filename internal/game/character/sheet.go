package character

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/resistance/internal/config"
	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

// SheetCondition is one condition applied to a character on load.
type SheetCondition struct {
	ID       string `yaml:"id"`
	Stacks   int    `yaml:"stacks"`
	Duration int    `yaml:"duration"` // rounds; -1 = permanent or until_save
}

// Sheet is the YAML form of a character used for fixtures and the CLI.
type Sheet struct {
	Name        string           `yaml:"name"`
	Level       int              `yaml:"level"`
	Resistances map[string]int   `yaml:"resistances"`
	Conditions  []SheetCondition `yaml:"conditions"`
}

// LoadSheet strictly decodes a Sheet from path. Unknown fields and
// non-integer resistance values are rejected.
func LoadSheet(path string) (Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("reading sheet %q: %w", path, err)
	}
	var s Sheet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Sheet{}, fmt.Errorf("parsing sheet %q: %w", path, err)
	}
	return s, nil
}

// Build turns the sheet into a Character and applies its conditions from reg.
//
// Precondition: reg must be non-nil.
// Postcondition: Returns a Character, or an error for bad resistances or unknown conditions.
func (s Sheet) Build(rules config.RulesConfig, reg *condition.Registry) (*Character, error) {
	bases := make(resistance.Record, len(s.Resistances))
	for k, v := range s.Resistances {
		bases[resistance.DamageType(k)] = v
	}
	c, err := New(rules, s.Name, s.Level, bases)
	if err != nil {
		return nil, err
	}
	for _, sc := range s.Conditions {
		def, ok := reg.Get(sc.ID)
		if !ok {
			return nil, fmt.Errorf("sheet %q: unknown condition %q", s.Name, sc.ID)
		}
		stacks := sc.Stacks
		if stacks == 0 {
			stacks = 1
		}
		if err := c.Conditions.Apply(def, stacks, sc.Duration); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
	}
	return c, nil
}
