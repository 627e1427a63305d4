package character_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/resistance/internal/game/character"
	"github.com/cory-johannsen/resistance/internal/game/condition"
	"github.com/cory-johannsen/resistance/internal/game/resistance"
)

func writeSheet(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func registry() *condition.Registry {
	reg := condition.NewRegistry()
	reg.Register(fireWard())
	return reg
}

func TestLoadSheet_Build(t *testing.T) {
	path := writeSheet(t, `
name: Mika
level: 3
resistances:
  fire: 1
  dark: -1
conditions:
  - id: fire_ward
    duration: 2
`)
	sheet, err := character.LoadSheet(path)
	require.NoError(t, err)
	c, err := sheet.Build(rules(), registry())
	require.NoError(t, err)

	assert.Equal(t, "Mika", c.Name)
	assert.Equal(t, 1, c.Conditions.Stacks("fire_ward"))
	dark, _ := c.Resistances.Get(resistance.Dark)
	assert.Equal(t, -1, dark.Base())

	snap, err := c.Prepare(nil)
	require.NoError(t, err)
	assert.Equal(t, resistance.Nullify, snap[resistance.Fire].EffectiveValue)
}

func TestLoadSheet_NonIntegerRejected(t *testing.T) {
	path := writeSheet(t, "name: Mika\nlevel: 1\nresistances:\n  fire: hot\n")
	_, err := character.LoadSheet(path)
	assert.Error(t, err)
}

func TestLoadSheet_UnknownFieldRejected(t *testing.T) {
	path := writeSheet(t, "name: Mika\nlevel: 1\nhp: 10\n")
	_, err := character.LoadSheet(path)
	assert.Error(t, err)
}

func TestSheetBuild_UnknownDamageType(t *testing.T) {
	sheet := character.Sheet{Name: "Mika", Level: 1, Resistances: map[string]int{"plasma": 1}}
	_, err := sheet.Build(rules(), registry())
	var ve *resistance.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"resistances.plasma"}, ve.Fields())
}

func TestSheetBuild_UnknownCondition(t *testing.T) {
	sheet := character.Sheet{Name: "Mika", Level: 1, Conditions: []character.SheetCondition{{ID: "cursed"}}}
	_, err := sheet.Build(rules(), registry())
	assert.ErrorContains(t, err, "cursed")
}
