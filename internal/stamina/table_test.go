package stamina

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsScale(t *testing.T) {
	l := Limits{Lower: 10, Upper: 20}
	assert.Equal(t, Limits{Lower: 11.25, Upper: 22.5}, l.Scale(1.125))
	assert.Equal(t, l, l.Scale(1))
}

func TestSnapshotIsIndependentOfTable(t *testing.T) {
	table := NewThresholdTableFrom(DefaultLimits())
	snap := table.Snapshot()

	table.Set(SprintOverweight, Limits{Lower: 1, Upper: 2})

	got, ok := snap.Get(SprintOverweight)
	require.True(t, ok)
	assert.Equal(t, Limits{Lower: 26, Upper: 62}, got)
}

func TestSnapshotScaledDoesNotCompound(t *testing.T) {
	table := NewThresholdTableFrom(map[Category]Limits{
		SprintOverweight: {Lower: 10, Upper: 20},
	})
	snap := table.Snapshot()

	first := snap.Scaled(2)
	second := snap.Scaled(2)

	assert.Equal(t, Limits{Lower: 20, Upper: 40}, first[SprintOverweight])
	assert.Equal(t, first, second)
}

func TestTableEqual(t *testing.T) {
	a := NewThresholdTableFrom(DefaultLimits())
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Set(WalkOverweight, Limits{Lower: 0, Upper: 0})
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range AllCategories() {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, Category("JumpOverweightLimits").Valid())
}

func TestLoadTableFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globals.yaml")
	content := `
stamina:
  BaseOverweightLimits: {lower: 26, upper: 67}
  SprintOverweightLimits: {lower: 26, upper: 62}
  WalkOverweightLimits: {lower: 39, upper: 72}
  WalkSpeedOverweightLimits: {lower: 26, upper: 62}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadTableFromYAML(path)
	require.NoError(t, err)
	assert.True(t, table.Equal(NewThresholdTableFrom(DefaultLimits())))
}

func TestParseTableMissingCategory(t *testing.T) {
	_, err := ParseTable([]byte(`
stamina:
  BaseOverweightLimits: {lower: 26, upper: 67}
`))
	assert.Error(t, err)
}

func TestParseTableUnknownCategory(t *testing.T) {
	_, err := ParseTable([]byte(`
stamina:
  BaseOverweightLimits: {lower: 26, upper: 67}
  SprintOverweightLimits: {lower: 26, upper: 62}
  WalkOverweightLimits: {lower: 39, upper: 72}
  WalkSpeedOverweightLimits: {lower: 26, upper: 62}
  JumpOverweightLimits: {lower: 1, upper: 2}
`))
	assert.Error(t, err)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTableFromYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestShippedGlobalsMatchDefaults(t *testing.T) {
	table, err := LoadTableFromYAML(filepath.Join("..", "..", "data", "globals.yaml"))
	require.NoError(t, err)
	assert.True(t, table.Equal(NewThresholdTableFrom(DefaultLimits())))
}
