package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/staminaweight/internal/stamina"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAdjusterFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weight_adjuster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultAdjusterConfig(t *testing.T) {
	cfg := DefaultAdjusterConfig()

	assert.Equal(t, []Mode{ModeStrengthBased}, cfg.ActiveModes())
	assert.Equal(t, 1.0, cfg.StaticMultiplier)
	assert.Equal(t, 0.5, cfg.Coefficient(ModeStrengthBased))
	assert.Equal(t, 0.5, cfg.Coefficient(ModeLevelBased))
	assert.Equal(t, 0.0, cfg.Coefficient(ModeStaticMultiplier))
	assert.Len(t, cfg.CustomLimits, 4)
}

func TestLoadAdjusterConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadAdjusterConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []Mode{ModeStrengthBased}, cfg.ActiveModes())
}

func TestLoadAdjusterConfig_FileClearsDefaultModes(t *testing.T) {
	path := writeAdjusterFile(t, `
weight_adjuster:
  verbose: true
  modes:
    level_based: true
  multiplier_per_player_level: 0.8
`)

	cfg, err := LoadAdjusterConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []Mode{ModeLevelBased}, cfg.ActiveModes())
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 0.8, cfg.MultiplierPerPlayerLevel)
	assert.Equal(t, 0.5, cfg.MultiplierPerStrengthLevel, "unset fields keep defaults")
}

func TestLoadAdjusterConfig_PartialCustomLimits(t *testing.T) {
	path := writeAdjusterFile(t, `
weight_adjuster:
  modes:
    custom_limits: true
  custom_limits:
    SprintOverweightLimits: {lower: 50, upper: 90}
`)

	cfg, err := LoadAdjusterConfig(path)
	require.NoError(t, err)

	assert.Equal(t, stamina.Limits{Lower: 50, Upper: 90}, cfg.CustomLimits[stamina.SprintOverweight])
	assert.Equal(t, stamina.DefaultLimits()[stamina.WalkOverweight], cfg.CustomLimits[stamina.WalkOverweight])
}

func TestLoadAdjusterConfig_MultipleModesAreKept(t *testing.T) {
	path := writeAdjusterFile(t, `
weight_adjuster:
  modes:
    static_multiplier: true
    custom_limits: true
`)

	cfg, err := LoadAdjusterConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []Mode{ModeStaticMultiplier, ModeCustomLimits}, cfg.ActiveModes())
}

func TestLoadAdjusterConfig_InvalidYAML(t *testing.T) {
	path := writeAdjusterFile(t, "weight_adjuster: [nope")
	cfg, err := LoadAdjusterConfig(path)
	assert.Error(t, err)
	assert.Empty(t, cfg.ActiveModes(), "a broken file must not fall back to an enabled mode")
}

func TestLoadAdjusterConfig_BrokenFileWithConflictingModes(t *testing.T) {
	path := writeAdjusterFile(t, `
weight_adjuster:
  modes:
    static_multiplier: true
    custom_limits: true
  static_multiplier: [oops
`)

	cfg, err := LoadAdjusterConfig(path)
	require.Error(t, err)
	assert.Empty(t, cfg.ActiveModes())
}

func TestLoadAdjusterConfig_UnknownCustomLimitCategory(t *testing.T) {
	path := writeAdjusterFile(t, `
weight_adjuster:
  modes:
    custom_limits: true
  custom_limits:
    SprintOverweight: {lower: 50, upper: 90}
`)

	cfg, err := LoadAdjusterConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
	assert.Empty(t, cfg.ActiveModes())
}

func TestLoadAdjusterConfig_InvertedCustomLimitPair(t *testing.T) {
	path := writeAdjusterFile(t, `
weight_adjuster:
  modes:
    custom_limits: true
  custom_limits:
    SprintOverweightLimits: {lower: 50}
`)

	cfg, err := LoadAdjusterConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below lower")
	assert.Empty(t, cfg.ActiveModes())
}

func TestLoadAdjusterConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WEIGHT_MODE", "static_multiplier")
	t.Setenv("WEIGHT_VERBOSE", "true")
	t.Setenv("WEIGHT_STATIC_MULTIPLIER", "1.75")
	t.Setenv("WEIGHT_STRENGTH_COEFFICIENT", "0.25")
	t.Setenv("WEIGHT_LEVEL_COEFFICIENT", "2")

	cfg, err := LoadAdjusterConfig("")
	require.NoError(t, err)

	assert.Equal(t, []Mode{ModeStaticMultiplier}, cfg.ActiveModes())
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 1.75, cfg.StaticMultiplier)
	assert.Equal(t, 0.25, cfg.MultiplierPerStrengthLevel)
	assert.Equal(t, 2.0, cfg.MultiplierPerPlayerLevel)
}

func TestLoadAdjusterConfig_EnvModeNoneDisablesAll(t *testing.T) {
	t.Setenv("WEIGHT_MODE", "none")

	cfg, err := LoadAdjusterConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.ActiveModes())
}

func TestLoadAdjusterConfig_BadEnv(t *testing.T) {
	t.Setenv("WEIGHT_MODE", "turbo")
	cfg, err := LoadAdjusterConfig("")
	assert.Error(t, err)
	assert.Empty(t, cfg.ActiveModes())

	t.Setenv("WEIGHT_MODE", "")
	t.Setenv("WEIGHT_STATIC_MULTIPLIER", "lots")
	cfg, err = LoadAdjusterConfig("")
	assert.Error(t, err)
	assert.Empty(t, cfg.ActiveModes())
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeStaticMultiplier, ModeCustomLimits, ModeStrengthBased, ModeLevelBased, ModeNone} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode(" Level_Based ")
	require.NoError(t, err)
	assert.Equal(t, ModeLevelBased, got)
}

func TestModeIsDynamic(t *testing.T) {
	assert.True(t, ModeStrengthBased.IsDynamic())
	assert.True(t, ModeLevelBased.IsDynamic())
	assert.False(t, ModeStaticMultiplier.IsDynamic())
	assert.False(t, ModeCustomLimits.IsDynamic())
	assert.False(t, ModeNone.IsDynamic())
}

func TestShippedAdjusterConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadAdjusterConfig(filepath.Join("..", "..", "data", "weight_adjuster.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []Mode{ModeStrengthBased}, cfg.ActiveModes())
	assert.Equal(t, DefaultAdjusterConfig().CustomLimits, cfg.CustomLimits)
	assert.Equal(t, 0.5, cfg.MultiplierPerStrengthLevel)
}
