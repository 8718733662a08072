package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/staminaweight/internal/stamina"
	"gopkg.in/yaml.v3"
)

// Mode is one of the four mutually exclusive adjustment strategies.
type Mode int

const (
	ModeNone Mode = iota
	ModeStaticMultiplier
	ModeCustomLimits
	ModeStrengthBased
	ModeLevelBased
)

// String returns the configuration key for the mode.
func (m Mode) String() string {
	switch m {
	case ModeStaticMultiplier:
		return "static_multiplier"
	case ModeCustomLimits:
		return "custom_limits"
	case ModeStrengthBased:
		return "strength_based"
	case ModeLevelBased:
		return "level_based"
	default:
		return "none"
	}
}

// IsDynamic reports whether the mode recomputes on every session start.
func (m Mode) IsDynamic() bool {
	return m == ModeStrengthBased || m == ModeLevelBased
}

// ParseMode converts a configuration key to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static_multiplier":
		return ModeStaticMultiplier, nil
	case "custom_limits":
		return ModeCustomLimits, nil
	case "strength_based":
		return ModeStrengthBased, nil
	case "level_based":
		return ModeLevelBased, nil
	case "none", "":
		return ModeNone, nil
	default:
		return ModeNone, fmt.Errorf("unknown mode %q", s)
	}
}

// ModeFlags are the four mode switches. Exactly one must be set for the adjuster to run.
type ModeFlags struct {
	StaticMultiplier bool `yaml:"static_multiplier"`
	CustomLimits     bool `yaml:"custom_limits"`
	StrengthBased    bool `yaml:"strength_based"`
	LevelBased       bool `yaml:"level_based"`
}

// AdjusterConfig holds the weight adjuster settings. It is read once at startup.
type AdjusterConfig struct {
	Verbose bool      `yaml:"verbose"`
	Modes   ModeFlags `yaml:"modes"`

	// StaticMultiplier scales every limit pair in static_multiplier mode.
	StaticMultiplier float64 `yaml:"static_multiplier"`

	// Per-level coefficients for the dynamic modes:
	// multiplier = 1 + (level / 100) * coefficient
	MultiplierPerStrengthLevel float64 `yaml:"multiplier_per_strength_level"`
	MultiplierPerPlayerLevel   float64 `yaml:"multiplier_per_player_level"`

	// CustomLimits replaces every limit pair in custom_limits mode.
	CustomLimits map[stamina.Category]stamina.Limits `yaml:"custom_limits"`
}

// adjusterFile wraps AdjusterConfig for YAML parsing.
type adjusterFile struct {
	WeightAdjuster *AdjusterConfig `yaml:"weight_adjuster"`
}

// DefaultAdjusterConfig returns strength-based scaling with the stock custom limits.
func DefaultAdjusterConfig() AdjusterConfig {
	return AdjusterConfig{
		Modes:                      ModeFlags{StrengthBased: true},
		StaticMultiplier:           1.0,
		MultiplierPerStrengthLevel: 0.5,
		MultiplierPerPlayerLevel:   0.5,
		CustomLimits:               stamina.DefaultLimits(),
	}
}

// ActiveModes returns the enabled modes in declaration order.
func (c AdjusterConfig) ActiveModes() []Mode {
	var modes []Mode
	if c.Modes.StaticMultiplier {
		modes = append(modes, ModeStaticMultiplier)
	}
	if c.Modes.CustomLimits {
		modes = append(modes, ModeCustomLimits)
	}
	if c.Modes.StrengthBased {
		modes = append(modes, ModeStrengthBased)
	}
	if c.Modes.LevelBased {
		modes = append(modes, ModeLevelBased)
	}
	return modes
}

// Coefficient returns the per-level coefficient for a dynamic mode.
func (c AdjusterConfig) Coefficient(m Mode) float64 {
	switch m {
	case ModeStrengthBased:
		return c.MultiplierPerStrengthLevel
	case ModeLevelBased:
		return c.MultiplierPerPlayerLevel
	default:
		return 0
	}
}

// SetMode clears every flag and enables only m. ModeNone disables everything.
func (c *AdjusterConfig) SetMode(m Mode) {
	c.Modes = ModeFlags{
		StaticMultiplier: m == ModeStaticMultiplier,
		CustomLimits:     m == ModeCustomLimits,
		StrengthBased:    m == ModeStrengthBased,
		LevelBased:       m == ModeLevelBased,
	}
}

// LoadAdjusterConfig loads the adjuster section from a YAML file and applies
// environment overrides. A missing file yields the defaults; a file that is present
// starts with every mode flag cleared so only the flags it sets are enabled.
//
// On any error the returned config has every mode flag cleared, so an adjuster built
// from it reports a configuration conflict and leaves the table alone.
func LoadAdjusterConfig(path string) (AdjusterConfig, error) {
	cfg := DefaultAdjusterConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg.Modes = ModeFlags{}
			if err := yaml.Unmarshal(data, &adjusterFile{WeightAdjuster: &cfg}); err != nil {
				return disabledConfig(fmt.Errorf("failed to parse adjuster config: %w", err))
			}
			if err := cfg.validateCustomLimits(); err != nil {
				return disabledConfig(fmt.Errorf("invalid adjuster config: %w", err))
			}
		case !os.IsNotExist(err):
			return disabledConfig(fmt.Errorf("failed to read adjuster config: %w", err))
		}
	}

	if err := applyAdjusterEnv(&cfg); err != nil {
		return disabledConfig(err)
	}

	return cfg, nil
}

// disabledConfig returns the defaults with no mode enabled alongside err.
func disabledConfig(err error) (AdjusterConfig, error) {
	cfg := DefaultAdjusterConfig()
	cfg.SetMode(ModeNone)
	return cfg, err
}

// validateCustomLimits rejects unknown categories and pairs whose upper bound is
// below the lower one.
func (c AdjusterConfig) validateCustomLimits() error {
	for cat, l := range c.CustomLimits {
		if !cat.Valid() {
			return fmt.Errorf("custom_limits: unknown category %q", cat)
		}
		if l.Upper < l.Lower {
			return fmt.Errorf("custom_limits: %s upper %g is below lower %g", cat, l.Upper, l.Lower)
		}
	}
	return nil
}

// applyAdjusterEnv applies WEIGHT_* environment variable overrides.
func applyAdjusterEnv(cfg *AdjusterConfig) error {
	if mode := os.Getenv("WEIGHT_MODE"); mode != "" {
		m, err := ParseMode(mode)
		if err != nil {
			return fmt.Errorf("WEIGHT_MODE: %w", err)
		}
		cfg.SetMode(m)
	}

	if verbose := os.Getenv("WEIGHT_VERBOSE"); verbose != "" {
		if v, err := strconv.ParseBool(verbose); err == nil {
			cfg.Verbose = v
		}
	}

	floats := []struct {
		key  string
		dest *float64
	}{
		{"WEIGHT_STATIC_MULTIPLIER", &cfg.StaticMultiplier},
		{"WEIGHT_STRENGTH_COEFFICIENT", &cfg.MultiplierPerStrengthLevel},
		{"WEIGHT_LEVEL_COEFFICIENT", &cfg.MultiplierPerPlayerLevel},
	}
	for _, f := range floats {
		raw := os.Getenv(f.key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dest = v
	}

	return nil
}
