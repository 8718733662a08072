// Package adjuster scales the host's overweight thresholds according to one of four
// configured strategies.
//
// Two strategies are static and apply once when the host loads its configuration:
// a constant multiplier, or a full set of literal limits. The other two are dynamic
// and recompute a multiplier from the player's Strength skill or character level on
// every session start:
//
//	multiplier = 1 + (level / 100) * coefficient
//
// Scaling always starts from a snapshot of the table taken at load time, so the
// multiplier never compounds. Within one level the multiplier is applied once; it is
// re-armed only when the tracked level goes up.
package adjuster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/staminaweight/internal/config"
	"github.com/lawnchairsociety/staminaweight/internal/profile"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
)

// ModuleName tags every log line the adjuster writes.
const ModuleName = "WeightAdjuster"

var (
	// ErrConfigurationConflict means zero or several mode flags are set. Terminal.
	ErrConfigurationConflict = errors.New("configuration conflict")

	// ErrMissingInput means the level the active mode needs is zero. Retried next session.
	ErrMissingInput = errors.New("missing input")
)

// Logger is the sink the adjuster reports to. Trace carries per-step arithmetic
// and is expected to be dropped unless verbose logging is on.
type Logger interface {
	Info(msg string, args ...any)
	Warning(msg string, args ...any)
	Error(msg string, args ...any)
	Trace(msg string, args ...any)
}

// State is the adjuster's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateDisabled
	StateActive
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateActive:
		return "active"
	default:
		return "uninitialized"
	}
}

// Phase is the sub-state of an active dynamic mode.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseApplied
	PhasePendingReapplication
)

func (p Phase) String() string {
	switch p {
	case PhaseApplied:
		return "applied"
	case PhasePendingReapplication:
		return "pending_reapplication"
	default:
		return "none"
	}
}

// SessionState is the mutable per-process record used for change detection.
type SessionState struct {
	Active  bool
	Applied bool

	PlayerLevel   int
	StrengthLevel int

	PrevPlayerLevel   int
	PrevStrengthLevel int
}

// WeightAdjuster applies the configured strategy to a ThresholdTable.
// It is not safe for concurrent use; the host serialises hook calls.
type WeightAdjuster struct {
	cfg config.AdjusterConfig
	log Logger

	state          State
	mode           config.Mode
	snapshot       stamina.Snapshot
	session        SessionState
	lastMultiplier float64
}

// New creates an uninitialized adjuster. A nil logger discards everything.
func New(cfg config.AdjusterConfig, log Logger) *WeightAdjuster {
	if log == nil {
		log = nopLogger{}
	}
	return &WeightAdjuster{cfg: cfg, log: log}
}

// State returns the lifecycle state.
func (a *WeightAdjuster) State() State { return a.state }

// Mode returns the active mode, or ModeNone when not active.
func (a *WeightAdjuster) Mode() config.Mode { return a.mode }

// Session returns a copy of the session record.
func (a *WeightAdjuster) Session() SessionState { return a.session }

// LastMultiplier returns the multiplier most recently written to the table, 0 if none.
func (a *WeightAdjuster) LastMultiplier() float64 { return a.lastMultiplier }

// Phase reports whether an active dynamic mode has applied its current multiplier.
func (a *WeightAdjuster) Phase() Phase {
	if a.state != StateActive || !a.mode.IsDynamic() {
		return PhaseNone
	}
	if a.session.Applied {
		return PhaseApplied
	}
	return PhasePendingReapplication
}

// Initialize is the load-time hook. It validates the mode flags and, for the static
// modes, rewrites the table immediately. It never fails; problems are logged.
func (a *WeightAdjuster) Initialize(table *stamina.ThresholdTable) {
	if a.state != StateUninitialized {
		a.log.Warning("Initialize called more than once, ignoring", "state", a.state.String())
		return
	}

	mode, err := selectMode(a.cfg)
	if err != nil {
		a.state = StateDisabled
		a.log.Error("Deactivated: "+err.Error(), "modes", modeNames(a.cfg.ActiveModes()))
		return
	}

	a.state = StateActive
	a.mode = mode
	a.session.Active = true
	a.snapshot = table.Snapshot()
	a.log.Info("Activated", "mode", mode.String())

	for _, c := range stamina.AllCategories() {
		if base, ok := a.snapshot.Get(c); ok {
			a.log.Trace("Snapshot", "category", string(c), "limits", base.String())
		}
	}

	switch mode {
	case config.ModeStaticMultiplier:
		a.log.Trace("Applying static multiplier", "multiplier", a.cfg.StaticMultiplier)
		a.applyFixedMultiplier(table, a.cfg.StaticMultiplier)
	case config.ModeCustomLimits:
		a.applyCustomLimits(table)
	default:
		a.log.Trace("Waiting for first session start", "mode", mode.String())
	}
}

// OnSessionStart is the per-session hook for the dynamic modes. strengthProgress is the
// raw Strength skill progress; see profile.SkillLevel.
func (a *WeightAdjuster) OnSessionStart(table *stamina.ThresholdTable, playerLevel int, strengthProgress float64) {
	if a.state != StateActive || !a.mode.IsDynamic() {
		return
	}

	if err := a.sessionStart(table, playerLevel, strengthProgress); err != nil {
		a.log.Warning("Skipped: "+err.Error(), "mode", a.mode.String())
	}
}

func (a *WeightAdjuster) sessionStart(table *stamina.ThresholdTable, playerLevel int, strengthProgress float64) error {
	strengthLevel := profile.SkillLevel(strengthProgress)

	a.session.PlayerLevel = playerLevel
	a.session.StrengthLevel = strengthLevel
	a.log.Trace("Session start", "player_level", playerLevel, "strength_progress", strengthProgress, "strength_level", strengthLevel)

	// Only an increase of the tracked value re-arms; decreases keep the current table.
	if a.mode == config.ModeStrengthBased && strengthLevel > a.session.PrevStrengthLevel {
		a.log.Trace("Strength level increased", "from", a.session.PrevStrengthLevel, "to", strengthLevel)
		a.session.PrevStrengthLevel = strengthLevel
		a.session.Applied = false
	}
	if a.mode == config.ModeLevelBased && playerLevel > a.session.PrevPlayerLevel {
		a.log.Trace("Player level increased", "from", a.session.PrevPlayerLevel, "to", playerLevel)
		a.session.PrevPlayerLevel = playerLevel
		a.session.Applied = false
	}

	level := playerLevel
	if a.mode == config.ModeStrengthBased {
		level = strengthLevel
	}
	if level <= 0 {
		return fmt.Errorf("%w: %s level is %d", ErrMissingInput, levelSource(a.mode), level)
	}

	coefficient := a.cfg.Coefficient(a.mode)
	multiplier := ComputeMultiplier(float64(level), coefficient)
	a.log.Trace(fmt.Sprintf("Multiplier = 1 + (%d / 100) * %g = %.4f", level, coefficient, multiplier))

	a.applyFixedMultiplier(table, multiplier)
	return nil
}

// ComputeMultiplier returns 1 + (level/100) * coefficient. No clamping.
func ComputeMultiplier(level, coefficient float64) float64 {
	return 1 + (level/100)*coefficient
}

// applyFixedMultiplier writes snapshot*m into every category unless the current
// multiplier was already applied.
func (a *WeightAdjuster) applyFixedMultiplier(table *stamina.ThresholdTable, m float64) {
	if a.session.Applied {
		a.log.Trace("Multiplier already applied, nothing to do", "multiplier", a.lastMultiplier)
		return
	}

	scaled := a.snapshot.Scaled(m)
	for _, c := range stamina.AllCategories() {
		l, ok := scaled[c]
		if !ok {
			a.log.Warning("Category missing from snapshot", "category", string(c))
			continue
		}
		table.Set(c, l)
		base, _ := a.snapshot.Get(c)
		a.log.Trace("Scaled", "category", string(c), "from", base.String(), "to", l.String())
	}

	a.session.Applied = true
	a.lastMultiplier = m
	a.log.Info("Applied weight multiplier", "mode", a.mode.String(), "multiplier", fmt.Sprintf("%.4f", m))
}

// applyCustomLimits overwrites every category with the configured literal pair.
func (a *WeightAdjuster) applyCustomLimits(table *stamina.ThresholdTable) {
	for _, c := range stamina.AllCategories() {
		l, ok := a.cfg.CustomLimits[c]
		if !ok {
			a.log.Warning("No custom limits configured for category, leaving it unchanged", "category", string(c))
			continue
		}
		table.Set(c, l)
		a.log.Trace("Overwrote", "category", string(c), "limits", l.String())
	}
	a.session.Applied = true
	a.log.Info("Applied custom limits")
}

// selectMode returns the single enabled mode or a wrapped ErrConfigurationConflict.
func selectMode(cfg config.AdjusterConfig) (config.Mode, error) {
	modes := cfg.ActiveModes()
	switch len(modes) {
	case 1:
		return modes[0], nil
	case 0:
		return config.ModeNone, fmt.Errorf("%w: no mode enabled", ErrConfigurationConflict)
	default:
		return config.ModeNone, fmt.Errorf("%w: more than one mode enabled (%s)", ErrConfigurationConflict, modeNames(modes))
	}
}

func modeNames(modes []config.Mode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

func levelSource(m config.Mode) string {
	if m == config.ModeStrengthBased {
		return "strength"
	}
	return "player"
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Warning(string, ...any) {}
func (nopLogger) Error(string, ...any)   {}
func (nopLogger) Trace(string, ...any)   {}
