package host

import (
	"github.com/lawnchairsociety/staminaweight/internal/adjuster"
	"github.com/lawnchairsociety/staminaweight/internal/profile"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
)

// AdjusterHook plugs a WeightAdjuster into both host lifecycle points.
type AdjusterHook struct {
	Adjuster *adjuster.WeightAdjuster
}

// Register adds the adjuster as a load hook and a session-start hook.
func Register(h *Host, a *adjuster.WeightAdjuster) *AdjusterHook {
	hook := &AdjusterHook{Adjuster: a}
	h.RegisterLoadHook(hook)
	h.RegisterSessionStartHook(hook)
	return hook
}

func (k *AdjusterHook) OnLoad(table *stamina.ThresholdTable) {
	k.Adjuster.Initialize(table)
}

func (k *AdjusterHook) OnSessionStart(table *stamina.ThresholdTable, p *profile.Profile) {
	k.Adjuster.OnSessionStart(table, p.Level, p.StrengthProgress())
}
