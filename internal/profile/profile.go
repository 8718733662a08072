// Package profile holds the slice of a player profile the host hands to session hooks.
package profile

// SkillStrength is the common skill id the strength-based mode reads.
const SkillStrength = "Strength"

// Skill is a single common skill and its raw progress.
type Skill struct {
	ID       string  `json:"id"`
	Progress float64 `json:"progress"`
}

// Profile is a player's progression as seen at session start.
type Profile struct {
	ID         int64   `json:"id"`
	AccountID  int64   `json:"account_id"`
	Nickname   string  `json:"nickname"`
	Level      int     `json:"level"`
	Experience int     `json:"experience"`
	Skills     []Skill `json:"skills"`
}

// New creates a level 1 profile with no skill progress.
func New(nickname string) *Profile {
	return &Profile{
		Nickname: nickname,
		Level:    1,
		Skills:   []Skill{{ID: SkillStrength}},
	}
}

// SkillProgress returns the raw progress of a skill, 0 when absent.
func (p *Profile) SkillProgress(id string) float64 {
	for _, s := range p.Skills {
		if s.ID == id {
			return s.Progress
		}
	}
	return 0
}

// StrengthProgress returns the raw progress of the Strength skill.
func (p *Profile) StrengthProgress() float64 {
	return p.SkillProgress(SkillStrength)
}

// AddSkillProgress adds delta to a skill, creating it if needed.
// Progress is clamped to [0, MaxSkillProgress].
func (p *Profile) AddSkillProgress(id string, delta float64) float64 {
	for i := range p.Skills {
		if p.Skills[i].ID == id {
			p.Skills[i].Progress = clampProgress(p.Skills[i].Progress + delta)
			return p.Skills[i].Progress
		}
	}
	progress := clampProgress(delta)
	p.Skills = append(p.Skills, Skill{ID: id, Progress: progress})
	return progress
}

// AddExperience adds experience and recomputes the level. The total is capped at
// MaxExperience. Returns true when the level changed.
func (p *Profile) AddExperience(amount int) bool {
	if amount <= 0 {
		return false
	}
	if amount >= MaxExperience-p.Experience {
		p.Experience = MaxExperience
	} else {
		p.Experience += amount
	}
	newLevel := LevelForExperience(p.Experience)
	if newLevel == p.Level {
		return false
	}
	p.Level = newLevel
	return true
}

func clampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxSkillProgress {
		return MaxSkillProgress
	}
	return v
}
