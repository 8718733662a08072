package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperienceForLevel(t *testing.T) {
	assert.Equal(t, 0, ExperienceForLevel(1))
	assert.Equal(t, 282, ExperienceForLevel(2))
	assert.Equal(t, 3162, ExperienceForLevel(10))
	assert.Equal(t, ExperienceForLevel(MaxLevel), ExperienceForLevel(MaxLevel+5))
}

func TestLevelForExperience(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{281, 1},
		{282, 2},
		{ExperienceForLevel(10), 10},
		{ExperienceForLevel(10) - 1, 9},
		{1 << 30, MaxLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForExperience(tt.xp), "xp=%d", tt.xp)
	}
}

func TestSkillLevel(t *testing.T) {
	assert.Equal(t, 0, SkillLevel(0))
	assert.Equal(t, 0, SkillLevel(-5))
	assert.Equal(t, 0, SkillLevel(99.9))
	assert.Equal(t, 25, SkillLevel(2500))
	assert.Equal(t, 25, SkillLevel(2599))
}

func TestStrengthProgress(t *testing.T) {
	p := New("Tester")
	assert.Equal(t, 0.0, p.StrengthProgress())

	p.AddSkillProgress(SkillStrength, 2500)
	assert.Equal(t, 2500.0, p.StrengthProgress())

	p.Skills = nil
	assert.Equal(t, 0.0, p.StrengthProgress())
}

func TestAddSkillProgressClamps(t *testing.T) {
	p := New("Tester")

	assert.Equal(t, float64(MaxSkillProgress), p.AddSkillProgress(SkillStrength, 10000))
	assert.Equal(t, 0.0, p.AddSkillProgress(SkillStrength, -20000))
	assert.Equal(t, 40.0, p.AddSkillProgress("Endurance", 40))
	assert.Len(t, p.Skills, 2)
}

func TestAddExperience(t *testing.T) {
	p := New("Tester")

	assert.False(t, p.AddExperience(0))
	assert.False(t, p.AddExperience(100))
	assert.Equal(t, 1, p.Level)

	assert.True(t, p.AddExperience(ExperienceForLevel(5)))
	assert.Equal(t, 5, p.Level)
}

func TestAddExperienceSaturates(t *testing.T) {
	p := New("Tester")

	assert.True(t, p.AddExperience(math.MaxInt-10))
	assert.Equal(t, MaxLevel, p.Level)
	assert.Equal(t, MaxExperience, p.Experience)

	assert.False(t, p.AddExperience(100))
	assert.False(t, p.AddExperience(math.MaxInt))
	assert.Equal(t, MaxExperience, p.Experience)
	assert.Equal(t, MaxLevel, p.Level, "level must not wrap back down")
}
