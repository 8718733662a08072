package profile

import "math"

// Levelling constants
const (
	MaxLevel = 79

	// SkillProgressPerLevel is how much skill progress makes one skill level.
	SkillProgressPerLevel = 100

	// MaxSkillProgress caps common skills at elite level 51.
	MaxSkillProgress = 51 * SkillProgressPerLevel
)

// MaxExperience is the experience needed for MaxLevel. Totals never exceed it, which
// keeps them inside a 32-bit INTEGER column.
var MaxExperience = ExperienceForLevel(MaxLevel)

// ExperienceForLevel returns the total experience required to reach a level.
// Uses polynomial curve: 100 * level^1.5
func ExperienceForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return int(100 * math.Pow(float64(level), 1.5))
}

// LevelForExperience returns the highest level whose requirement is met.
func LevelForExperience(experience int) int {
	level := 1
	for level < MaxLevel && experience >= ExperienceForLevel(level+1) {
		level++
	}
	return level
}

// SkillLevel converts raw skill progress into a whole skill level.
func SkillLevel(progress float64) int {
	if progress <= 0 {
		return 0
	}
	return int(math.Floor(progress / SkillProgressPerLevel))
}
