package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lawnchairsociety/staminaweight/internal/config"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInputs(t *testing.T) {
	inputs, err := parseInputs([]string{"1:0", "12:2550.5"})
	require.NoError(t, err)
	assert.Equal(t, []sessionInput{{level: 1, strengthProgress: 0}, {level: 12, strengthProgress: 2550.5}}, inputs)

	for _, bad := range []string{"12", "x:10", "3:y"} {
		_, err := parseInputs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestRunStrengthBased(t *testing.T) {
	var out bytes.Buffer
	table := stamina.NewThresholdTableFrom(stamina.DefaultLimits())

	err := run(&out, config.DefaultAdjusterConfig(), table, []sessionInput{
		{level: 1, strengthProgress: 2500},
		{level: 2, strengthProgress: 2500},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "SprintOverweightLimits")
	assert.Contains(t, lines[1], "load")
	assert.Contains(t, lines[2], "1.1250")
	assert.Contains(t, lines[2], "(29.25, 69.75)")
	assert.Contains(t, lines[3], "applied")
	assert.Equal(t, "mode=strength_based state=active", lines[4])

	// The caller's table carries the scaled values.
	sprint, ok := table.Get(stamina.SprintOverweight)
	require.True(t, ok)
	assert.InDelta(t, 29.25, sprint.Lower, 1e-9)
}

func TestRunConflictLeavesTable(t *testing.T) {
	var out bytes.Buffer
	cfg := config.DefaultAdjusterConfig()
	cfg.Modes.LevelBased = true

	require.NoError(t, run(&out, cfg, stamina.NewThresholdTableFrom(stamina.DefaultLimits()), []sessionInput{{level: 50}}))

	assert.Contains(t, out.String(), "(26.00, 62.00)")
	assert.Contains(t, out.String(), "state=disabled")
}
