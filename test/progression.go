package test

import (
	"fmt"
	"math"

	"github.com/lawnchairsociety/staminaweight/internal/profile"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
	"github.com/lawnchairsociety/staminaweight/internal/testclient"
)

// TestLimitsReport checks that the limits reply carries all four categories.
func TestLimitsReport(serverAddr string) TestResult {
	const testName = "Limits Report"

	client, err := testclient.Dial(serverAddr)
	if err != nil {
		return fail(testName, "Connect failed: %v", err)
	}
	defer client.Close()

	resp, err := client.Limits()
	if err != nil {
		return fail(testName, "limits failed: %v", err)
	}
	for _, c := range stamina.AllCategories() {
		l, ok := resp.Limits[c]
		if !ok {
			return fail(testName, "category %s missing from reply", c)
		}
		if l.Lower <= 0 || l.Upper < l.Lower {
			return fail(testName, "category %s has odd limits %s", c, l)
		}
	}
	logResult(testName, true, fmt.Sprintf("mode=%s state=%s", resp.Mode, resp.State))

	return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Limits reported (mode %s, %s)", resp.Mode, resp.State)}
}

// TestStrengthScaling raises Strength and checks that the next session scales every
// category by the reported multiplier. Only meaningful in strength_based mode.
func TestStrengthScaling(serverAddr string) TestResult {
	const testName = "Strength Scaling"

	name := uniqueName("Lift")
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	defer client.Close()

	before, err := client.StartSession(name)
	if err != nil {
		return fail(testName, "start_session failed: %v", err)
	}
	if before.Mode != "strength_based" || before.State != "active" {
		return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Skipped: server mode is %s (%s)", before.Mode, before.State)}
	}

	logAction(testName, "Adding 2500 Strength progress...")
	if _, err := client.Progress(0, 2500); err != nil {
		return fail(testName, "progress failed: %v", err)
	}

	after, err := client.StartSession(name)
	if err != nil {
		return fail(testName, "second start_session failed: %v", err)
	}
	if after.Phase != "applied" {
		return fail(testName, "expected phase applied, got %s", after.Phase)
	}
	if after.Multiplier <= 1 {
		return fail(testName, "expected multiplier above 1, got %.4f", after.Multiplier)
	}

	// Every pair is the same base snapshot times the multiplier, so the
	// lower/upper ratio of each category is unchanged.
	for _, c := range stamina.AllCategories() {
		b, a := before.Limits[c], after.Limits[c]
		if b.Upper == 0 || a.Upper == 0 {
			continue
		}
		if math.Abs(b.Lower/b.Upper-a.Lower/a.Upper) > 1e-9 {
			return fail(testName, "category %s ratio changed: %s -> %s", c, b, a)
		}
	}
	logResult(testName, true, fmt.Sprintf("multiplier %.4f", after.Multiplier))

	return TestResult{Name: testName, Passed: true, Message: fmt.Sprintf("Limits scaled by %.4f", after.Multiplier)}
}

// TestLevelProgression checks that experience raises the stored level.
func TestLevelProgression(serverAddr string) TestResult {
	const testName = "Level Progression"

	name := uniqueName("Grind")
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	defer client.Close()

	if _, err := client.StartSession(name); err != nil {
		return fail(testName, "start_session failed: %v", err)
	}

	resp, err := client.Progress(profile.ExperienceForLevel(5), 0)
	if err != nil {
		return fail(testName, "progress failed: %v", err)
	}
	if resp.Level != 5 {
		return fail(testName, "expected level 5, got %d", resp.Level)
	}

	client.Close()
	client2, err := testclient.NewTestClientWithLogin(testclient.DefaultCredentials(name), serverAddr)
	if err != nil {
		return fail(testName, "Relogin failed: %v", err)
	}
	defer client2.Close()

	again, err := client2.StartSession(name)
	if err != nil {
		return fail(testName, "start_session after relogin failed: %v", err)
	}
	if again.Level != 5 {
		return fail(testName, "level not persisted: got %d", again.Level)
	}

	return TestResult{Name: testName, Passed: true, Message: "Level 5 reached and persisted"}
}
