// Package test holds end-to-end scenarios run by cmd/testrunner against a live
// weightd instance.
package test

import (
	"fmt"
	"sync/atomic"
	"time"
)

// uniqueCounter is seeded from the clock so reruns against the same database
// do not collide on usernames.
var uniqueCounter = uint64(time.Now().UnixNano() % 1_000_000)

// uniqueName appends a letter suffix to base.
func uniqueName(base string) string {
	counter := atomic.AddUint64(&uniqueCounter, 1)
	return base + counterToLetters(counter)
}

// counterToLetters converts a number to a letter sequence (1=a, 2=b, ..., 26=z, 27=aa, ...)
func counterToLetters(n uint64) string {
	if n == 0 {
		return "a"
	}
	result := ""
	for n > 0 {
		n--
		result = string(rune('a'+(n%26))) + result
		n /= 26
	}
	return result
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// RunAllTests runs all integration tests
func RunAllTests(serverAddr string) []TestResult {
	return []TestResult{
		TestAccountSystem(serverAddr),
		TestDuplicateRegistration(serverAddr),
		TestSessionRequiresLogin(serverAddr),
		TestLimitsReport(serverAddr),
		TestStrengthScaling(serverAddr),
		TestLevelProgression(serverAddr),
	}
}

// PrintResults prints a summary of all test results
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
