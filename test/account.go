package test

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/staminaweight/internal/testclient"
)

// TestAccountSystem tests registration, login and a rejected password.
func TestAccountSystem(serverAddr string) TestResult {
	const testName = "Account System"

	name := uniqueName("Acct")
	logAction(testName, fmt.Sprintf("Registering new account '%s'...", name))

	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	client.Close()

	logAction(testName, "Logging in with valid credentials...")
	client2, err := testclient.NewTestClientWithLogin(testclient.DefaultCredentials(name), serverAddr)
	if err != nil {
		return fail(testName, "Login failed: %v", err)
	}
	logResult(testName, true, "Successfully logged in")
	client2.Close()

	logAction(testName, "Testing invalid login with wrong password...")
	bad := testclient.DefaultCredentials(name)
	bad.Password = "wrongpassword"
	client3, err := testclient.NewTestClientWithLogin(bad, serverAddr)
	if err == nil {
		client3.Close()
		return fail(testName, "Login with wrong password succeeded")
	}
	if !errors.Is(err, testclient.ErrServer) {
		return fail(testName, "Unexpected error for wrong password: %v", err)
	}
	logResult(testName, true, "Wrong password rejected")

	return TestResult{Name: testName, Passed: true, Message: "Register, login and rejected login all behave"}
}

// TestDuplicateRegistration checks that usernames are unique regardless of case.
func TestDuplicateRegistration(serverAddr string) TestResult {
	const testName = "Duplicate Registration"

	name := uniqueName("Dupe")
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return fail(testName, "Registration failed: %v", err)
	}
	client.Close()

	client2, err := testclient.Dial(serverAddr)
	if err != nil {
		return fail(testName, "Connect failed: %v", err)
	}
	defer client2.Close()

	creds := testclient.DefaultCredentials(name)
	creds.Username = "DUPE" + name[len("Dupe"):]
	creds.Nickname = uniqueName("Other")
	resp, err := client2.Register(creds)
	if err == nil {
		return fail(testName, "Second registration with same username succeeded")
	}
	logResult(testName, true, resp.Message)

	return TestResult{Name: testName, Passed: true, Message: "Duplicate username rejected"}
}

// TestSessionRequiresLogin checks that anonymous connections cannot start sessions.
func TestSessionRequiresLogin(serverAddr string) TestResult {
	const testName = "Session Requires Login"

	client, err := testclient.Dial(serverAddr)
	if err != nil {
		return fail(testName, "Connect failed: %v", err)
	}
	defer client.Close()

	if _, err := client.StartSession("anyone"); err == nil {
		return fail(testName, "Anonymous start_session succeeded")
	}
	if _, err := client.Progress(10, 10); err == nil {
		return fail(testName, "Anonymous progress succeeded")
	}

	return TestResult{Name: testName, Passed: true, Message: "Anonymous session calls rejected"}
}
