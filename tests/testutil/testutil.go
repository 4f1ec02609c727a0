package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment ensures that tests are running in the test
// environment. It fails the test immediately if GO_ENV is not "test",
// preventing accidental execution against a development or production
// database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// RequireTestEnvironmentOrSkip is like RequireTestEnvironment but skips
// the test instead of failing it
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}
