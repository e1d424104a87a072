package testutil

import "testing"

// SkipIfShort skips the test if running in short mode.
// Use this for integration tests.
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}
