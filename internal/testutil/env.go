// Package testutil provides fixtures for testing resxport in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv isolates a test from the user's resxport configuration.
// Registry and log-level variables are cleared and a scratch work directory
// is created; its path is returned.
//
// The cleanup function is automatically handled by t.TempDir() and
// t.Setenv(), so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	t.Setenv("RESXPORT_TYPES", "")
	t.Setenv("RESXPORT_LOG_LEVEL", "")

	workDir := filepath.Join(tmpDir, "work")
	if err := os.MkdirAll(workDir, 0o750); err != nil {
		t.Fatalf("failed to create test directory %s: %v", workDir, err)
	}

	return workDir
}
