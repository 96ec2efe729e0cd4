// Package testutil provides utilities for testing dvm in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points DVM_DIR at an isolated temp directory so tests never
// touch the user's real version cache or registry. It returns the dvm root.
//
// Cleanup is handled by t.TempDir(); callers don't need to clean up.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	dvmDir := filepath.Join(tmpDir, ".dvm")

	t.Setenv("DVM_DIR", dvmDir)

	if err := os.MkdirAll(filepath.Join(dvmDir, "versions"), 0o755); err != nil {
		t.Fatalf("failed to create test versions dir: %v", err)
	}

	return dvmDir
}

// WriteExecutable writes a non-empty file with execute permissions and
// returns its path. On platforms that honor shebangs the file is runnable,
// which is all the verifier-style tests need.
func WriteExecutable(t *testing.T, dir, name, contents string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o755); err != nil {
		t.Fatalf("failed to write executable %s: %v", path, err)
	}

	return path
}
