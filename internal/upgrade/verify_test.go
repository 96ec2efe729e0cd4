package upgrade

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/dvmtools/dvm/internal/testutil"
)

// fakeRuntime writes a script that prints output and exits with code.
func fakeRuntime(t *testing.T, output string, code int) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake runtime requires a POSIX shell")
	}

	script := fmt.Sprintf("#!/bin/sh\necho '%s'\nexit %d\n", output, code)
	return testutil.WriteExecutable(t, t.TempDir(), "deno", script)
}

func TestVerifyMatch(t *testing.T) {
	exePath := fakeRuntime(t, "deno 1.2.0", 0)

	if err := NewVerifier().Verify(exePath, semver.MustParse("1.2.0")); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "wrong_version", output: "deno 1.1.0"},
		{name: "wrong_name", output: "node 1.2.0"},
		{name: "extra_text", output: "deno 1.2.0 (release)"},
		{name: "empty_output", output: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exePath := fakeRuntime(t, tt.output, 0)

			err := NewVerifier().Verify(exePath, semver.MustParse("1.2.0"))

			var verErr *VerificationError
			if !errors.As(err, &verErr) {
				t.Fatalf("error = %v, want *VerificationError", err)
			}
			if verErr.Expected != "deno 1.2.0" {
				t.Errorf("Expected = %q", verErr.Expected)
			}
		})
	}
}

func TestVerifyNonZeroExit(t *testing.T) {
	exePath := fakeRuntime(t, "deno 1.2.0", 3)

	err := NewVerifier().Verify(exePath, semver.MustParse("1.2.0"))

	var verErr *VerificationError
	if !errors.As(err, &verErr) {
		t.Fatalf("error = %v, want *VerificationError", err)
	}
}

func TestVerifyMissingExecutable(t *testing.T) {
	err := NewVerifier().Verify("/nonexistent/deno", semver.MustParse("1.2.0"))

	var verErr *VerificationError
	if !errors.As(err, &verErr) {
		t.Fatalf("error = %v, want *VerificationError", err)
	}
}
