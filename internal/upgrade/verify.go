package upgrade

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
)

// runtimeName is the managed executable's self-reported name. `deno -V`
// prints "deno <version>".
const runtimeName = "deno"

// versionFlag is the flag that makes the runtime print its version.
const versionFlag = "-V"

// Verifier invokes a freshly extracted executable and asserts it reports the
// expected version. A corrupt or wrong-platform binary must never become the
// active executable, so any mismatch aborts before replacement.
type Verifier struct{}

// NewVerifier creates a new verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify runs the executable's version query and compares the trimmed output
// against "deno <version>" exactly.
func (v *Verifier) Verify(exePath string, version *semver.Version) error {
	expected := fmt.Sprintf("%s %s", runtimeName, version)

	cmd := exec.Command(exePath, versionFlag)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return &VerificationError{Expected: expected, Err: fmt.Errorf("run %s: %w", exePath, err)}
	}

	if !utf8.Valid(stdout.Bytes()) {
		return &VerificationError{Expected: expected, Err: fmt.Errorf("version output is not valid UTF-8")}
	}

	got := strings.TrimSpace(stdout.String())
	if got != expected {
		return &VerificationError{Expected: expected, Got: got}
	}

	return nil
}
