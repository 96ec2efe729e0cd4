package upgrade

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dvmtools/dvm/internal/platform"
)

// Replacer swaps a verified executable into the active path. The final step
// is a copy, not a rename, so the version directory keeps its own copy for
// later version switches without re-downloading.
//
// The window between removing/renaming the old executable and copying the
// new one is not transactional; a failure there is surfaced to the caller
// rather than rolled back.
type Replacer struct {
	strategy platform.ReplaceStrategy
}

// NewReplacer creates a replacer using the given strategy.
func NewReplacer(strategy platform.ReplaceStrategy) *Replacer {
	return &Replacer{strategy: strategy}
}

// Replace installs newPath at activePath using the platform strategy.
func (r *Replacer) Replace(newPath, activePath string) error {
	switch r.strategy {
	case platform.ReplaceRenameAside:
		// The OS forbids deleting a running executable, but allows
		// renaming it.
		if err := os.Rename(activePath, renamedAsidePath(activePath)); err != nil {
			return fmt.Errorf("rename active executable aside: %w", err)
		}
	case platform.ReplaceRemove:
		if err := os.Remove(activePath); err != nil {
			return fmt.Errorf("remove active executable: %w", err)
		}
	default:
		return fmt.Errorf("unsupported replace strategy: %s", r.strategy)
	}

	if err := copyFile(newPath, activePath); err != nil {
		return fmt.Errorf("copy new executable: %w", err)
	}

	return nil
}

// renamedAsidePath returns the sibling ".old" name for an active executable:
// "deno" becomes "deno.old", "deno.exe" becomes "deno.old.exe".
func renamedAsidePath(activePath string) string {
	if strings.HasSuffix(activePath, ".exe") {
		return strings.TrimSuffix(activePath, ".exe") + ".old.exe"
	}
	return activePath + ".old"
}

// copyFile copies src to dst, carrying over src's permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy contents: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	return nil
}
