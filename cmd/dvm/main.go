package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvmtools/dvm/internal/transaction"
	"github.com/dvmtools/dvm/internal/upgrade"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	var err error
	switch os.Args[1] {
	case "--version", "-v":
		fmt.Printf("dvm %s\n", Version)
		return
	case "upgrade":
		err = runUpgrade(os.Args[2:])
	case "clean":
		err = runClean(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	default:
		printUsage()
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is the single place the error taxonomy turns into process exit
// status: 2 for user input that can't be acted on, 3 for a held lock, 1 for
// everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var notFound *upgrade.VersionNotFoundError
	switch {
	case errors.Is(err, upgrade.ErrInvalidVersion):
		return 2
	case errors.As(err, &notFound):
		return 2
	case errors.Is(err, transaction.ErrLockExists):
		return 3
	}
	return 1
}

func printUsage() {
	fmt.Println("dvm - Deno Version Manager")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dvm upgrade [version] [options]  Upgrade the active deno executable")
	fmt.Println("  dvm clean                        Remove stale mappings and orphaned versions")
	fmt.Println("  dvm list                         List installed versions")
	fmt.Println("  dvm --version                    Show dvm version")
	fmt.Println()
	fmt.Println("Upgrade options:")
	fmt.Println("  --dry-run, -n   Fetch, extract, and verify without replacing deno")
	fmt.Println("  --force, -f     Reinstall even if the version is already satisfied")
}

// getDvmDir returns dvm's root directory: $DVM_DIR if set, otherwise
// ~/.dvm. The version cache, registry, and settings file all live under it.
func getDvmDir() (string, error) {
	if dir := os.Getenv("DVM_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dvm"), nil
}
