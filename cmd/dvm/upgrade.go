package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/dvmtools/dvm/internal/config"
	"github.com/dvmtools/dvm/internal/platform"
	"github.com/dvmtools/dvm/internal/registry"
	"github.com/dvmtools/dvm/internal/transaction"
	"github.com/dvmtools/dvm/internal/upgrade"
)

// upgradeFlags are the parsed `dvm upgrade` arguments.
type upgradeFlags struct {
	version  string
	dryRun   bool
	force    bool
	showHelp bool
}

// parseUpgradeArgs parses flags plus an optional positional version.
func parseUpgradeArgs(args []string) (upgradeFlags, error) {
	var flags upgradeFlags

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			flags.showHelp = true
		case "--dry-run", "-n":
			flags.dryRun = true
		case "--force", "-f":
			flags.force = true
		default:
			if strings.HasPrefix(arg, "-") {
				return flags, fmt.Errorf("unknown flag: %s", arg)
			}
			if flags.version != "" {
				return flags, fmt.Errorf("multiple versions given: %s and %s", flags.version, arg)
			}
			flags.version = arg
		}
	}

	return flags, nil
}

// runUpgrade handles the `dvm upgrade` subcommand.
func runUpgrade(args []string) error {
	flags, err := parseUpgradeArgs(args)
	if err != nil {
		return err
	}
	if flags.showHelp {
		printUpgradeHelp()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dvmDir, err := getDvmDir()
	if err != nil {
		return err
	}

	info, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	profile, err := platform.ResolveProfile(info)
	if err != nil {
		return err
	}

	settings, err := config.NewParser(platform.NewDetector()).
		ParseFile(ctx, filepath.Join(dvmDir, config.SettingsFileName))
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.ArchiveName != "" {
		profile.ArchiveName = settings.ArchiveName
	}

	activePath, err := exec.LookPath(profile.ExeName)
	if err != nil {
		return fmt.Errorf("deno is not installed (not found in PATH): %w", err)
	}

	current, err := currentRuntimeVersion(activePath)
	if err != nil {
		return err
	}

	lock, err := transaction.AcquireLock(dvmDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	pipeline, err := upgrade.NewPipeline(upgrade.Config{
		Profile:        profile,
		VersionsDir:    filepath.Join(dvmDir, registry.VersionsDirName),
		ActivePath:     activePath,
		CurrentVersion: current,
		RegistryHost:   settings.RegistryHost,
		Reporter:       consoleReporter{},
	})
	if err != nil {
		return err
	}

	result, err := pipeline.Run(upgrade.Options{
		Version: flags.version,
		Force:   flags.force,
		DryRun:  flags.dryRun,
	})
	if err != nil {
		return err
	}

	switch result.Status {
	case upgrade.StatusAlreadyInstalled:
		fmt.Printf("Version %s is already installed\n", result.Version)
		return nil
	case upgrade.StatusMostRecent:
		fmt.Printf("Local deno version %s is the most recent release\n", current)
		return nil
	case upgrade.StatusDryRun:
		fmt.Printf("Dry run complete: deno %s fetched, extracted, and verified\n", result.Version)
		return nil
	}

	// Record which installed version satisfies this requirement.
	requirement := flags.version
	if requirement == "" {
		requirement = "latest"
	}
	store, err := registry.Open(dvmDir, profile.ExeName)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	store.SetVersionMapping(requirement, result.Version.String())
	if err := store.Save(); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}

	fmt.Println("Upgrade done successfully")
	return nil
}

// currentRuntimeVersion asks the active executable for its compiled-in
// version via its version-query flag.
func currentRuntimeVersion(activePath string) (string, error) {
	cmd := exec.Command(activePath, "-V")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("query current deno version: %w", err)
	}

	fields := strings.Fields(stdout.String())
	if len(fields) < 2 {
		return "", fmt.Errorf("unexpected version output from %s: %q", activePath, stdout.String())
	}

	if _, err := semver.StrictNewVersion(fields[1]); err != nil {
		return "", fmt.Errorf("unexpected version %q from %s", fields[1], activePath)
	}
	return fields[1], nil
}

func printUpgradeHelp() {
	fmt.Println("Usage: dvm upgrade [version] [options]")
	fmt.Println()
	fmt.Println("Upgrades the active deno executable. With no version, upgrades to the")
	fmt.Println("latest published release.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --dry-run, -n   Fetch, extract, and verify without replacing deno")
	fmt.Println("  --force, -f     Reinstall even if the version is already satisfied")
	fmt.Println("  --help, -h      Show this help")
}

// consoleReporter renders pipeline stage boundaries as progress lines.
type consoleReporter struct{}

func (consoleReporter) CheckingLatest() {
	fmt.Println("Checking for latest version")
}

func (consoleReporter) ResolvedLatest(v *semver.Version) {
	fmt.Printf("The latest version is %s\n", v)
}

func (consoleReporter) FetchStarted(url string) {
	fmt.Printf("Downloading %s\n", url)
}

func (consoleReporter) FetchCompleted(size int) {
	fmt.Printf("Downloaded %d bytes\n", size)
}

func (consoleReporter) Unpacked(exePath string) {
	fmt.Printf("Extracted to %s\n", exePath)
}

func (consoleReporter) Verified(v *semver.Version) {
	fmt.Printf("Verified deno %s\n", v)
}

func (consoleReporter) Replaced(activePath string) {
	fmt.Printf("Replaced %s\n", activePath)
}
