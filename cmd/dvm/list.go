package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/dvmtools/dvm/internal/registry"
)

// runList handles the `dvm list` subcommand: print installed versions from
// the cache root, marking the one the active executable reports.
func runList(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			fmt.Println("Usage: dvm list")
			fmt.Println()
			fmt.Println("Lists installed deno versions. The active version is marked with '*'.")
			return nil
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	dvmDir, err := getDvmDir()
	if err != nil {
		return err
	}

	versions, err := installedVersions(filepath.Join(dvmDir, registry.VersionsDirName))
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("No versions installed")
		return nil
	}

	active := activeVersion()
	for _, v := range versions {
		if v.String() == active {
			fmt.Printf("* %s\n", v)
		} else {
			fmt.Printf("  %s\n", v)
		}
	}

	return nil
}

// installedVersions returns version directory names under the cache root,
// sorted ascending. Directories that are not valid versions are skipped.
func installedVersions(versionsDir string) ([]*semver.Version, error) {
	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read versions dir: %w", err)
	}

	var versions []*semver.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.StrictNewVersion(e.Name())
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}

	sort.Sort(semver.Collection(versions))
	return versions, nil
}

// activeVersion returns the version the active executable self-reports, or
// "" if there is no active executable.
func activeVersion() string {
	activePath, err := exec.LookPath("deno")
	if err != nil {
		return ""
	}

	cmd := exec.Command(activePath, "-V")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}

	fields := strings.Fields(stdout.String())
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
