package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dvmtools/dvm/internal/platform"
	"github.com/dvmtools/dvm/internal/registry"
	"github.com/dvmtools/dvm/internal/transaction"
)

// runClean handles the `dvm clean` subcommand: drop mappings whose version
// directory is gone, then remove version directories nothing references.
func runClean(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			fmt.Println("Usage: dvm clean")
			fmt.Println()
			fmt.Println("Removes stale requirement mappings and orphaned version directories.")
			return nil
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
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

	lock, err := transaction.AcquireLock(dvmDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	store, err := registry.Open(dvmDir, profile.ExeName)
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}

	removedMappings, removedDirs, err := store.Clean()
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	for _, required := range removedMappings {
		fmt.Printf("Removed stale mapping: %s\n", required)
	}
	for _, dir := range removedDirs {
		fmt.Printf("Removed version directory: %s\n", dir)
	}

	fmt.Println("Cleaned successfully")
	return nil
}
