package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dvmtools/dvm/internal/testutil"
)

func TestParseUpgradeArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    upgradeFlags
		wantErr bool
	}{
		{
			name: "no_args",
			args: nil,
			want: upgradeFlags{},
		},
		{
			name: "explicit_version",
			args: []string{"1.2.0"},
			want: upgradeFlags{version: "1.2.0"},
		},
		{
			name: "dry_run_long",
			args: []string{"--dry-run"},
			want: upgradeFlags{dryRun: true},
		},
		{
			name: "force_short_with_version",
			args: []string{"-f", "1.2.0"},
			want: upgradeFlags{force: true, version: "1.2.0"},
		},
		{
			name: "all_flags",
			args: []string{"1.2.0", "--dry-run", "--force"},
			want: upgradeFlags{version: "1.2.0", dryRun: true, force: true},
		},
		{
			name: "help",
			args: []string{"--help"},
			want: upgradeFlags{showHelp: true},
		},
		{
			name:    "unknown_flag",
			args:    []string{"--verbose"},
			wantErr: true,
		},
		{
			name:    "two_versions",
			args:    []string{"1.2.0", "1.3.0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseUpgradeArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseUpgradeArgs: %v", err)
			}
			if got != tt.want {
				t.Errorf("flags = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetDvmDirEnvOverride(t *testing.T) {
	t.Setenv("DVM_DIR", "/custom/dvm")

	dir, err := getDvmDir()
	if err != nil {
		t.Fatalf("getDvmDir: %v", err)
	}
	if dir != "/custom/dvm" {
		t.Errorf("dir = %q, want /custom/dvm", dir)
	}
}

func TestGetDvmDirDefault(t *testing.T) {
	t.Setenv("DVM_DIR", "")
	t.Setenv("HOME", t.TempDir())

	dir, err := getDvmDir()
	if err != nil {
		t.Fatalf("getDvmDir: %v", err)
	}
	if filepath.Base(dir) != ".dvm" {
		t.Errorf("dir = %q, want a .dvm directory", dir)
	}
}

func TestCurrentRuntimeVersion(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fake runtime requires a POSIX shell")
	}

	tests := []struct {
		name    string
		script  string
		want    string
		wantErr bool
	}{
		{
			name:   "reports_version",
			script: "#!/bin/sh\necho 'deno 1.2.0'\n",
			want:   "1.2.0",
		},
		{
			name:    "garbage_output",
			script:  "#!/bin/sh\necho 'deno'\n",
			wantErr: true,
		},
		{
			name:    "not_semver",
			script:  "#!/bin/sh\necho 'deno canary'\n",
			wantErr: true,
		},
		{
			name:    "non_zero_exit",
			script:  "#!/bin/sh\nexit 1\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exePath := testutil.WriteExecutable(t, t.TempDir(), "deno", tt.script)

			got, err := currentRuntimeVersion(exePath)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("currentRuntimeVersion: %v", err)
			}
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}
