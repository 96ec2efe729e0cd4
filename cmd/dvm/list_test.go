package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dvmtools/dvm/internal/testutil"
)

func TestInstalledVersionsSorted(t *testing.T) {
	dvmDir := testutil.SetupTestEnv(t)
	versionsDir := filepath.Join(dvmDir, "versions")

	for _, name := range []string{"1.10.0", "1.2.0", "0.9.0", "not-a-version", "tmp"} {
		if err := os.MkdirAll(filepath.Join(versionsDir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	// A stray file must be ignored too.
	if err := os.WriteFile(filepath.Join(versionsDir, "1.5.0"), []byte("file, not dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	versions, err := installedVersions(versionsDir)
	if err != nil {
		t.Fatalf("installedVersions: %v", err)
	}

	want := []string{"0.9.0", "1.2.0", "1.10.0"}
	if len(versions) != len(want) {
		t.Fatalf("versions = %v, want %v", versions, want)
	}
	for i, w := range want {
		if versions[i].String() != w {
			t.Errorf("versions[%d] = %s, want %s", i, versions[i], w)
		}
	}
}

func TestInstalledVersionsMissingRoot(t *testing.T) {
	versions, err := installedVersions(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("installedVersions: %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("versions = %v, want none", versions)
	}
}

func TestRunListEmpty(t *testing.T) {
	testutil.SetupTestEnv(t)

	if err := runList(nil); err != nil {
		t.Fatalf("runList: %v", err)
	}
}
