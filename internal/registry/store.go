package registry

import (
	"fmt"
	"os"
	"path/filepath"
)

// RegistryFileName is the registry file's name under the dvm root.
const RegistryFileName = "registry.lua"

// VersionsDirName is the version cache root's name under the dvm root.
const VersionsDirName = "versions"

// Entry associates one declared requirement with the resolved version
// currently believed to satisfy it.
type Entry struct {
	// Required is the requirement specifier as the user declared it.
	Required string
	// Version is the installed version resolved for the requirement.
	Version string
}

// Store is the persistent requirement → version mapping. Entries keep their
// insertion order so the generated file is stable across rewrites.
type Store struct {
	path        string
	versionsDir string
	exeName     string
	entries     []Entry
}

// Open loads the registry under dvmDir. A missing registry file yields an
// empty store; a malformed one is an error. exeName is the executable file
// expected inside each version directory.
func Open(dvmDir, exeName string) (*Store, error) {
	if dvmDir == "" {
		return nil, fmt.Errorf("dvm dir is required")
	}

	s := &Store{
		path:        filepath.Join(dvmDir, RegistryFileName),
		versionsDir: filepath.Join(dvmDir, VersionsDirName),
		exeName:     exeName,
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	entries, err := parseRegistry(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	s.entries = entries

	return s, nil
}

// VersionsDir returns the version cache root this store validates against.
func (s *Store) VersionsDir() string {
	return s.versionsDir
}

// Entries returns a copy of all mapping entries.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the resolved version for a requirement, if mapped.
func (s *Store) Lookup(required string) (string, bool) {
	for _, e := range s.entries {
		if e.Required == required {
			return e.Version, true
		}
	}
	return "", false
}

// SetVersionMapping records that required resolves to version, overwriting
// any previous mapping for the same requirement.
func (s *Store) SetVersionMapping(required, version string) {
	for i, e := range s.entries {
		if e.Required == required {
			s.entries[i].Version = version
			return
		}
	}
	s.entries = append(s.entries, Entry{Required: required, Version: version})
}

// DeleteVersionMapping removes the entry for a requirement. Removing an
// absent requirement is a no-op.
func (s *Store) DeleteVersionMapping(required string) {
	for i, e := range s.entries {
		if e.Required == required {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// IsValidMapping reports whether the entry's resolved version directory
// still exists and holds a non-empty executable.
func (s *Store) IsValidMapping(e Entry) bool {
	dir := filepath.Join(s.versionsDir, e.Version)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}

	exe, err := os.Stat(filepath.Join(dir, s.exeName))
	if err != nil {
		return false
	}
	return exe.Mode().IsRegular() && exe.Size() > 0
}

// Save writes the registry file. The write goes through a temp file and an
// atomic rename so a crash never leaves a truncated registry.
func (s *Store) Save() error {
	content := generateRegistry(s.entries)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create registry dir: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write registry temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename registry: %w", err)
	}

	return nil
}

// CleanFiles removes version directories under the cache root that no
// mapping references. Non-directory stragglers in the cache root are left
// alone.
func (s *Store) CleanFiles() ([]string, error) {
	referenced := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		referenced[e.Version] = true
	}

	dirEntries, err := os.ReadDir(s.versionsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read versions dir: %w", err)
	}

	var removed []string
	for _, de := range dirEntries {
		if !de.IsDir() || referenced[de.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.versionsDir, de.Name())); err != nil {
			return removed, fmt.Errorf("remove version dir %s: %w", de.Name(), err)
		}
		removed = append(removed, de.Name())
	}

	return removed, nil
}

// Clean is the cleanup flow: drop every mapping whose version directory is
// gone, prune unreferenced version directories, and persist the surviving
// mappings. A missing cache root makes the whole cleanup a successful no-op.
func (s *Store) Clean() (removedMappings []string, removedDirs []string, err error) {
	if _, err := os.Stat(s.versionsDir); os.IsNotExist(err) {
		return nil, nil, nil
	}

	for _, e := range s.Entries() {
		if !s.IsValidMapping(e) {
			s.DeleteVersionMapping(e.Required)
			removedMappings = append(removedMappings, e.Required)
		}
	}

	removedDirs, err = s.CleanFiles()
	if err != nil {
		return removedMappings, removedDirs, err
	}

	if err := s.Save(); err != nil {
		return removedMappings, removedDirs, err
	}

	return removedMappings, removedDirs, nil
}
