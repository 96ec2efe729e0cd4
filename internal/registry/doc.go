// Package registry persists the mapping from user-declared version
// requirements to the concrete installed version that satisfies each one.
//
// The registry lives at $DVM_DIR/registry.lua as generated, human-readable
// Lua. It is written deterministically by the Store and re-parsed in a
// sandboxed VM, so a hand-edited file cannot execute anything.
//
// A mapping is valid iff its resolved version directory still exists under
// the version cache root and holds a non-empty executable. The cleanup flow
// drops invalid mappings and then removes version directories no remaining
// mapping references.
package registry
