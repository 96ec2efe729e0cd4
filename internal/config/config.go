// Package config loads the optional dvm settings file.
//
// Settings live at $DVM_DIR/dvm.lua and are executed in a sandboxed Lua VM
// with a read-only `platform` table injected, so a settings file can make
// platform-conditional choices (e.g. a different release mirror per OS)
// without dvm growing flags for every knob.
package config

import (
	"context"
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dvmtools/dvm/internal/platform"
)

// SettingsFileName is the settings file's name under the dvm root.
const SettingsFileName = "dvm.lua"

// Settings holds user-tunable configuration. Zero values mean "use the
// built-in default".
type Settings struct {
	// RegistryHost overrides the release host archives are fetched from
	// (mirror support).
	RegistryHost string
	// ArchiveName overrides the platform profile's release asset name.
	ArchiveName string
}

// ParseError is a settings parsing failure with a user-facing message and
// the raw Lua detail.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// Parser parses settings files with platform information injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a settings parser. detector may be nil, in which case no
// platform table is injected (used by tests that don't exercise it).
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile loads settings from path. A missing file yields zero Settings.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString parses settings from Lua source.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Settings, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	return extractSettings(L)
}

// newSandboxedVM creates a Lua VM with the dangerous globals removed: no os,
// io, require, load, or debug. string/table/math stay available.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range []string{"os", "io", "require", "dofile", "loadfile", "load", "loadstring", "debug"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// extractSettings pulls the settings out of the global dvm table. A missing
// table means an intentionally empty settings file.
func extractSettings(L *lua.LState) (*Settings, error) {
	dvmVal := L.GetGlobal("dvm")
	if dvmVal.Type() == lua.LTNil {
		return &Settings{}, nil
	}
	if dvmVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "invalid 'dvm' table",
			Detail:  fmt.Sprintf("expected table, got %s", dvmVal.Type()),
		}
	}

	table := dvmVal.(*lua.LTable)
	settings := &Settings{}

	host, err := optionalString(table, "registry_host")
	if err != nil {
		return nil, err
	}
	settings.RegistryHost = host

	archive, err := optionalString(table, "archive_name")
	if err != nil {
		return nil, err
	}
	settings.ArchiveName = archive

	return settings, nil
}

// optionalString reads a string field that may be absent (or nil via
// platform.when).
func optionalString(table *lua.LTable, field string) (string, error) {
	val := table.RawGetString(field)
	switch val.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return val.String(), nil
	default:
		return "", &ParseError{
			Message: fmt.Sprintf("invalid '%s' field", field),
			Detail:  fmt.Sprintf("expected string, got %s", val.Type()),
		}
	}
}
