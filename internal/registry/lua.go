package registry

import (
	"bytes"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// ParseError is a registry parsing failure with a user-facing message and
// the raw Lua detail.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// newSandboxedVM creates a Lua VM with the dangerous globals removed. The
// registry is machine-generated, but users may hand-edit it, so it gets the
// same sandbox as any other Lua input: no os, io, require, load, or debug.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	for _, name := range []string{"os", "io", "require", "dofile", "loadfile", "load", "loadstring", "debug"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// parseRegistry executes registry Lua and extracts the mapping entries from
// the global dvm table.
func parseRegistry(code string) ([]Entry, error) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(code); err != nil {
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	dvmTable := L.GetGlobal("dvm")
	if dvmTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'dvm' table",
			Detail:  fmt.Sprintf("expected table, got %s", dvmTable.Type()),
		}
	}

	mappingsVal := dvmTable.(*lua.LTable).RawGetString("mappings")
	if mappingsVal.Type() == lua.LTNil {
		return nil, nil
	}
	if mappingsVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "invalid 'mappings' field",
			Detail:  fmt.Sprintf("expected table, got %s", mappingsVal.Type()),
		}
	}

	var entries []Entry
	var parseErr error
	mappingsVal.(*lua.LTable).ForEach(func(_, value lua.LValue) {
		if parseErr != nil {
			return
		}
		entryTable, ok := value.(*lua.LTable)
		if !ok {
			parseErr = &ParseError{
				Message: "invalid mapping entry",
				Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
			}
			return
		}

		required := entryTable.RawGetString("required")
		version := entryTable.RawGetString("version")
		if required.Type() != lua.LTString || version.Type() != lua.LTString {
			parseErr = &ParseError{
				Message: "invalid mapping entry",
				Detail:  "'required' and 'version' must be strings",
			}
			return
		}

		entries = append(entries, Entry{
			Required: required.String(),
			Version:  version.String(),
		})
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return entries, nil
}

// generateRegistry renders the mapping entries as registry Lua. Entries keep
// their stored order so rewrites are diffable.
func generateRegistry(entries []Entry) string {
	var buf bytes.Buffer

	buf.WriteString("-- dvm registry\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(time.Now().UTC().Format(time.RFC3339))
	buf.WriteString("\n\n")

	buf.WriteString("dvm = {\n")
	buf.WriteString("  mappings = {\n")
	for _, e := range entries {
		buf.WriteString(fmt.Sprintf("    { required = %q, version = %q },\n", e.Required, e.Version))
	}
	buf.WriteString("  },\n")
	buf.WriteString("}\n")

	return buf.String()
}
