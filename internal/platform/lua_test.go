package platform

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestInjectPlatformTable(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	info := &Info{
		OS:       "linux",
		Arch:     "amd64",
		ArchRaw:  "amd64",
		Platform: "ubuntu",
		Family:   "debian",
		Version:  "22.04",
	}

	if err := InjectPlatformTable(L, info); err != nil {
		t.Fatalf("InjectPlatformTable: %v", err)
	}

	checks := []struct {
		code string
		want string
	}{
		{code: `result = platform.os`, want: "linux"},
		{code: `result = platform.arch`, want: "amd64"},
		{code: `result = tostring(platform.is_linux)`, want: "true"},
		{code: `result = tostring(platform.is_windows)`, want: "false"},
		{code: `result = platform.distro.id`, want: "ubuntu"},
		{code: `result = platform.distro.family`, want: "debian"},
		{code: `result = platform.when(platform.is_linux, "yes") or "no"`, want: "yes"},
		{code: `result = platform.when(platform.is_windows, "yes") or "no"`, want: "no"},
	}

	for _, c := range checks {
		if err := L.DoString(c.code); err != nil {
			t.Fatalf("lua %q: %v", c.code, err)
		}
		got := L.GetGlobal("result").String()
		if got != c.want {
			t.Errorf("%q = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestPlatformTableIsReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "darwin", Arch: "arm64"}); err != nil {
		t.Fatalf("InjectPlatformTable: %v", err)
	}

	if err := L.DoString(`platform.os = "hacked"`); err == nil {
		t.Fatal("expected write to platform table to fail")
	}
}

func TestInjectPlatformTableNoDistro(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := InjectPlatformTable(L, &Info{OS: "windows", Arch: "amd64"}); err != nil {
		t.Fatalf("InjectPlatformTable: %v", err)
	}

	if err := L.DoString(`result = tostring(platform.distro == nil)`); err != nil {
		t.Fatalf("lua: %v", err)
	}
	if got := L.GetGlobal("result").String(); got != "true" {
		t.Errorf("distro = %q, want nil", got)
	}
}
