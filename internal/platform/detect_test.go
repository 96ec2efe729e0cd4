package platform

import (
	"context"
	"runtime"
	"testing"
)

func TestNormalizeArch(t *testing.T) {
	tests := []struct {
		name    string
		arch    string
		want    string
		wantErr bool
	}{
		{name: "amd64", arch: "amd64", want: "amd64"},
		{name: "x86_64_alias", arch: "x86_64", want: "amd64"},
		{name: "arm64", arch: "arm64", want: "arm64"},
		{name: "aarch64_alias", arch: "aarch64", want: "arm64"},
		{name: "unsupported_386", arch: "386", wantErr: true},
		{name: "unsupported_riscv", arch: "riscv64", wantErr: true},
		{name: "empty", arch: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeArch(tt.arch)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normalizeArch(%q): expected error", tt.arch)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeArch(%q): %v", tt.arch, err)
			}
			if got != tt.want {
				t.Errorf("normalizeArch(%q) = %q, want %q", tt.arch, got, tt.want)
			}
		})
	}
}

func TestNormalizePlatform(t *testing.T) {
	if got := normalizePlatform("  Ubuntu "); got != "ubuntu" {
		t.Errorf("normalizePlatform = %q, want %q", got, "ubuntu")
	}
	if got := normalizePlatform(""); got != "" {
		t.Errorf("normalizePlatform(empty) = %q", got)
	}
}

func TestDetectCurrentHost(t *testing.T) {
	detector := NewDetector()

	info, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", info.OS, runtime.GOOS)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %q, want %q", info.ArchRaw, runtime.GOARCH)
	}
	if info.Arch != "amd64" && info.Arch != "arm64" {
		t.Errorf("Arch = %q, expected normalized value", info.Arch)
	}
}

func TestGetDistro(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want bool
	}{
		{
			name: "linux_with_platform",
			info: &Info{OS: "linux", Platform: "ubuntu", Family: "debian", Version: "22.04"},
			want: true,
		},
		{
			name: "linux_no_platform",
			info: &Info{OS: "linux"},
			want: false,
		},
		{
			name: "darwin",
			info: &Info{OS: "darwin", Platform: "ubuntu"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distro := tt.info.GetDistro()
			if (distro != nil) != tt.want {
				t.Errorf("GetDistro() = %v, want present=%v", distro, tt.want)
			}
			if distro != nil && distro.ID != tt.info.Platform {
				t.Errorf("distro.ID = %q, want %q", distro.ID, tt.info.Platform)
			}
		})
	}
}
