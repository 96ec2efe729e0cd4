package platform

import "fmt"

// ExtractStrategy selects how an archive is unpacked on this host.
type ExtractStrategy int

const (
	// ExtractGzipPipe pipes archive bytes through gunzip directly into the
	// destination executable (no intermediate file on disk).
	ExtractGzipPipe ExtractStrategy = iota
	// ExtractPowershell writes the zip to disk and extracts it with the
	// Windows-native ZipFile facility via powershell.exe.
	ExtractPowershell
	// ExtractUnzip writes the zip to disk and extracts it with the external
	// unzip utility, run with the version directory as working directory.
	ExtractUnzip
)

// String returns the string representation of the extract strategy.
func (s ExtractStrategy) String() string {
	switch s {
	case ExtractGzipPipe:
		return "gunzip-pipe"
	case ExtractPowershell:
		return "powershell"
	case ExtractUnzip:
		return "unzip"
	default:
		return "unknown"
	}
}

// ReplaceStrategy selects how the active executable is swapped out.
type ReplaceStrategy int

const (
	// ReplaceRemove deletes the active executable, then copies the new one
	// into its place. Used where a running binary may be unlinked.
	ReplaceRemove ReplaceStrategy = iota
	// ReplaceRenameAside renames the active executable to a sibling ".old"
	// name before copying, because the OS forbids deleting a running binary.
	ReplaceRenameAside
)

// String returns the string representation of the replace strategy.
func (s ReplaceStrategy) String() string {
	switch s {
	case ReplaceRemove:
		return "remove"
	case ReplaceRenameAside:
		return "rename-aside"
	default:
		return "unknown"
	}
}

// Profile is the platform capability variant resolved once at startup and
// threaded through the upgrade pipeline. It replaces scattered GOOS checks
// with a single tagged value.
type Profile struct {
	// ArchiveName is the fixed release asset name for this host.
	ArchiveName string
	// ExeName is the runtime executable's file name ("deno" or "deno.exe").
	ExeName string
	// Extract selects the unpack implementation for ArchiveName's extension.
	Extract ExtractStrategy
	// Replace selects the active-executable swap implementation.
	Replace ReplaceStrategy
}

// target triples used in release asset names, keyed by normalized arch.
var targetArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "aarch64",
}

// ResolveProfile maps detected platform information to the capability
// profile for this host. Unsupported OS/arch combinations are an error,
// not a runtime condition to recover from.
func ResolveProfile(info *Info) (*Profile, error) {
	if info == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	arch, ok := targetArch[info.Arch]
	if !ok {
		return nil, fmt.Errorf("unsupported architecture: %s", info.Arch)
	}

	switch info.OS {
	case "linux":
		return &Profile{
			ArchiveName: fmt.Sprintf("deno-%s-unknown-linux-gnu.gz", arch),
			ExeName:     "deno",
			Extract:     ExtractGzipPipe,
			Replace:     ReplaceRemove,
		}, nil
	case "darwin":
		return &Profile{
			ArchiveName: fmt.Sprintf("deno-%s-apple-darwin.zip", arch),
			ExeName:     "deno",
			Extract:     ExtractUnzip,
			Replace:     ReplaceRemove,
		}, nil
	case "windows":
		return &Profile{
			ArchiveName: fmt.Sprintf("deno-%s-pc-windows-msvc.zip", arch),
			ExeName:     "deno.exe",
			Extract:     ExtractPowershell,
			Replace:     ReplaceRenameAside,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", info.OS)
	}
}
