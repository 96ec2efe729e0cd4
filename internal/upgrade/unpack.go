package upgrade

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/dvmtools/dvm/internal/platform"
)

// powershellExtract is the inline script used on Windows to unpack the zip
// with the framework's native ZipFile facility.
const powershellExtract = `& {
	param($Path, $DestinationPath)
	trap { $host.ui.WriteErrorLine($_.Exception); exit 1 }
	Add-Type -AssemblyName System.IO.Compression.FileSystem
	[System.IO.Compression.ZipFile]::ExtractToDirectory($Path, $DestinationPath);
}`

// Unpacker materializes the runtime executable from raw archive bytes into a
// version-scoped directory under the cache root. Dispatch is purely by the
// host's platform profile; there is no archive-format sniffing.
type Unpacker struct {
	versionsDir string
	profile     *platform.Profile
}

// NewUnpacker creates an unpacker rooted at the version cache directory.
func NewUnpacker(versionsDir string, profile *platform.Profile) *Unpacker {
	return &Unpacker{versionsDir: versionsDir, profile: profile}
}

// Unpack extracts archive bytes for the given version and returns the path
// of the extracted executable. On failure the partially-populated version
// directory is left in place for the next cleanup run.
func (u *Unpacker) Unpack(archive []byte, version *semver.Version) (string, error) {
	versionDir := filepath.Join(u.versionsDir, version.String())
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		return "", fmt.Errorf("create version dir: %w", err)
	}

	exePath := filepath.Join(versionDir, u.profile.ExeName)

	var err error
	switch u.profile.Extract {
	case platform.ExtractGzipPipe:
		err = unpackGzipPipe(archive, exePath)
	case platform.ExtractPowershell:
		err = unpackPowershell(archive, versionDir)
	case platform.ExtractUnzip:
		err = unpackUnzip(archive, versionDir)
	default:
		return "", &ExtractionError{
			Tool: u.profile.Extract.String(),
			Err:  fmt.Errorf("unsupported extract strategy"),
		}
	}
	if err != nil {
		return "", err
	}

	// Postcondition: the executable must exist regardless of what the
	// external process claimed.
	if _, err := os.Stat(exePath); err != nil {
		return "", &ExtractionError{
			Tool: u.profile.Extract.String(),
			Err:  fmt.Errorf("executable missing after extraction: %w", err),
		}
	}

	return exePath, nil
}

// unpackGzipPipe streams archive bytes through gunzip directly into the
// destination executable file. No intermediate archive is written to disk.
func unpackGzipPipe(archive []byte, exePath string) error {
	out, err := os.Create(exePath)
	if err != nil {
		return fmt.Errorf("create executable file: %w", err)
	}
	defer out.Close()

	cmd := exec.Command("gunzip", "-c")
	cmd.Stdin = bytes.NewReader(archive)
	cmd.Stdout = out

	if err := cmd.Run(); err != nil {
		return &ExtractionError{Tool: "gunzip", Err: err}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close executable file: %w", err)
	}

	return nil
}

// unpackPowershell writes the zip into the version directory and extracts it
// with the Windows-native ZipFile facility.
func unpackPowershell(archive []byte, versionDir string) error {
	archivePath, err := writeArchive(archive, versionDir)
	if err != nil {
		return err
	}

	cmd := exec.Command("powershell.exe",
		"-NoLogo", "-NoProfile", "-NonInteractive",
		"-Command", powershellExtract,
		"-Path", fmt.Sprintf("'%s'", archivePath),
		"-DestinationPath", fmt.Sprintf("'%s'", versionDir),
	)

	if err := cmd.Run(); err != nil {
		return &ExtractionError{Tool: "powershell.exe", Err: err}
	}

	return nil
}

// unpackUnzip writes the zip into the version directory and extracts it with
// the external unzip utility, using the version directory as working
// directory.
func unpackUnzip(archive []byte, versionDir string) error {
	archivePath, err := writeArchive(archive, versionDir)
	if err != nil {
		return err
	}

	cmd := exec.Command("unzip", "-o", archivePath)
	cmd.Dir = versionDir

	if err := cmd.Run(); err != nil {
		return &ExtractionError{Tool: "unzip", Err: err}
	}

	return nil
}

// writeArchive stores the raw zip next to where it will be extracted. The
// archive is transient; the cleanup flow removes orphaned version dirs.
func writeArchive(archive []byte, versionDir string) (string, error) {
	archivePath := filepath.Join(versionDir, "deno.zip")
	if err := os.WriteFile(archivePath, archive, 0o644); err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}
	return archivePath, nil
}
