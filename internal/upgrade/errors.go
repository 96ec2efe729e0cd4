package upgrade

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVersion indicates a malformed user-supplied version string.
	ErrInvalidVersion = errors.New("invalid semantic version")
	// ErrLatestNotFound indicates the release page held no version token.
	ErrLatestNotFound = errors.New("cannot read latest version tag")
)

// NetworkError is a transport-level failure (DNS, connection refused,
// timeout). It aborts the whole command; there is nothing to continue with.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// VersionNotFoundError indicates the requested release/platform archive does
// not exist (HTTP 404).
type VersionNotFoundError struct {
	Version string
	URL     string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s has not been found: %s", e.Version, e.URL)
}

// DownloadFailedError indicates the server rejected the archive request with
// a non-404 4xx/5xx status.
type DownloadFailedError struct {
	URL        string
	StatusCode int
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download %s failed: HTTP %d", e.URL, e.StatusCode)
}

// ExtractionError indicates the external unpack process failed or the
// destination executable is missing afterwards. The partially-populated
// version directory is left on disk for the next cleanup run.
type ExtractionError struct {
	Tool string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed (%s): %v", e.Tool, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// VerificationError indicates the extracted executable did not report the
// expected version. Replacement is never attempted after this.
type VerificationError struct {
	Expected string
	Got      string
	Err      error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("verification failed (expected %q): %v", e.Expected, e.Err)
	}
	return fmt.Sprintf("verification failed: executable reports %q, expected %q", e.Got, e.Expected)
}

func (e *VerificationError) Unwrap() error { return e.Err }
