package upgrade

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/dvmtools/dvm/internal/platform"
)

const (
	// DefaultRegistryHost is the release host archives are fetched from.
	// Mirrors can be configured via the settings file.
	DefaultRegistryHost = "https://github.com"
	// releasesPath locates deno releases under the registry host.
	releasesPath = "/denoland/deno/releases"
	// DefaultTimeout is the HTTP request timeout for both the release page
	// and the archive download. There is no further timeout layer.
	DefaultTimeout = 5 * time.Minute
)

// Reporter receives structured status at each stage boundary so a caller can
// render progress. Implementations must not fail; reporting is one-way.
type Reporter interface {
	CheckingLatest()
	ResolvedLatest(version *semver.Version)
	FetchStarted(url string)
	FetchCompleted(size int)
	Unpacked(exePath string)
	Verified(version *semver.Version)
	Replaced(activePath string)
}

// noopReporter is the default Reporter when none is provided.
type noopReporter struct{}

func (noopReporter) CheckingLatest()                {}
func (noopReporter) ResolvedLatest(*semver.Version) {}
func (noopReporter) FetchStarted(string)            {}
func (noopReporter) FetchCompleted(int)             {}
func (noopReporter) Unpacked(string)                {}
func (noopReporter) Verified(*semver.Version)       {}
func (noopReporter) Replaced(string)                {}

// Status describes how a pipeline run concluded.
type Status int

const (
	// StatusUpgraded means the active executable was replaced.
	StatusUpgraded Status = iota
	// StatusAlreadyInstalled means the explicit version equals the current
	// one and force was off; nothing was fetched.
	StatusAlreadyInstalled
	// StatusMostRecent means the latest release is not newer than the
	// current version and force was off.
	StatusMostRecent
	// StatusDryRun means fetch/unpack/verify all succeeded but replacement
	// was skipped.
	StatusDryRun
)

// Result is the outcome of a successful pipeline run.
type Result struct {
	Version *semver.Version
	Status  Status
	// ExePath is the extracted executable inside the version cache. Empty
	// when the run short-circuited before fetching.
	ExePath string
}

// Options are the per-invocation pipeline inputs.
type Options struct {
	// Version is the explicit target version; empty means "latest".
	Version string
	Force   bool
	DryRun  bool
}

// Config wires a Pipeline.
type Config struct {
	// Profile is the host platform capability profile.
	Profile *platform.Profile
	// VersionsDir is the version cache root.
	VersionsDir string
	// ActivePath is the currently active executable's path.
	ActivePath string
	// CurrentVersion is the active executable's compiled-in version.
	CurrentVersion string
	// RegistryHost overrides DefaultRegistryHost (mirror support).
	RegistryHost string
	// Reporter receives stage-boundary status. Optional.
	Reporter Reporter
	// Client overrides the HTTP client. Optional; defaults carry only the
	// request timeout.
	Client *http.Client
}

// Pipeline orchestrates an upgrade end to end. It is single-shot and
// synchronous: each stage runs to completion before the next begins.
type Pipeline struct {
	profile     *platform.Profile
	versionsDir string
	activePath  string
	current     *semver.Version
	host        string
	resolver    *LatestResolver
	fetcher     *Fetcher
	unpacker    *Unpacker
	verifier    *Verifier
	replacer    *Replacer
	reporter    Reporter
}

// NewPipeline validates the config and builds a pipeline.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Profile == nil {
		return nil, fmt.Errorf("platform profile is required")
	}
	if cfg.VersionsDir == "" {
		return nil, fmt.Errorf("versions dir is required")
	}
	if cfg.ActivePath == "" {
		return nil, fmt.Errorf("active executable path is required")
	}

	current, err := semver.StrictNewVersion(cfg.CurrentVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: current version %q", ErrInvalidVersion, cfg.CurrentVersion)
	}

	host := cfg.RegistryHost
	if host == "" {
		host = DefaultRegistryHost
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = noopReporter{}
	}

	return &Pipeline{
		profile:     cfg.Profile,
		versionsDir: cfg.VersionsDir,
		activePath:  cfg.ActivePath,
		current:     current,
		host:        host,
		resolver:    NewLatestResolver(client, host+releasesPath+"/latest"),
		fetcher:     NewFetcher(client),
		unpacker:    NewUnpacker(cfg.VersionsDir, cfg.Profile),
		verifier:    NewVerifier(),
		replacer:    NewReplacer(cfg.Profile.Replace),
		reporter:    reporter,
	}, nil
}

// Run executes the pipeline. The first failing stage aborts the run; there
// is no partial-success reporting and no internal retry.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	target, shortCircuit, err := p.decideTarget(opts)
	if err != nil {
		return nil, err
	}
	if shortCircuit != nil {
		return shortCircuit, nil
	}

	url := p.archiveURL(target)

	p.reporter.FetchStarted(url)
	archive, err := p.fetcher.Fetch(url, target.String())
	if err != nil {
		return nil, err
	}
	p.reporter.FetchCompleted(len(archive))

	exePath, err := p.unpacker.Unpack(archive, target)
	if err != nil {
		return nil, err
	}
	p.reporter.Unpacked(exePath)

	// Permission bits come from the old active executable, not from archive
	// metadata: zip on some platforms records no execute bit at all.
	if err := p.propagatePermissions(exePath); err != nil {
		return nil, err
	}

	if err := p.verifier.Verify(exePath, target); err != nil {
		return nil, err
	}
	p.reporter.Verified(target)

	if opts.DryRun {
		return &Result{Version: target, Status: StatusDryRun, ExePath: exePath}, nil
	}

	if err := p.replacer.Replace(exePath, p.activePath); err != nil {
		return nil, err
	}
	p.reporter.Replaced(p.activePath)

	return &Result{Version: target, Status: StatusUpgraded, ExePath: exePath}, nil
}

// decideTarget resolves the version to install, or a short-circuit result
// when the requirement is already satisfied. The short-circuit paths perform
// zero network calls for an explicit version.
func (p *Pipeline) decideTarget(opts Options) (*semver.Version, *Result, error) {
	if opts.Version != "" {
		target, err := semver.StrictNewVersion(opts.Version)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidVersion, opts.Version)
		}
		if !opts.Force && target.Equal(p.current) {
			return nil, &Result{Version: target, Status: StatusAlreadyInstalled}, nil
		}
		return target, nil, nil
	}

	p.reporter.CheckingLatest()
	latest, err := p.resolver.Latest()
	if err != nil {
		return nil, nil, err
	}
	p.reporter.ResolvedLatest(latest)

	if !opts.Force && !latest.GreaterThan(p.current) {
		return nil, &Result{Version: latest, Status: StatusMostRecent}, nil
	}
	return latest, nil, nil
}

// archiveURL composes the versioned download URL for this host's archive.
func (p *Pipeline) archiveURL(version *semver.Version) string {
	return fmt.Sprintf("%s%s/download/v%s/%s", p.host, releasesPath, version, p.profile.ArchiveName)
}

// propagatePermissions copies the old active executable's permission bits
// onto the freshly extracted one.
func (p *Pipeline) propagatePermissions(exePath string) error {
	info, err := os.Stat(p.activePath)
	if err != nil {
		return fmt.Errorf("stat active executable: %w", err)
	}
	if err := os.Chmod(exePath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	return nil
}
