// Package upgrade implements the resolve → fetch → unpack → verify → replace
// pipeline that moves the active deno executable to a new release.
//
// # Pipeline
//
//  1. Decide the target version: parse an explicit version string, or scrape
//     the latest release page when none was given. Equal/older targets
//     short-circuit unless forced, performing no network calls.
//  2. Fetch the platform archive for the target version (one GET, whole body
//     buffered; archives are tens of megabytes).
//  3. Unpack into the version cache directory using the host's platform
//     profile (gunzip pipe, powershell, or unzip).
//  4. Verify the extracted executable actually reports the target version.
//  5. Replace the active executable, unless this is a dry run.
//
// Every stage returns a typed failure from the taxonomy in errors.go; no
// stage retries, and the first failure stops the pipeline. The command layer
// is the only place errors are rendered and turned into exit codes.
//
// # Architecture
//
// The package is organized into several components:
//   - Pipeline: high-level orchestration and short-circuit decisions
//   - LatestResolver: release-page scrape for the newest published version
//   - Fetcher: single-shot archive download with HTTP outcome classification
//   - Unpacker: archive extraction dispatched by platform profile
//   - Verifier: version self-report check on the extracted executable
//   - Replacer: platform-conditional swap of the active executable
package upgrade
