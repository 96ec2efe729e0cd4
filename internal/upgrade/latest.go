package upgrade

import (
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// latestVersionRe matches a version number immediately followed by
// whitespace, as rendered in the release page's link text. The trailing
// whitespace requirement keeps other numeric-looking substrings from
// matching.
var latestVersionRe = regexp.MustCompile(`v(\d+\.\d+\.\d+)\s`)

// LatestResolver discovers the newest published version by scraping the
// "latest release" page. A single failed fetch is reported to the caller;
// there is no retry.
type LatestResolver struct {
	client *http.Client
	url    string
}

// NewLatestResolver creates a resolver for the given release-listing URL.
func NewLatestResolver(client *http.Client, url string) *LatestResolver {
	return &LatestResolver{client: client, url: url}
}

// Latest fetches the release page and extracts the first version token.
func (r *LatestResolver) Latest() (*semver.Version, error) {
	resp, err := r.client.Get(r.url)
	if err != nil {
		return nil, &NetworkError{URL: r.url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: r.url, Err: err}
	}

	match := latestVersionRe.FindSubmatch(body)
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrLatestNotFound, r.url)
	}

	version, err := semver.StrictNewVersion(string(match[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, string(match[1]))
	}

	return version, nil
}
