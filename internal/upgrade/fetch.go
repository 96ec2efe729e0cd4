package upgrade

import (
	"io"
	"net/http"
)

// Fetcher downloads a platform archive with a single GET request. Responses
// are classified in priority order: transport failure, 404, other 4xx/5xx,
// success. The whole body is buffered before unpacking begins, bounding peak
// memory by archive size.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher using the given HTTP client.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the archive at url for the given version string.
// The version is only used to shape the not-found error.
func (f *Fetcher) Fetch(url, version string) ([]byte, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &VersionNotFoundError{Version: version, URL: url}
	case resp.StatusCode >= 400:
		return nil, &DownloadFailedError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	return body, nil
}
