package upgrade

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchSuccess(t *testing.T) {
	payload := []byte("archive-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	got, err := fetcher.Fetch(server.URL, "1.2.0")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("body = %q, want %q", got, payload)
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client())
	_, err := fetcher.Fetch(server.URL, "9.9.9")

	var notFound *VersionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *VersionNotFoundError", err)
	}
	if notFound.Version != "9.9.9" {
		t.Errorf("Version = %q, want 9.9.9", notFound.Version)
	}
}

func TestFetchServerError(t *testing.T) {
	statuses := []int{http.StatusForbidden, http.StatusInternalServerError, http.StatusBadGateway}

	for _, status := range statuses {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		fetcher := NewFetcher(server.Client())
		_, err := fetcher.Fetch(server.URL, "1.2.0")
		server.Close()

		var failed *DownloadFailedError
		if !errors.As(err, &failed) {
			t.Fatalf("status %d: error = %v, want *DownloadFailedError", status, err)
		}
		if failed.StatusCode != status {
			t.Errorf("StatusCode = %d, want %d", failed.StatusCode, status)
		}
	}
}

func TestFetchTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewFetcher(&http.Client{})
	_, err := fetcher.Fetch(url, "1.2.0")

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
}
