// Package fetchflag downloads country-flag images over HTTP. It is the
// download collaborator for the dispatcher: its Fetch method has the
// job-function shape and reports failures using the outcome taxonomy,
// so a 404 tallies as "not found" while connection faults and other
// status codes tally as errors with distinguishable messages.
package fetchflag

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rahulmenon/batchpool/outcome"
)

// DefaultBaseURL serves the flag images of the original dataset.
const DefaultBaseURL = "https://www.fluentpython.com/data/flags"

// Pop20 lists the country codes of the 20 most populous countries, the
// default batch for the download demo.
var Pop20 = []string{
	"CN", "IN", "US", "ID", "BR", "PK", "NG", "BD", "RU", "JP",
	"MX", "PH", "VN", "ET", "EG", "DE", "IR", "TR", "CD", "FR",
}

// Fetcher downloads one flag image per country code. The zero value is
// not usable; construct with New.
type Fetcher struct {
	baseURL string
	destDir string
	client  *http.Client
}

// New returns a Fetcher for the given base URL. If destDir is
// non-empty, every fetched image is also written to
// destDir/<CC>.gif. Requests time out after 3.1 seconds and follow
// redirects.
func New(baseURL, destDir string) *Fetcher {
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		destDir: destDir,
		client:  &http.Client{Timeout: 3100 * time.Millisecond},
	}
}

// Fetch downloads the flag image for the country code cc and returns
// its bytes. It has the job-function shape and is safe for concurrent
// use by many workers.
//
// Failures map onto the outcome taxonomy: HTTP 404 returns a
// *outcome.StatusError that classifies as NotFound, other non-2xx
// codes return *outcome.StatusError, and network-level faults return
// *outcome.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, cc string) ([]byte, error) {
	lower := strings.ToLower(cc)
	url := fmt.Sprintf("%s/%s/%s.gif", f.baseURL, lower, lower)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchflag: build request for %s: %w", cc, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &outcome.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &outcome.StatusError{Code: resp.StatusCode, URL: url}
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &outcome.TransportError{URL: url, Err: err}
	}

	if f.destDir != "" {
		if err := f.save(cc, img); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (f *Fetcher) save(cc string, img []byte) error {
	if err := os.MkdirAll(f.destDir, 0o755); err != nil {
		return fmt.Errorf("fetchflag: create dest dir: %w", err)
	}
	path := filepath.Join(f.destDir, strings.ToUpper(cc)+".gif")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		return fmt.Errorf("fetchflag: save %s: %w", cc, err)
	}
	return nil
}
