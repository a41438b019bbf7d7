package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPFileFetcher resolves attachment references against the transport's
// file endpoint: GET {base}/{fileID}.
type HTTPFileFetcher struct {
	base   string
	client *http.Client
}

// NewHTTPFileFetcher creates a fetcher for the given file endpoint base URL.
func NewHTTPFileFetcher(base string) *HTTPFileFetcher {
	return &HTTPFileFetcher{
		base: strings.TrimRight(base, "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Fetch streams the attachment body. The caller closes the reader.
func (f *HTTPFileFetcher) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/%s", f.base, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("file endpoint returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}
