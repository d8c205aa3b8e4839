// Package ingest fetches provider-native records from the upstream hazard
// feeds. Fetchers are the fusion core's external collaborators: they own
// transport and parsing into raw record shapes, and nothing else. Every
// fetch honors its context, so the service's per-source timeout bounds each
// feed independently.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// httpTimeout is the transport-level ceiling; the per-source context
// deadline set by the caller is usually tighter.
const httpTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// get issues a GET honoring ctx and returns the response body reader. The
// caller must close it.
func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "hazard-fusion/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("doing request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}
	return resp.Body, nil
}
