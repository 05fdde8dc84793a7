// Package netx holds HTTP helpers that do not belong to the catalog API.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// WarmRange asks url for its first n bytes and drains them, so that the
// connection and any intermediate caches are primed for the real request.
// It returns the number of bytes read. Servers that ignore Range are fine:
// reading stops after n bytes either way.
func WarmRange(ctx context.Context, client *http.Client, url string, n int64) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create warm request: %w", err)
	}
	if n > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("warm %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, fmt.Errorf("warm %s: unexpected status %s", url, resp.Status)
	}

	read, err := io.Copy(io.Discard, io.LimitReader(resp.Body, n))
	if err != nil {
		return read, fmt.Errorf("warm %s: %w", url, err)
	}
	return read, nil
}
