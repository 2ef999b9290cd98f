// Package upstream fetches JSON from third-party HTTP APIs and reports every
// failure mode (transport, non-2xx status, bad body) as ErrFetch.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrFetch marks an unreachable upstream or a non-2xx response.
var ErrFetch = errors.New("upstream fetch failed")

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 10 * time.Second

// MaxBodySize caps how much of an upstream response is read (4MB).
const MaxBodySize = 4 << 20

// Doer is the subset of *http.Client used here.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError carries the HTTP status of a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// Is makes StatusError match ErrFetch.
func (e *StatusError) Is(target error) bool {
	return target == ErrFetch
}

// NewClient returns an HTTP client with DefaultTimeout.
func NewClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// GetBytes performs a GET and returns the raw body of a 2xx response.
func GetBytes(ctx context.Context, client Doer, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetch, err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrFetch, MaxBodySize)
	}
	return body, nil
}

// GetJSON performs a GET and decodes a 2xx JSON response into v.
func GetJSON(ctx context.Context, client Doer, url string, v any) error {
	body, err := GetBytes(ctx, client, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrFetch, url, err)
	}
	return nil
}
