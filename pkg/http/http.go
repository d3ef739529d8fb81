// Package http issues the GET requests modsync needs: buffered fetches for
// metadata pages and streamed fetches for mod downloads.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glorpus-work/modsync/pkg/errors"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "modsync/1.0"

// Client handles HTTP operations. Its configuration is fixed at construction, so a
// single Client is safe to share between goroutines.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates a new HTTP client. A zero timeout means no per-request limit.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch performs a GET and returns the full body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := c.Stream(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Classify(errors.ErrNetwork, errors.Wrap(err, "failed to read response body"))
	}
	return data, nil
}

// Stream performs a GET and hands back the open body on a 2xx response.
func (c *Client) Stream(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, errors.Classify(errors.ErrNetwork, errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Classify(errors.ErrNetwork, errors.Wrapf(err, "GET %s", url))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, errors.Classify(errors.ErrNetwork, fmt.Errorf("GET %s: unexpected status code: %d", url, resp.StatusCode))
	}
	return resp, nil
}
