//go:generate mockgen -destination=mocks/http.go . Fetcher
package http

import (
	"context"
	"io"
)

// Fetcher defines the interface for HTTP GET operations used by the sync pipeline.
type Fetcher interface {
	// Fetch downloads the whole response body into memory. Use it for small documents
	// such as metadata pages.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Stream returns the response body without reading it. The caller must close it.
	Stream(ctx context.Context, url string) (io.ReadCloser, error)
}
