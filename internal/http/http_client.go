package http

import (
	"net/http"
	"time"
)

// HTTPClient interface abstracts HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client over the platform transport with the given overall timeout.
// It carries no credentials; callers that need bearer auth wrap NewTransport instead.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewTransport(),
		Timeout:   timeout,
	}
}
