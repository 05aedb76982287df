//go:build js && wasm

package http

import (
	"net/http"

	"github.com/syumai/workers/cloudflare/fetch"
)

// workersTransport implements http.RoundTripper over Cloudflare Workers fetch
type workersTransport struct {
	client *fetch.Client
}

// NewTransport creates the base round tripper for the Workers environment
func NewTransport() http.RoundTripper {
	return &workersTransport{
		client: fetch.NewClient(),
	}
}

// RoundTrip performs an HTTP request using Cloudflare Workers fetch
func (t *workersTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	fetchReq, err := fetch.NewRequest(req.Context(), req.Method, req.URL.String(), req.Body)
	if err != nil {
		return nil, err
	}

	for key, values := range req.Header {
		for _, value := range values {
			fetchReq.Header.Add(key, value)
		}
	}

	return t.client.Do(fetchReq, nil)
}
