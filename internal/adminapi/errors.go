package adminapi

import (
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the admin API.
type APIError struct {
	StatusCode int
	Message    string
	ErrorCode  string
	TraceID    string
	Path       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.ErrorCode != "" {
		return fmt.Sprintf("admin api %s: status %d (%s): %s", e.Path, e.StatusCode, e.ErrorCode, msg)
	}
	return fmt.Sprintf("admin api %s: status %d: %s", e.Path, e.StatusCode, msg)
}

// IsUnauthorized reports whether the API rejected the credentials, which after the
// transport's single replay means the session is gone.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
