package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvcrn/storefront-admin/internal/credentials"
	serverhttp "github.com/dvcrn/storefront-admin/internal/http"
	"github.com/dvcrn/storefront-admin/internal/logger"
)

// Client is a typed client for the storefront admin API.
//
// httpClient is expected to carry the authenticating transport; Client itself never sets
// an Authorization header.
type Client struct {
	baseURL    string
	httpClient serverhttp.HTTPClient
	store      credentials.Store
	log        zerolog.Logger
}

// NewClient creates a client rooted at baseURL (for example http://localhost:8080/api).
func NewClient(baseURL string, httpClient serverhttp.HTTPClient, store credentials.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		store:      store,
		log:        logger.For("adminapi"),
	}
}

// Upload is a file sent as a multipart part.
type Upload struct {
	Filename string
	Content  io.Reader
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends in as a JSON body (when non-nil) and decodes the envelope's data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not marshal request body: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

// doMultipart sends fields and files as multipart/form-data.
func (c *Client) doMultipart(ctx context.Context, path string, fields map[string]string, files map[string]Upload, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("could not write form field %s: %w", name, err)
		}
	}
	for name, f := range files {
		part, err := mw.CreateFormFile(name, f.Filename)
		if err != nil {
			return fmt.Errorf("could not create form file %s: %w", name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("could not copy %s: %w", f.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("could not finish multipart body: %w", err)
	}
	// bytes.Buffer gives the request a GetBody, so the body survives a replay.
	return c.do(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request execution error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	var envelope rawResponse
	decodeErr := json.Unmarshal(respBody, &envelope)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path}
		if decodeErr == nil {
			apiErr.Message = envelope.Message
			apiErr.ErrorCode = envelope.ErrorCode
			apiErr.TraceID = envelope.TraceID
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("trace_id", apiErr.TraceID).
			Msg("Admin API returned an error")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("could not unmarshal response body: %w", decodeErr)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("could not unmarshal response data: %w", err)
	}
	return nil
}
