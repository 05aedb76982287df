package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	serverhttp "github.com/dvcrn/storefront-admin/internal/http"
)

// TokenResponse is the payload returned by the refresh endpoint.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Refresher exchanges a refresh token for a new credential pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (TokenResponse, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (TokenResponse, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	return f(ctx, refreshToken)
}

// EndpointRefresher calls POST <url> with {"refreshToken": "..."} and decodes the
// {"data": {...}} envelope. It uses an unauthenticated client so the refresh call never
// re-enters the Transport.
type EndpointRefresher struct {
	url        string
	httpClient serverhttp.HTTPClient
}

// NewEndpointRefresher creates a refresher for the given absolute endpoint URL.
func NewEndpointRefresher(url string, httpClient serverhttp.HTTPClient) *EndpointRefresher {
	return &EndpointRefresher{url: url, httpClient: httpClient}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshEnvelope struct {
	Status    int            `json:"status"`
	Message   string         `json:"message"`
	ErrorCode string         `json:"errorCode,omitempty"`
	Data      *TokenResponse `json:"data"`
}

// Refresh performs the refresh call.
func (e *EndpointRefresher) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	bodyBytes, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return TokenResponse{}, fmt.Errorf("could not marshal refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("could not create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("refresh request execution error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("could not read refresh response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return TokenResponse{}, fmt.Errorf("refresh endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var envelope refreshEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return TokenResponse{}, fmt.Errorf("could not unmarshal refresh response: %w", err)
	}
	if envelope.Data == nil || envelope.Data.AccessToken == "" || envelope.Data.RefreshToken == "" {
		return TokenResponse{}, ErrInvalidTokenResponse
	}

	return *envelope.Data, nil
}
