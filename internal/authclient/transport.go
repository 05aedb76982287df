package authclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvcrn/storefront-admin/internal/credentials"
	"github.com/dvcrn/storefront-admin/internal/logger"
	"github.com/dvcrn/storefront-admin/internal/metrics"
)

// RequestIDHeader carries a per-request ID that is kept when the request is replayed.
const RequestIDHeader = "X-Request-ID"

// Transport attaches the stored bearer token to outgoing requests and recovers from 401s
// through a Coordinator. A request is replayed at most once; a 401 on the replay is returned
// to the caller unchanged.
type Transport struct {
	base        http.RoundTripper
	store       credentials.Store
	coordinator *Coordinator
	refreshPath string
	metrics     metrics.Recorder
	log         zerolog.Logger
}

// NewTransport wraps base. Requests whose path ends in refreshPath never get an
// Authorization header and are never retried.
func NewTransport(base http.RoundTripper, store credentials.Store, coordinator *Coordinator, refreshPath string, rec metrics.Recorder) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if rec == nil {
		rec = metrics.NewNoop()
	}
	return &Transport{
		base:        base,
		store:       store,
		coordinator: coordinator,
		refreshPath: strings.TrimRight(refreshPath, "/"),
		metrics:     rec,
		log:         logger.For("authclient"),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	getBody, err := rewindableBody(req)
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}

	out := req.Clone(ctx)
	if getBody != nil && req.GetBody == nil {
		// The original body was consumed into memory.
		if out.Body, err = getBody(); err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		out.GetBody = getBody
	}
	requestID := out.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		out.Header.Set(RequestIDHeader, requestID)
	}

	refreshCall := t.isRefreshRequest(req)
	sentAccess := ""
	if !refreshCall {
		sentAccess = t.authorize(out)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || refreshCall {
		return resp, nil
	}

	log := t.log.With().Str("request_id", requestID).Str("method", req.Method).Str("path", req.URL.Path).Logger()

	pair, ok, err := t.store.Load(ctx)
	if err != nil {
		// A read error says nothing about the session, so it is left intact.
		log.Warn().Err(err).Str("store", t.store.Name()).Msg("Could not read credentials after 401, returning response")
		return resp, nil
	}
	if !ok || pair.RefreshToken == "" {
		if sentAccess != "" {
			t.coordinator.ForceLogout(ctx, sentAccess, ErrNoRefreshToken)
		}
		log.Debug().Msg("401 without refresh token, returning response")
		return resp, nil
	}

	drainAndClose(resp)
	log.Debug().Msg("401 received, waiting for token refresh")

	token, err := t.coordinator.Refresh(ctx, sentAccess)
	if err != nil {
		return nil, err
	}

	replay := req.Clone(ctx)
	if getBody != nil {
		if replay.Body, err = getBody(); err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		replay.GetBody = getBody
	}
	replay.Header.Set(RequestIDHeader, requestID)
	replay.Header.Set("Authorization", "Bearer "+token)

	resp, err = t.base.RoundTrip(replay)
	if err != nil {
		return nil, err
	}
	t.metrics.RecordReplay(resp.StatusCode)
	log.Debug().Int("status", resp.StatusCode).Msg("Replayed request after token refresh")
	return resp, nil
}

// authorize sets the bearer header from the store and returns the token it used.
func (t *Transport) authorize(req *http.Request) string {
	pair, ok, err := t.store.Load(req.Context())
	if err != nil {
		t.log.Warn().Err(err).Str("store", t.store.Name()).Msg("Could not read credentials, sending request without them")
		return ""
	}
	if !ok || pair.AccessToken == "" {
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	return pair.AccessToken
}

func (t *Transport) isRefreshRequest(req *http.Request) bool {
	return t.refreshPath != "" && strings.HasSuffix(strings.TrimRight(req.URL.Path, "/"), t.refreshPath)
}

// rewindableBody returns a body factory so the request can be sent twice.
// Bodies without GetBody are read into memory once.
func rewindableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		return req.GetBody, nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, err
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	resp.Body.Close()
}
