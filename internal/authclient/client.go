package authclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dvcrn/storefront-admin/internal/credentials"
	serverhttp "github.com/dvcrn/storefront-admin/internal/http"
	"github.com/dvcrn/storefront-admin/internal/metrics"
)

// Options configures New.
type Options struct {
	Store      credentials.Store
	RefreshURL string

	// Refresher overrides the default EndpointRefresher built from RefreshURL.
	Refresher Refresher
	// Base is the round tripper used for API calls and the refresh call. Defaults to the
	// platform transport.
	Base           http.RoundTripper
	Timeout        time.Duration
	RefreshTimeout time.Duration
	OnLogout       LogoutFunc
	Metrics        metrics.Recorder
}

// Client bundles the authenticated *http.Client with the coordinator behind it.
type Client struct {
	HTTP        *http.Client
	Coordinator *Coordinator
	Store       credentials.Store
}

// New builds an authenticated client. Each Client owns its own Coordinator.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("authclient: store is required")
	}
	refreshURL, err := url.Parse(opts.RefreshURL)
	if err != nil || refreshURL.Path == "" {
		return nil, fmt.Errorf("authclient: invalid refresh url %q", opts.RefreshURL)
	}

	base := opts.Base
	if base == nil {
		base = serverhttp.NewTransport()
	}

	refresher := opts.Refresher
	if refresher == nil {
		refresher = NewEndpointRefresher(opts.RefreshURL, &http.Client{Transport: base, Timeout: opts.RefreshTimeout})
	}

	coordinator := NewCoordinator(opts.Store, refresher,
		WithLogout(opts.OnLogout),
		WithRefreshTimeout(opts.RefreshTimeout),
		WithMetrics(opts.Metrics),
	)

	return &Client{
		HTTP: &http.Client{
			Transport: NewTransport(base, opts.Store, coordinator, refreshURL.Path, opts.Metrics),
			Timeout:   opts.Timeout,
		},
		Coordinator: coordinator,
		Store:       opts.Store,
	}, nil
}
