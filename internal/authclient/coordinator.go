package authclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvcrn/storefront-admin/internal/credentials"
	"github.com/dvcrn/storefront-admin/internal/logger"
	"github.com/dvcrn/storefront-admin/internal/metrics"
)

// DefaultRefreshTimeout bounds a single refresh endpoint call.
const DefaultRefreshTimeout = 15 * time.Second

// LogoutFunc is invoked once per unrecoverable session, after stored credentials are cleared.
type LogoutFunc func(cause error)

type refreshResult struct {
	token string
	err   error
}

// failure remembers the access token whose session was ended, so stragglers that were sent
// with it do not start another refresh or fire another logout.
type failure struct {
	access string
	err    error
}

// Coordinator makes sure concurrent 401s produce at most one outstanding refresh call.
//
// The first caller to arrive while idle becomes the owner and performs the refresh; callers
// arriving while a refresh is in flight are queued and settled in arrival order with the
// owner's outcome. A failed refresh clears the store and fires the logout callback once.
type Coordinator struct {
	store     credentials.Store
	refresher Refresher
	onLogout  LogoutFunc
	timeout   time.Duration
	metrics   metrics.Recorder
	log       zerolog.Logger

	mu          sync.Mutex
	refreshing  bool
	queue       []chan refreshResult
	lastFailure failure
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogout sets the forced-logout callback.
func WithLogout(fn LogoutFunc) CoordinatorOption {
	return func(c *Coordinator) {
		if fn != nil {
			c.onLogout = fn
		}
	}
}

// WithRefreshTimeout bounds each refresh call. Non-positive values keep the default.
func WithRefreshTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec metrics.Recorder) CoordinatorOption {
	return func(c *Coordinator) {
		if rec != nil {
			c.metrics = rec
		}
	}
}

// NewCoordinator creates a coordinator owning its own refresh state.
func NewCoordinator(store credentials.Store, refresher Refresher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:     store,
		refresher: refresher,
		onLogout:  func(error) {},
		timeout:   DefaultRefreshTimeout,
		metrics:   metrics.NewNoop(),
		log:       logger.For("authclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refreshing reports whether a refresh is currently in flight.
func (c *Coordinator) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Pending returns the number of callers queued behind the in-flight refresh.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Refresh returns an access token to replay a request that failed with staleAccess.
//
// If a refresh is in flight the caller waits for it. If the store already holds a different
// access token than staleAccess, a refresh finished after the request was sent and that token
// is returned without another call. Otherwise the caller performs the refresh itself.
// Errors from a failed refresh wrap ErrRefreshFailed.
func (c *Coordinator) Refresh(ctx context.Context, staleAccess string) (string, error) {
	c.mu.Lock()
	if c.endedLocked(staleAccess) {
		err := c.lastFailure.err
		c.mu.Unlock()
		return "", err
	}
	if c.refreshing {
		ch := make(chan refreshResult, 1)
		c.queue = append(c.queue, ch)
		waiters := len(c.queue)
		c.mu.Unlock()

		c.log.Debug().Int("position", waiters).Msg("Waiting for in-flight token refresh")
		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			// ch is buffered, so the owner's send still completes.
			return "", ctx.Err()
		}
	}

	// The store read stays inside the critical section: an owner saves before it goes idle,
	// so anyone taking the lock afterwards observes the new pair.
	pair, ok, err := c.store.Load(ctx)
	if err != nil {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: load credentials: %w", ErrRefreshFailed, err)
	}
	if ok && pair.AccessToken != "" && pair.AccessToken != staleAccess {
		c.mu.Unlock()
		c.metrics.RecordRefresh(metrics.OutcomeStale, 0, 0)
		c.log.Debug().Msg("Access token already rotated, skipping refresh")
		return pair.AccessToken, nil
	}
	c.refreshing = true
	c.mu.Unlock()

	return c.runRefresh(ctx, staleAccess, pair.RefreshToken)
}

func (c *Coordinator) runRefresh(ctx context.Context, staleAccess, refreshToken string) (token string, err error) {
	start := time.Now()
	settled := false
	defer func() {
		if !settled {
			c.settle(staleAccess, refreshResult{err: fmt.Errorf("%w: refresh aborted", ErrRefreshFailed)})
		}
	}()

	c.log.Info().Msg("Access token rejected, refreshing")

	// Waiters depend on this call, so it must not die with the owner's own context.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	var tokens TokenResponse
	if refreshToken == "" {
		err = ErrNoRefreshToken
	} else {
		tokens, err = c.refresher.Refresh(rctx, refreshToken)
	}
	if err == nil {
		if saveErr := c.store.Save(rctx, tokens.AccessToken, tokens.RefreshToken); saveErr != nil {
			err = fmt.Errorf("save refreshed credentials: %w", saveErr)
		}
	}

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRefreshFailed, err)
		if clearErr := c.store.Clear(rctx); clearErr != nil {
			c.log.Error().Err(clearErr).Str("store", c.store.Name()).Msg("Failed to clear credentials after refresh failure")
		}
		waiters := c.settle(staleAccess, refreshResult{err: err})
		settled = true

		c.metrics.RecordRefresh(metrics.OutcomeFailure, waiters, time.Since(start))
		c.log.Error().Err(err).Int("waiters", waiters).Dur("duration", time.Since(start)).Msg("Token refresh failed, forcing logout")
		c.onLogout(err)
		return "", err
	}

	waiters := c.settle(staleAccess, refreshResult{token: tokens.AccessToken})
	settled = true

	c.metrics.RecordRefresh(metrics.OutcomeSuccess, waiters, time.Since(start))
	c.log.Info().Int("waiters", waiters).Dur("duration", time.Since(start)).Int64("expires_in", tokens.ExpiresIn).Msg("Token refresh succeeded")
	return tokens.AccessToken, nil
}

// endedLocked reports whether staleAccess belongs to a session that already failed. c.mu must be held.
func (c *Coordinator) endedLocked(staleAccess string) bool {
	return staleAccess != "" && c.lastFailure.err != nil && c.lastFailure.access == staleAccess
}

// settle returns the coordinator to idle and hands res to every queued caller in FIFO order.
func (c *Coordinator) settle(staleAccess string, res refreshResult) int {
	c.mu.Lock()
	queue := c.queue
	c.queue = nil
	c.refreshing = false
	if res.err != nil {
		c.lastFailure = failure{access: staleAccess, err: res.err}
	} else {
		c.lastFailure = failure{}
	}
	c.mu.Unlock()

	for _, ch := range queue {
		ch <- res
	}
	return len(queue)
}

// ForceLogout ends the session that staleAccess belonged to without attempting a refresh:
// the store is cleared and the logout callback fires, at most once per session.
func (c *Coordinator) ForceLogout(ctx context.Context, staleAccess string, cause error) {
	c.mu.Lock()
	if c.refreshing || c.endedLocked(staleAccess) {
		c.mu.Unlock()
		return
	}
	c.lastFailure = failure{access: staleAccess, err: cause}
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.log.Error().Err(err).Str("store", c.store.Name()).Msg("Failed to clear credentials on logout")
	}
	c.metrics.RecordRefresh(metrics.OutcomeNoToken, 0, 0)
	c.log.Warn().Err(cause).Msg("Session cannot be recovered, forcing logout")
	c.onLogout(cause)
}
