package adminapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyCredentials is returned by Login when email or password is missing.
var ErrEmptyCredentials = errors.New("email and password are required")

// Login exchanges email and password for a credential pair and stores it.
// Any previously stored session is discarded first, so the login call itself is never
// authorized or refreshed with stale credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	if err := c.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("could not clear previous session: %w", err)
	}

	var tokens LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, LoginRequest{Email: email, Password: password}, &tokens); err != nil {
		return nil, err
	}
	if err := c.store.Save(ctx, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("could not store credentials: %w", err)
	}

	c.log.Info().Str("email", email).Str("store", c.store.Name()).Msg("Logged in")
	return &tokens, nil
}

// Logout forgets the stored session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("could not clear credentials: %w", err)
	}
	c.log.Info().Str("store", c.store.Name()).Msg("Logged out")
	return nil
}
