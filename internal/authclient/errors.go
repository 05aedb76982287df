package authclient

import "errors"

var (
	// ErrRefreshFailed wraps every error produced by a failed refresh cycle. All requests that
	// were waiting on that cycle receive the same wrapped error.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoRefreshToken is the logout cause when a credentialed request got 401 and no refresh
	// token is stored.
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrInvalidTokenResponse is returned when the refresh endpoint answers 2xx without a full pair.
	ErrInvalidTokenResponse = errors.New("refresh response missing tokens")
)
