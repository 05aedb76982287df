package credentials

import (
	"context"
	"errors"
)

// ErrIncompletePair is returned by Save when either token is empty.
var ErrIncompletePair = errors.New("credential pair requires both access and refresh token")

// Pair is the access/refresh token pair the client authenticates with.
// Both values are opaque bearer strings.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Store persists a single credential pair.
//
// Save always replaces both tokens together. Load reports ok=false when no pair is stored.
// Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context) (pair Pair, ok bool, err error)
	Save(ctx context.Context, accessToken, refreshToken string) error
	Clear(ctx context.Context) error

	// Name returns the name of the store for logging
	Name() string
}

func validatePair(accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return ErrIncompletePair
	}
	return nil
}
