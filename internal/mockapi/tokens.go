package mockapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
)

var errTokenRevoked = errors.New("token revoked")

// accessClaims are carried by issued access tokens. Generation lets the server invalidate
// every outstanding access token at once.
type accessClaims struct {
	Role       string `json:"role"`
	Generation int64  `json:"gen"`
	jwt.RegisteredClaims
}

type refreshGrant struct {
	email   string
	expires time.Time
}

// issuePairLocked creates a new access/refresh pair for email. s.mu must be held.
func (s *Server) issuePairLocked(email, role string) (adminapi.LoginResponse, error) {
	now := s.now()
	claims := accessClaims{
		Role:       role,
		Generation: s.generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return adminapi.LoginResponse{}, fmt.Errorf("could not sign access token: %w", err)
	}

	refresh := uuid.NewString()
	s.refreshTokens[refresh] = refreshGrant{email: email, expires: now.Add(s.refreshTTL)}

	return adminapi.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

// verifyAccess validates an access token and returns its claims.
func (s *Server) verifyAccess(raw string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()
	if claims.Generation != generation {
		return nil, errTokenRevoked
	}
	return claims, nil
}
