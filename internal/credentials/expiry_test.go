package credentials

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessExpiry(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin@example.com",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	got, ok := AccessExpiry(signed)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, ok = AccessExpiry(noExp)
	assert.False(t, ok)

	_, ok = AccessExpiry("opaque-token")
	assert.False(t, ok)

	_, ok = AccessExpiry("")
	assert.False(t, ok)
}
