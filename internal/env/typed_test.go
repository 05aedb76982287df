//go:build !js || !wasm

package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrDefault(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_VALUE", "  hello ")
	assert.Equal(t, "hello", GetOrDefault("STOREFRONT_TEST_VALUE", "x"))
	assert.Equal(t, "x", GetOrDefault("STOREFRONT_TEST_MISSING", "x"))
}

func TestGetDuration(t *testing.T) {
	d, err := GetDuration("STOREFRONT_TEST_MISSING", 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)

	t.Setenv("STOREFRONT_TEST_DURATION", "250ms")
	d, err = GetDuration("STOREFRONT_TEST_DURATION", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	t.Setenv("STOREFRONT_TEST_DURATION", "soon")
	_, err = GetDuration("STOREFRONT_TEST_DURATION", time.Second)
	assert.ErrorContains(t, err, "STOREFRONT_TEST_DURATION")
}

func TestGetBool(t *testing.T) {
	b, err := GetBool("STOREFRONT_TEST_MISSING", true)
	require.NoError(t, err)
	assert.True(t, b)

	t.Setenv("STOREFRONT_TEST_BOOL", "false")
	b, err = GetBool("STOREFRONT_TEST_BOOL", true)
	require.NoError(t, err)
	assert.False(t, b)

	t.Setenv("STOREFRONT_TEST_BOOL", "maybe")
	_, err = GetBool("STOREFRONT_TEST_BOOL", true)
	assert.Error(t, err)
}
