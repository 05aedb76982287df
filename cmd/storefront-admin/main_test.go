package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dvcrn/storefront-admin/internal/logger"
	"github.com/dvcrn/storefront-admin/internal/mockapi"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func setup(t *testing.T) (*mockapi.Server, *bytes.Buffer) {
	t.Helper()
	mock := mockapi.New(mockapi.Options{Seed: true, PasswordCost: bcrypt.MinCost})
	srv := httptest.NewServer(mock)
	t.Cleanup(srv.Close)

	t.Setenv("ADMIN_API_BASE_URL", srv.URL+"/api")
	t.Setenv("ADMIN_CREDENTIALS_BACKEND", "file")
	t.Setenv("ADMIN_CREDENTIALS_PATH", filepath.Join(t.TempDir(), "credentials.json"))

	out := &bytes.Buffer{}
	prev := stdout
	stdout = out
	t.Cleanup(func() { stdout = prev })
	return mock, out
}

func TestSessionLifecycle(t *testing.T) {
	mock, out := setup(t)

	assert.Equal(t, exitSessionExpired, run([]string{"dashboard"}), "no session yet")

	require.Equal(t, exitOK, run([]string{"login", "-email", "admin@example.com", "-password", "admin123"}))
	assert.Contains(t, out.String(), "logged in as admin@example.com")

	out.Reset()
	require.Equal(t, exitOK, run([]string{"dashboard"}))
	assert.Contains(t, out.String(), "PRODUCTS")

	mock.ExpireAccessTokens()
	out.Reset()
	require.Equal(t, exitOK, run([]string{"overview"}))
	assert.Contains(t, out.String(), "Gold Standard Whey")
	assert.Equal(t, 1, mock.RefreshCalls())

	out.Reset()
	require.Equal(t, exitOK, run([]string{"status"}))
	assert.Contains(t, out.String(), "access expires")

	mock.ExpireAccessTokens()
	mock.RevokeRefreshTokens()
	assert.Equal(t, exitSessionExpired, run([]string{"products"}))

	out.Reset()
	require.Equal(t, exitOK, run([]string{"status"}))
	assert.Contains(t, out.String(), "false")
}

func TestOrderCommands(t *testing.T) {
	_, out := setup(t)
	require.Equal(t, exitOK, run([]string{"login", "-email", "admin@example.com", "-password", "admin123"}))

	out.Reset()
	require.Equal(t, exitOK, run([]string{"orders", "-status", "pending"}))
	assert.Contains(t, out.String(), "john@example.com")
	assert.NotContains(t, out.String(), "jane@example.com")

	assert.Equal(t, exitError, run([]string{"orders", "-status", "lost"}))
	assert.Equal(t, exitError, run([]string{"set-order-status", "-id", "0", "-status", "PAID"}))
}

func TestUnknownCommand(t *testing.T) {
	assert.Equal(t, exitError, run(nil))
	assert.Equal(t, exitError, run([]string{"frobnicate"}))
}
