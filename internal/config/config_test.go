package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_CREDENTIALS_PATH", "/tmp/creds.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, "http://localhost:8080/api/auth/refresh", cfg.API.RefreshURL())
	assert.Equal(t, 15*time.Second, cfg.API.RefreshTimeout)
	assert.Equal(t, 30*time.Second, cfg.API.HTTPTimeout)
	assert.Equal(t, BackendFile, cfg.Credentials.Backend)
	assert.Equal(t, "/tmp/creds.json", cfg.Credentials.FilePath)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_API_BASE_URL", "https://admin.example.com/api/")
	t.Setenv("ADMIN_REFRESH_PATH", "auth/token")
	t.Setenv("ADMIN_REFRESH_TIMEOUT", "2s")
	t.Setenv("ADMIN_CREDENTIALS_BACKEND", "Redis")
	t.Setenv("ADMIN_REDIS_URL", "redis://cache:6379/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com/api/auth/token", cfg.API.RefreshURL())
	assert.Equal(t, 2*time.Second, cfg.API.RefreshTimeout)
	assert.Equal(t, BackendRedis, cfg.Credentials.Backend)
	assert.Equal(t, "redis://cache:6379/1", cfg.Credentials.RedisURL)
}

func TestLoadValidation(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{
			name: "bad scheme",
			env:  map[string]string{"ADMIN_API_BASE_URL": "ftp://example.com"},
			msg:  "must be http(s)",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"ADMIN_CREDENTIALS_BACKEND": "etcd"},
			msg:  "unknown ADMIN_CREDENTIALS_BACKEND",
		},
		{
			name: "postgres without dsn",
			env:  map[string]string{"ADMIN_CREDENTIALS_BACKEND": "postgres"},
			msg:  "ADMIN_POSTGRES_DSN",
		},
		{
			name: "bad timeout",
			env:  map[string]string{"ADMIN_REFRESH_TIMEOUT": "forever"},
			msg:  "ADMIN_REFRESH_TIMEOUT",
		},
		{
			name: "negative timeout",
			env:  map[string]string{"ADMIN_HTTP_TIMEOUT": "-1s"},
			msg:  "must be positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ADMIN_CREDENTIALS_PATH", "/tmp/creds.json")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
