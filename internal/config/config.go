package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvcrn/storefront-admin/internal/env"
)

// Credential storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config aggregates the client configuration read from the environment.
type Config struct {
	API         APIConfig
	Credentials CredentialsConfig
	MetricsAddr string
}

// APIConfig describes how to reach the admin REST API.
type APIConfig struct {
	BaseURL        string
	RefreshPath    string
	RefreshTimeout time.Duration
	HTTPTimeout    time.Duration
}

// RefreshURL joins the base URL and the refresh path.
func (a APIConfig) RefreshURL() string {
	return strings.TrimRight(a.BaseURL, "/") + "/" + strings.TrimLeft(a.RefreshPath, "/")
}

// CredentialsConfig selects and parameterizes the credential store.
type CredentialsConfig struct {
	Backend         string
	FilePath        string
	RedisURL        string
	RedisKey        string
	PostgresDSN     string
	PostgresProfile string
}

// Load reads environment variables and returns a validated Config.
func Load() (Config, error) {
	refreshTimeout, err := env.GetDuration("ADMIN_REFRESH_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	httpTimeout, err := env.GetDuration("ADMIN_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	filePath := env.GetOrDefault("ADMIN_CREDENTIALS_PATH", "")
	if filePath == "" {
		filePath, err = defaultCredentialsPath()
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		API: APIConfig{
			BaseURL:        env.GetOrDefault("ADMIN_API_BASE_URL", "http://localhost:8080/api"),
			RefreshPath:    env.GetOrDefault("ADMIN_REFRESH_PATH", "/auth/refresh"),
			RefreshTimeout: refreshTimeout,
			HTTPTimeout:    httpTimeout,
		},
		Credentials: CredentialsConfig{
			Backend:         strings.ToLower(env.GetOrDefault("ADMIN_CREDENTIALS_BACKEND", BackendFile)),
			FilePath:        filePath,
			RedisURL:        env.GetOrDefault("ADMIN_REDIS_URL", "redis://localhost:6379/0"),
			RedisKey:        env.GetOrDefault("ADMIN_REDIS_KEY", "storefront-admin:credentials"),
			PostgresDSN:     env.GetOrDefault("ADMIN_POSTGRES_DSN", ""),
			PostgresProfile: env.GetOrDefault("ADMIN_POSTGRES_PROFILE", "default"),
		},
		MetricsAddr: env.GetOrDefault("ADMIN_METRICS_ADDR", ""),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("config: ADMIN_API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: ADMIN_API_BASE_URL must be http(s), got %q", c.API.BaseURL)
	}
	if strings.TrimSpace(c.API.RefreshPath) == "" {
		return fmt.Errorf("config: ADMIN_REFRESH_PATH is empty")
	}
	if c.API.RefreshTimeout <= 0 {
		return fmt.Errorf("config: ADMIN_REFRESH_TIMEOUT must be positive")
	}
	if c.API.HTTPTimeout <= 0 {
		return fmt.Errorf("config: ADMIN_HTTP_TIMEOUT must be positive")
	}

	switch c.Credentials.Backend {
	case BackendFile:
		if c.Credentials.FilePath == "" {
			return fmt.Errorf("config: ADMIN_CREDENTIALS_PATH is empty")
		}
	case BackendMemory:
	case BackendRedis:
		if c.Credentials.RedisURL == "" {
			return fmt.Errorf("config: ADMIN_REDIS_URL is required for the redis backend")
		}
	case BackendPostgres:
		if c.Credentials.PostgresDSN == "" {
			return fmt.Errorf("config: ADMIN_POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown ADMIN_CREDENTIALS_BACKEND %q", c.Credentials.Backend)
	}
	return nil
}

func defaultCredentialsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".storefront-admin", "credentials.json"), nil
}
