package main

import (
	"context"
	"fmt"

	"github.com/dvcrn/storefront-admin/internal/config"
	"github.com/dvcrn/storefront-admin/internal/credentials"
)

// openStore builds the configured credential store. The returned close func is never nil.
func openStore(ctx context.Context, cfg config.CredentialsConfig) (credentials.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return credentials.NewMemoryStore(), func() {}, nil
	case config.BackendRedis:
		store, err := credentials.OpenRedisStore(ctx, cfg.RedisURL, cfg.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.BackendPostgres:
		store, err := credentials.OpenPostgresStore(ctx, cfg.PostgresDSN, cfg.PostgresProfile)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.BackendFile:
		store, err := credentials.NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown credentials backend %q", cfg.Backend)
	}
}
