package main

import (
	"github.com/dvcrn/storefront-admin/internal/env"
	"github.com/dvcrn/storefront-admin/internal/logger"
	"github.com/dvcrn/storefront-admin/internal/mockapi"
)

func main() {
	addr := env.GetOrDefault("MOCK_ADDR", ":8080")

	accessTTL, err := env.GetDuration("MOCK_ACCESS_TTL", mockapi.DefaultAccessTTL)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Invalid MOCK_ACCESS_TTL")
	}

	srv := mockapi.New(mockapi.Options{
		Secret:    []byte(env.GetOrDefault("MOCK_JWT_SECRET", "")),
		AccessTTL: accessTTL,
		Seed:      true,
	})

	logger.Get().Info().
		Str("admin", "admin@example.com").
		Dur("access_ttl", accessTTL).
		Msg("Seeded demo catalog")

	if err := srv.Start(addr); err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to start server")
	}
}
