//go:build js && wasm

package main

import (
	"log"

	"github.com/syumai/workers"

	"github.com/dvcrn/storefront-admin/internal/env"
	"github.com/dvcrn/storefront-admin/internal/mockapi"
)

var srv *mockapi.Server

func init() {
	accessTTL, err := env.GetDuration("MOCK_ACCESS_TTL", mockapi.DefaultAccessTTL)
	if err != nil {
		log.Printf("Invalid MOCK_ACCESS_TTL, using default: %v", err)
		accessTTL = mockapi.DefaultAccessTTL
	}

	// Worker isolates do not share memory, so every isolate gets its own seeded catalog.
	srv = mockapi.New(mockapi.Options{
		Secret:    []byte(env.GetOrDefault("MOCK_JWT_SECRET", "")),
		AccessTTL: accessTTL,
		Seed:      true,
	})
}

func main() {
	workers.Serve(srv)
}
