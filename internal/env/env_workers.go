//go:build js && wasm

package env

import "github.com/syumai/workers/cloudflare"

// Get retrieves an environment variable from Cloudflare Workers environment
func Get(key string) (string, bool) {
	value := cloudflare.Getenv(key)
	if value == "" {
		return "", false
	}
	return value, true
}
