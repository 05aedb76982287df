package env

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GetOrDefault retrieves an environment variable with a default value
func GetOrDefault(key, defaultValue string) string {
	if value, ok := Get(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// GetDuration parses a time.ParseDuration value, falling back to def when unset.
func GetDuration(key string, def time.Duration) (time.Duration, error) {
	value, ok := Get(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("env %s: parse duration %q: %w", key, value, err)
	}
	return d, nil
}

// GetBool parses a strconv.ParseBool value, falling back to def when unset.
func GetBool(key string, def bool) (bool, error) {
	value, ok := Get(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("env %s: parse bool %q: %w", key, value, err)
	}
	return b, nil
}
