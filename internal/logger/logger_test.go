package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	l := For("authclient")
	l.Warn().Str("path", "/products").Msg("refresh started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "authclient", entry["component"])
	assert.Equal(t, "/products", entry["path"])
	assert.Equal(t, "refresh started", entry["message"])
	assert.Equal(t, "warn", entry["level"])
}

func TestGetReturnsReplacedLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Get().Error().Msg("boom")
	assert.Contains(t, buf.String(), `"message":"boom"`)
}
