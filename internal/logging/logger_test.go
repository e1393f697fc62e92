package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSON(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	Info().Msg("hidden")
	l := With().Str("component", "test").Logger()
	l.Warn().Int("rows", 3).Msg("shown")

	var got map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.Equal(t, "shown", got["message"])
	assert.Equal(t, "test", got["component"])
	assert.EqualValues(t, 3, got["rows"])
	assert.Equal(t, "warn", got["level"])
}

func TestInit_File(t *testing.T) {
	t.Cleanup(func() {
		_ = Close()
		Init(DefaultConfig())
	})

	path := filepath.Join(t.TempDir(), "uxlog.log")
	Init(Config{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	Error().Msg("to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, parseLevel("disabled"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}
