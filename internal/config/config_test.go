package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
log:
  level: debug
analyze:
  format: json
  debounce: 1s
  missions: [memo3]
server:
  addr: ":9000"
  cors_origins: ["http://localhost:5173"]
missions:
  - id: survey
    name: 설문
    screen_prefix: 설문4
    start_marker: 설문4_미션시작
    complete_marker: 설문4_미션완료
  - id: memo3
    name: 메모
    screen_prefix: 메모3
    variant_a: {start: 메모3A_미션시작, complete: 메모3A_미션완료}
    variant_b: {start: 메모3B_미션시작, complete: 메모3B_미션완료}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uxlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Analyze.Format)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, int64(32<<20), c.Server.MaxUploadBytes)
	assert.Equal(t, 300*time.Millisecond, c.Analyze.Debounce)
	assert.Equal(t, uint32(3), c.Subtitle.MaxFailures)
	assert.Empty(t, c.Missions)

	reg, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, 4, reg.Len())
}

func TestLoad_File(t *testing.T) {
	c, err := Load(New(), writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Analyze.Format)
	assert.Equal(t, time.Second, c.Analyze.Debounce)
	assert.Equal(t, ":9000", c.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Server.CORSOrigins)
	require.Len(t, c.Missions, 2)
	require.NotNil(t, c.Missions[1].VariantB)
	assert.Equal(t, "메모3B_미션완료", c.Missions[1].VariantB.Complete)

	reg, err := c.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"memo3"}, reg.IDs())
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv(EnvConfigFile, writeConfig(t, sampleYAML))
	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Server.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("UXLOG_SERVER_ADDR", ":7000")
	t.Setenv("UXLOG_ANALYZE_FORMAT", "funnel-csv")

	c, err := Load(New(), writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "funnel-csv", c.Analyze.Format)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(New(), writeConfig(t, "analyze:\n  format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Format")

	_, err = Load(New(), writeConfig(t, "subtitle:\n  endpoint: not a url\n"))
	assert.Error(t, err)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRegistry_Errors(t *testing.T) {
	c, err := Load(New(), writeConfig(t, "analyze:\n  missions: [nope]\n"))
	require.NoError(t, err)
	_, err = c.Registry()
	assert.Error(t, err)

	c, err = Load(New(), writeConfig(t, "missions:\n  - {id: x, name: x, screen_prefix: X}\n"))
	require.NoError(t, err)
	_, err = c.Registry()
	assert.Error(t, err, "simple mission without markers")
}
