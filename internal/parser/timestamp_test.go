package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_HourNormalization(t *testing.T) {
	cases := []struct {
		in   string
		hour int
	}{
		{"2026. 2. 4 오후 12:06:51", 12},
		{"2026. 2. 4 오전 12:06:51", 0},
		{"2026. 2. 4 오후 1:06:51", 13},
		{"2026. 2. 4 오전 1:06:51", 1},
		{"2026. 2. 4 오후 11:59:59", 23},
		{"2026. 2. 4. 오전 9:00:00", 9},
	}
	for _, tc := range cases {
		ts, ok := ParseTimestamp(tc.in)
		require.True(t, ok, "ParseTimestamp(%q)", tc.in)
		assert.Equal(t, tc.hour, ts.Hour(), "ParseTimestamp(%q)", tc.in)
	}
}

func TestParseTimestamp_Fields(t *testing.T) {
	ts, ok := ParseTimestamp("2026. 2. 4 오후 12:06:51")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 2, 4, 12, 6, 51, 0, KST), ts)
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"2026-02-04T12:06:51Z",
		"2026. 2. 4 12:06:51",
		"2026. 13. 4 오전 1:00:00",
		"2026. 2. 30 오전 1:00:00",
		"2026. 2. 4 오후 13:00:00",
		"2026. 2. 4 오후 1:61:00",
	} {
		_, ok := ParseTimestamp(in)
		assert.False(t, ok, "ParseTimestamp(%q)", in)
	}
}

func TestElapsed(t *testing.T) {
	secs, ok := Elapsed("2026. 2. 4 오전 11:59:50", "2026. 2. 4 오후 12:00:02")
	require.True(t, ok)
	assert.InDelta(t, 12.0, secs, 1e-9)

	_, ok = Elapsed("bad", "2026. 2. 4 오후 12:00:02")
	assert.False(t, ok)

	_, ok = Elapsed("2026. 2. 4 오후 12:00:02", "2026. 2. 4 오전 11:59:50")
	assert.False(t, ok, "end before start")
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		"2026. 2. 4 오후 12:06:51": time.Date(2026, 2, 4, 12, 6, 51, 0, KST),
		"2026. 2. 4 오전 12:00:05": time.Date(2026, 2, 4, 0, 0, 5, 0, KST),
		"2026. 2. 4 오후 1:06:51":  time.Date(2026, 2, 4, 13, 6, 51, 0, KST),
		"2026. 12. 31 오전 9:30:00": time.Date(2026, 12, 31, 0, 30, 0, 0, time.UTC),
	}
	for want, in := range cases {
		got := FormatTimestamp(in)
		assert.Equal(t, want, got)

		back, ok := ParseTimestamp(got)
		require.True(t, ok, got)
		assert.True(t, in.Equal(back), got)
	}
}
