package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Geun-Oh/uxlog/internal/buffer"
	"github.com/Geun-Oh/uxlog/internal/filter"
	"github.com/Geun-Oh/uxlog/internal/monitor"
	"github.com/Geun-Oh/uxlog/internal/sink"
	"github.com/Geun-Oh/uxlog/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "사용자ID,타임스탬프,화면,이벤트,대상,값,디바이스\n"

const dataset = header +
	"u1,2026. 2. 4 오후 12:06:51,편집2-1_화면,미션 시작,편집2-1_미션시작,,mobile\n" +
	"u1,2026. 2. 4 오후 12:06:56,편집2-1_화면,미션 완료,편집2-1_미션완료,완료시간:4.2초,\n" +
	"u2,2026. 2. 4 오후 12:07:10,업로드1_화면,미션 시작,업로드1_미션시작,,desktop\n"

type failingSource struct{}

func (failingSource) Load(context.Context) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingSource) Name() string                          { return "broken" }

func TestAnalyze_Sentinels(t *testing.T) {
	_, err := Analyze("", nil, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Analyze("\n  \n", nil, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Analyze(header, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestAnalyze_Filters(t *testing.T) {
	r, err := Analyze(dataset, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Rows)
	assert.Equal(t, 2, r.Overall.TotalSessions)

	r, err = Analyze(dataset, nil, filter.NewChain(filter.MatchAll, filter.NewExcludeFilter("u2")))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Rows)
	assert.Equal(t, 1, r.Overall.TotalSessions)
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	slot := buffer.NewSlot()
	hist := buffer.NewHistory(4)
	stats := monitor.NewStats()

	r, err := Run(context.Background(), &Config{
		Source:  source.NewReaderSource("stdin", strings.NewReader(dataset)),
		Sinks:   []sink.Sink{sink.NewTerminalSink(&out, false)},
		Stats:   stats,
		Slot:    slot,
		History: hist,
	})
	require.NoError(t, err)

	assert.Equal(t, "stdin", r.Source)
	assert.Equal(t, uint64(1), r.Generation)
	assert.False(t, r.GeneratedAt.IsZero())
	assert.Contains(t, out.String(), "[미션2-1 컷 선택]")

	cur, ok := slot.Current()
	require.True(t, ok)
	assert.Same(t, r, cur)

	last, ok := hist.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last.Rows)
	assert.Empty(t, last.Err)

	assert.Equal(t, uint64(3), stats.Total())
	assert.Equal(t, uint64(3), stats.Kept())
}

func TestRun_NoSource(t *testing.T) {
	_, err := Run(context.Background(), &Config{})
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestRun_EmptyKeepsPreviousReport(t *testing.T) {
	slot := buffer.NewSlot()
	_, err := Run(context.Background(), &Config{Source: source.NewReaderSource("stdin", strings.NewReader(dataset)), Slot: slot})
	require.NoError(t, err)

	hist := buffer.NewHistory(4)
	_, err = Run(context.Background(), &Config{Source: source.NewReaderSource("stdin", strings.NewReader(header)), Slot: slot, History: hist})
	assert.ErrorIs(t, err, ErrEmptyData)

	cur, ok := slot.Current()
	require.True(t, ok)
	assert.Equal(t, 3, cur.Rows)

	last, _ := hist.Last()
	assert.Contains(t, last.Err, "header without rows")
}

func TestRun_SourceError(t *testing.T) {
	_, err := Run(context.Background(), &Config{Source: failingSource{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.False(t, errors.Is(err, ErrNoData))
}

func TestRun_OlderLoadLoses(t *testing.T) {
	slot := buffer.NewSlot()
	older := slot.Begin()

	r, err := Run(context.Background(), &Config{Source: source.NewReaderSource("stdin", strings.NewReader(dataset)), Slot: slot})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), r.Generation)
	assert.False(t, slot.Commit(older, &monitor.Report{}))
}

// recordingSink fails its writes when fail is set and remembers being closed.
type recordingSink struct {
	fail   bool
	wrote  bool
	closed bool
}

func (s *recordingSink) Write(*monitor.Report) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.wrote = true
	return nil
}
func (s *recordingSink) Flush() error { return nil }
func (s *recordingSink) Close() error { s.closed = true; return nil }
func (s *recordingSink) Name() string { return "recording" }

func TestRun_ClosesSinksOnWriteError(t *testing.T) {
	broken, after := &recordingSink{fail: true}, &recordingSink{}
	_, err := Run(context.Background(), &Config{
		Source: source.NewReaderSource("stdin", strings.NewReader(dataset)),
		Sinks:  []sink.Sink{broken, after},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write to recording")
	assert.True(t, broken.closed)
	assert.True(t, after.closed)
	assert.False(t, after.wrote)
}

func TestRun_ClosesSinksOnLoadError(t *testing.T) {
	s := &recordingSink{}
	_, err := Run(context.Background(), &Config{Source: failingSource{}, Sinks: []sink.Sink{s}})
	require.Error(t, err)
	assert.True(t, s.closed)
	assert.False(t, s.wrote)
}

// overtakenSource starts a newer load on the slot while it is being read.
type overtakenSource struct{ slot *buffer.Slot }

func (s overtakenSource) Load(context.Context) ([]byte, error) {
	s.slot.Begin()
	return []byte(dataset), nil
}
func (overtakenSource) Name() string { return "overtaken" }

func TestRun_SupersededWhileLoading(t *testing.T) {
	slot := buffer.NewSlot()
	hist := buffer.NewHistory(0)

	_, err := Run(context.Background(), &Config{Source: overtakenSource{slot}, Slot: slot, History: hist})
	assert.ErrorIs(t, err, ErrStale)

	_, ok := slot.Current()
	assert.False(t, ok, "a superseded load is never published")
	last, _ := hist.Last()
	assert.True(t, last.Stale)
}

func TestSourceKind(t *testing.T) {
	assert.Equal(t, "file", sourceKind("file:/tmp/a.csv"))
	assert.Equal(t, "url", sourceKind("url:https://x"))
	assert.Equal(t, "stdin", sourceKind("stdin"))
}
