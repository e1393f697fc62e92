package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Geun-Oh/uxlog/internal/entry"
	"github.com/Geun-Oh/uxlog/internal/parser"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2026, 2, 4, 12, 6, 51, 0, parser.KST)

func TestNewTracker_GeneratesSession(t *testing.T) {
	a, b := NewTracker(Config{}), NewTracker(Config{})
	_, err := uuid.Parse(a.SessionID())
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID(), b.SessionID())

	assert.Equal(t, "p07", NewTracker(Config{SessionID: "p07"}).SessionID())
}

func TestRecord(t *testing.T) {
	tr := NewTracker(Config{SessionID: "p07", Now: func() time.Time { return fixed }})
	rec := tr.Record(Event{Screen: "편집2-1_컷선택", Kind: entry.KindButtonClick, Target: "컷 2", DwellMs: 1500})

	assert.Equal(t, "p07", rec[entry.ColUserID])
	assert.Equal(t, "2026. 2. 4 오후 12:06:51", rec[entry.ColTimestamp])
	assert.Equal(t, "버튼 클릭", rec[entry.ColEvent])
	assert.Equal(t, "1500", rec[entry.ColDwellMs])

	row := entry.FromRecord(rec, 1)
	assert.Equal(t, entry.KindButtonClick, row.Kind())
	assert.True(t, row.HasDwell)

	_, ok := tr.Record(Event{Kind: entry.KindLogin})[entry.ColDwellMs]
	assert.False(t, ok)
}

func TestTrack(t *testing.T) {
	got := make(chan map[string]string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		got <- rec
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tr := NewTracker(Config{Endpoint: srv.URL, SessionID: "p07", Now: func() time.Time { return fixed }})
	require.NoError(t, tr.Track(context.Background(), Event{Screen: "업로드1_화면", Kind: entry.KindMissionStart, Target: "업로드1_미션시작"}))

	rec := <-got
	assert.Equal(t, "미션 시작", rec[entry.ColEvent])
	assert.Equal(t, "업로드1_미션시작", rec[entry.ColTarget])
}

func TestTrack_Errors(t *testing.T) {
	assert.ErrorIs(t, NewTracker(Config{}).Track(context.Background(), Event{}), ErrNoEndpoint)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewTracker(Config{Endpoint: srv.URL}).Track(context.Background(), Event{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestTrack_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	tr := NewTracker(Config{Endpoint: srv.URL, RatePerSecond: 0.001})
	require.NoError(t, tr.Track(context.Background(), Event{}))
	assert.ErrorIs(t, tr.Track(context.Background(), Event{}), ErrRateLimited)
}
