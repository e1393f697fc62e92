package server

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLive(t *testing.T, url string, header http.Header) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/api/live", header)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

type liveFrame struct {
	Type string `json:"type"`
	Data struct {
		Rows       int    `json:"rows"`
		Generation uint64 `json:"generation"`
	} `json:"data"`
}

func readLive(t *testing.T, conn *websocket.Conn) liveFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg liveFrame
	require.NoError(t, json.Unmarshal(b, &msg))
	return msg
}

func TestLive_PushesCommits(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	conn := dialLive(t, ts.URL, nil)

	resp := post(t, ts.URL+"/api/analyze", "text/csv", dataset)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg := readLive(t, conn)
	assert.Equal(t, MessageTypeReport, msg.Type)
	assert.Equal(t, 3, msg.Data.Rows)
	assert.Equal(t, uint64(1), msg.Data.Generation)

	resp = post(t, ts.URL+"/api/analyze", "text/csv", dataset)
	resp.Body.Close()
	assert.Equal(t, uint64(2), readLive(t, conn).Data.Generation)
}

func TestLive_SendsCurrentOnConnect(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp := post(t, ts.URL+"/api/analyze", "text/csv", dataset)
	resp.Body.Close()

	conn := dialLive(t, ts.URL, nil)
	msg := readLive(t, conn)
	assert.Equal(t, 3, msg.Data.Rows)
}

func TestLive_Origin(t *testing.T) {
	_, ts := newTestServer(t, Options{CORSOrigins: []string{"https://app.example"}})

	dialLive(t, ts.URL, http.Header{"Origin": {"https://app.example"}})

	_, resp, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(ts.URL, "http")+"/api/live",
		http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLive_CloseEndsConnections(t *testing.T) {
	s, ts := newTestServer(t, Options{})
	conn := dialLive(t, ts.URL, nil)

	s.Close()
	s.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
