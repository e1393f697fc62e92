package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/metrics"
	"github.com/Geun-Oh/uxlog/internal/sink"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// MessageTypeReport tags a pushed report view.
const MessageTypeReport = "report"

// LiveMessage is one frame sent on /api/live.
type LiveMessage struct {
	Type string     `json:"type"`
	Data sink.View `json:"data"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      s.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkOrigin accepts same-host requests and origins allowed for CORS.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.opts.CORSOrigins, "*") || slices.Contains(s.opts.CORSOrigins, origin)
}

// handleLive upgrades to a websocket and pushes the current report, then
// every newly published one.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logging.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	metrics.LiveClients.Inc()
	defer metrics.LiveClients.Dec()

	closed := make(chan struct{})
	go readLoop(conn, closed)
	s.writeLoop(conn, closed)
}

// readLoop discards client frames and keeps the read deadline fresh on pongs.
// closed is closed when the peer goes away.
func readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Debug().Err(err).Msg("unexpected websocket close")
			}
			return
		}
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	changed := s.opts.Slot.Changed()
	var sent uint64
	push := func() bool {
		report, ok := s.opts.Slot.Current()
		if !ok || report.Generation == sent {
			return true
		}
		sent = report.Generation
		b, err := json.Marshal(LiveMessage{Type: MessageTypeReport, Data: sink.NewView(report)})
		if err != nil {
			logging.Error().Err(err).Msg("encode live report")
			return false
		}
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return false
		}
		return conn.WriteMessage(websocket.TextMessage, b) == nil
	}

	if !push() {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-s.closing:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-changed:
			changed = s.opts.Slot.Changed()
			if !push() {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
