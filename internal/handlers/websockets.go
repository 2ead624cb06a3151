package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"home_bills/internal/logger"
	"home_bills/internal/models"
	"home_bills/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxMsgSize      = 4 << 10
	defaultInterval = 5 * time.Second
	minInterval     = 10 * time.Millisecond
	maxInterval     = time.Minute
)

// wsEnvelope frames every message of the status stream.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The status stream is read-only, so any origin may subscribe.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusMessage reports the current month and what is left to dictate.
type statusMessage struct {
	Current models.PeriodReadings `json:"current"`
	Missing []models.Field        `json:"missing"`
	Ready   bool                  `json:"ready"`
}

// statusStream pushes a statusMessage on every tick until the peer leaves.
type statusStream struct {
	conn     *websocket.Conn
	readings service.Readings
	log      *logger.Logger
	every    time.Duration
}

func (h *Handler) wsConnect(c *gin.Context) {
	every := parseInterval(c.Query("interval"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &statusStream{conn: conn, readings: h.services.Readings, log: h.log, every: every}
	s.run(c.Request.Context())
}

// parseInterval accepts a duration ("2s") or plain milliseconds ("2000").
// Out of range or malformed values fall back to defaultInterval.
func parseInterval(raw string) time.Duration {
	if raw == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		ms, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return defaultInterval
		}
		d = time.Duration(ms) * time.Millisecond
	}
	if d < minInterval || d > maxInterval {
		return defaultInterval
	}
	return d
}

func (s *statusStream) run(ctx context.Context) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	gone := make(chan struct{})
	go s.drainControl(gone)

	push := time.NewTicker(s.every)
	defer push.Stop()
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	if err := s.pushStatus(ctx); err != nil {
		s.debug("ws_push_failed", err)
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-keepalive.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.debug("ws_ping_failed", err)
				return
			}
		case <-push.C:
			if err := s.pushStatus(ctx); err != nil {
				s.debug("ws_push_failed", err)
				return
			}
		}
	}
}

// drainControl reads until the peer closes so pong and close frames are processed.
func (s *statusStream) drainControl(gone chan<- struct{}) {
	defer close(gone)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pushStatus writes one status frame. A snapshot failure is reported to the
// peer as an error frame and ends the stream.
func (s *statusStream) pushStatus(ctx context.Context) error {
	snap, err := s.readings.Snapshot(ctx, models.PeriodCurrent)
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if s.log != nil {
			s.log.Errorw("ws_snapshot_failed", "err", err)
		}
		_ = s.conn.WriteJSON(wsEnvelope{Type: "error", Error: "readings unavailable"})
		return err
	}
	return s.conn.WriteJSON(wsEnvelope{Type: "status", Data: statusMessage{
		Current: snap,
		Missing: snap.Missing,
		Ready:   len(snap.Missing) == 0,
	}})
}

func (s *statusStream) debug(event string, err error) {
	if s.log != nil {
		s.log.Debugw(event, "err", err)
	}
}
