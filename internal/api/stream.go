package api

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const maxStreamConns = 16

var streamConns int32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleNotificationStream pushes each tick's notifications to
// connected clients over a websocket.
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&streamConns) >= maxStreamConns {
		http.Error(w, "too many stream subscribers", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	atomic.AddInt32(&streamConns, 1)
	defer atomic.AddInt32(&streamConns, -1)

	lastTick := s.Sim.LastTick
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.Sim.LastTick == lastTick {
				continue
			}
			lastTick = s.Sim.LastTick

			for _, msg := range s.Sim.Network().Notifications() {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
					return
				}
			}
		case <-r.Context().Done():
			return
		}
	}
}
