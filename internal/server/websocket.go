package server

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/zeusync/quadworld/internal/core/gesture"
	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/observability/log"
)

// handleTouch upgrades the request and classifies the client's strokes. Every
// message is one touch sample and is treated as its own frame.
func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		s.logger.Warn("Rejected touch feed", log.String("remote_addr", r.RemoteAddr), log.Error(err))
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", log.Error(err))
		return
	}
	defer conn.Close()
	if !s.track(conn) {
		goingAway(conn)
		return
	}
	defer s.untrack(conn)
	if s.cfg.ReadLimit > 0 {
		conn.SetReadLimit(s.cfg.ReadLimit)
	}

	seq := atomic.AddUint32(&s.connSeq, 1)
	clients := atomic.AddInt64(&s.clientCount, 1)
	defer atomic.AddInt64(&s.clientCount, -1)

	clientLogger := s.logger.With(
		log.Int64("conn", int64(seq)),
		log.String("remote_addr", r.RemoteAddr),
	)
	clientLogger.Info("Client connected", log.Int64("total_clients", clients))
	defer clientLogger.Info("Client disconnected")

	dispatcher := gesture.NewDispatcher(clientLogger)
	for {
		var msg TouchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				clientLogger.Error("Failed to receive message", log.Error(err))
			}
			return
		}

		touch, err := msg.Touch()
		if err != nil {
			clientLogger.Warn("Dropped touch sample", log.Error(err))
			if err = conn.WriteJSON(ErrorMessage{Error: err.Error()}); err != nil {
				return
			}
			continue
		}

		for _, done := range dispatcher.Feed([]input.Touch{touch}) {
			if err := conn.WriteJSON(gestureMessage(done)); err != nil {
				clientLogger.Error("Failed to send gesture", log.Error(err))
				return
			}
		}

		touch.ID = int64(seq)<<32 | touch.ID&0xffffffff
		s.queue(touch)
	}
}
