package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a slow client
	writeWait = 10 * time.Second

	// pingInterval keeps idle connections alive through proxies
	pingInterval = 30 * time.Second
)

// handleSubscription upgrades the connection and streams order-created
// events as JSON frames. The stream starts at attachment: events published
// before the upgrade are never replayed.
func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if !s.config.EnableCORS {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range s.config.CORSOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := s.broadcaster.Subscribe(r.Context())
	defer sub.Cancel()

	s.logger.Info("subscriber attached", "id", sub.ID, "remote", r.RemoteAddr)
	if s.metrics != nil {
		s.metrics.Subscribers.Set(float64(s.broadcaster.Subscribers()))
	}
	defer func() {
		conn.Close()
		s.logger.Info("subscriber detached", "id", sub.ID)
		if s.metrics != nil {
			s.metrics.Subscribers.Set(float64(s.broadcaster.Subscribers()))
		}
	}()

	// Drain client frames so close handshakes and pongs are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.C:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream closed"),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				s.logger.Warn("subscriber write failed, detaching", "id", sub.ID, "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
