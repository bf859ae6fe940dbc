package ws

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// FeedServer upgrades HTTP connections to WebSockets streaming flight events.
type FeedServer struct {
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewFeedServer builds the feed endpoint handler.
func NewFeedServer(hub *Hub, logger *zap.Logger) *FeedServer {
	return &FeedServer{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleFeed is the HTTP handler for GET /sessions/{id}/events.
func (s *FeedServer) HandleFeed(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := s.hub.subscribe(sessionID)
	s.logger.Info("flight feed subscriber connected", zap.Int64("session_id", sessionID))

	go s.writePump(conn, sub)
	s.readPump(conn, sub)
}

// readPump discards inbound frames; the feed is one-way. It exists to run
// the pong handler and to notice when the client goes away.
func (s *FeedServer) readPump(conn *websocket.Conn, sub *subscriber) {
	defer func() {
		s.hub.unsubscribe(sub)
		close(sub.send)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Info("flight feed subscriber disconnected",
				zap.Int64("session_id", sub.sessionID), zap.Error(err))
			return
		}
	}
}

func (s *FeedServer) writePump(conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sub.send:
			if !ok {
				_ = write(conn, websocket.CloseMessage, []byte{})
				return
			}
			if err := write(conn, websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := write(conn, websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func write(conn *websocket.Conn, messageType int, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(messageType, data)
}
