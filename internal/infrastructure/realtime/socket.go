// Package realtime publishes best-effort events (new_message, new_like,
// new_match) over socket.io. Clients join a room named by their profile id.
package realtime

import (
	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// Publisher is the event channel consumed by the use cases. Delivery is
// best-effort; publishing never fails the calling operation.
type Publisher interface {
	Publish(room, event string, payload interface{})
}

type Server struct {
	io     *socketio.Server
	logger *zap.Logger
}

// NewServer initializes the socket.io server and its room handling.
func NewServer(logger *zap.Logger) *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		logger.Debug("socket connected", zap.String("socket_id", s.ID()))
		return nil
	})

	// Clients emit "join" with their profile id to receive targeted events.
	io.OnEvent("/", "join", func(s socketio.Conn, userID string) {
		if userID == "" {
			return
		}
		s.Join(userID)
		logger.Debug("socket joined room",
			zap.String("socket_id", s.ID()),
			zap.String("room", userID),
		)
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		logger.Debug("socket disconnected",
			zap.String("socket_id", s.ID()),
			zap.String("reason", reason),
		)
	})

	return &Server{io: io, logger: logger}
}

// IO exposes the underlying server for mounting on the HTTP router.
func (s *Server) IO() *socketio.Server {
	return s.io
}

// Run serves socket.io connections until Close is called.
func (s *Server) Run() {
	if err := s.io.Serve(); err != nil {
		s.logger.Error("socket.io serve", zap.Error(err))
	}
}

func (s *Server) Close() error {
	return s.io.Close()
}

func (s *Server) Publish(room, event string, payload interface{}) {
	s.io.BroadcastToRoom("/", room, event, payload)
}
