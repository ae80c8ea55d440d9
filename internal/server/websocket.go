package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/robosim/robosim/internal/core/engine"
	"github.com/robosim/robosim/internal/core/events/bus"
	"github.com/robosim/robosim/internal/core/observability/log"
)

// eventFrame is pushed to WebSocket clients when the engine publishes
// an event.
type eventFrame struct {
	Event   string `json:"event"`
	RobotID string `json:"robot_id,omitempty"`
	Time    string `json:"time"`
}

// subscribeEvents relays engine events to every connected WebSocket
// client.
func (s *Server) subscribeEvents() {
	if s.eventBus == nil {
		return
	}

	types := []string{
		engine.EventStarted,
		engine.EventStopped,
		engine.EventPaused,
		engine.EventResumed,
		engine.EventRobotAvoided,
		engine.EventRobotHalted,
	}
	for _, t := range types {
		s.eventBus.Subscribe(t, s.relayEvent)
	}
}

func (s *Server) relayEvent(ev bus.Event) {
	frame := eventFrame{
		Event: ev.Type,
		Time:  ev.Time.Format(time.RFC3339Nano),
	}
	if ev.Source != uuid.Nil {
		frame.RobotID = ev.Source.String()
	}
	s.broadcastJSON(frame)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("websocket client connected", log.String("remote", conn.RemoteAddr().String()))

	// Greet with the current state so clients can render immediately.
	if err := s.writeClient(conn, s.engine.Snapshot()); err != nil {
		s.dropClient(conn)
		return
	}

	go s.readCommands(conn)
}

// writeClient serializes writes to one connection; gorilla connections
// do not allow concurrent writers.
func (s *Server) writeClient(conn *websocket.Conn, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conn.WriteJSON(v)
}

// readCommands consumes inbound command frames until the client goes
// away.
func (s *Server) readCommands(conn *websocket.Conn) {
	defer s.dropClient(conn)

	for {
		var req CommandRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if err := s.dispatch(req); err != nil {
			s.logger.Warn("rejected websocket command", log.Error(err))
			_ = s.writeClient(conn, map[string]string{"error": err.Error()})
		}
	}
}

// broadcastLoop streams pose snapshots to every connected client at the
// configured cadence.
func (s *Server) broadcastLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return nil
		case <-ticker.C:
			if !s.hasClients() {
				continue
			}
			s.broadcastJSON(s.engine.Snapshot())
		}
	}
}

func (s *Server) broadcastJSON(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(v); err != nil {
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

func (s *Server) hasClients() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients) > 0
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, conn)
	}
}
