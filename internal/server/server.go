// Package server exposes the simulator over HTTP, WebSocket and QUIC.
// Every transport funnels into the engine's command queue; nothing here
// touches robot state directly, so commands always land at tick
// boundaries.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/robosim/robosim/internal/core/engine"
	"github.com/robosim/robosim/internal/core/events/bus"
	"github.com/robosim/robosim/internal/core/observability/log"
	"github.com/robosim/robosim/pkg/concurrent"
)

// Config holds the control surface configuration.
type Config struct {
	// HTTPAddr is the HTTP/WebSocket listen address.
	HTTPAddr string
	// QUICAddr enables the QUIC command channel when non-empty.
	QUICAddr string
	// StreamInterval is the pose broadcast cadence for WebSocket
	// clients.
	StreamInterval time.Duration
	// ShutdownTimeout bounds the graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default control surface configuration.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:        "127.0.0.1:8080",
		StreamInterval:  50 * time.Millisecond,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server is the simulator control surface.
type Server struct {
	cfg      Config
	engine   *engine.Engine
	eventBus *bus.Bus
	logger   log.Log

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a control surface over the given engine.
func New(cfg Config, eng *engine.Engine, eventBus *bus.Bus, logger log.Log) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = 50 * time.Millisecond
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		cfg:      cfg,
		engine:   eng,
		eventBus: eventBus,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Run starts every enabled listener and blocks until the context is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.subscribeEvents()

	tasks := []func(context.Context) error{
		s.runHTTP,
		s.broadcastLoop,
	}
	if s.cfg.QUICAddr != "" {
		tasks = append(tasks, s.runQUIC)
	}
	return concurrent.Run(ctx, tasks...)
}

func (s *Server) runHTTP(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/command", s.handleCommand)
	mux.HandleFunc("/ws", s.handleWebSocket)

	httpServer := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", log.Error(err))
		}
	}()

	s.logger.Info("control surface listening", log.String("addr", s.cfg.HTTPAddr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// CommandRequest is the JSON body accepted by POST /command and by the
// WebSocket and QUIC command channels.
type CommandRequest struct {
	RobotID string `json:"robot_id,omitempty"`
	Op      string `json:"op"`
}

// dispatch routes a decoded command: robot operations are queued for
// the next tick, engine operations apply immediately (pausing happens
// between ticks regardless).
func (s *Server) dispatch(req CommandRequest) error {
	switch op := engine.Op(req.Op); op {
	case engine.OpMoveForward, engine.OpStop, engine.OpRotateLeft, engine.OpRotateRight:
		id, err := uuid.Parse(req.RobotID)
		if err != nil {
			return fmt.Errorf("invalid robot id %q: %w", req.RobotID, err)
		}
		s.engine.Enqueue(engine.Command{RobotID: id, Op: op})
		return nil
	}

	switch req.Op {
	case "pause":
		s.engine.Pause()
	case "start", "resume":
		s.engine.Resume()
	default:
		return fmt.Errorf("unknown op %q", req.Op)
	}
	return nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.engine.Snapshot()); err != nil {
		s.logger.Warn("failed to write snapshot", log.Error(err))
	}
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Errorf("invalid command body: %w", err))
		return
	}
	if err := s.dispatch(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"queued"}`))
}

func writeJSONError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
