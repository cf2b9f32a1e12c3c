package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/clipdrawer/config"
	"markestedt/clipdrawer/register"
	"markestedt/clipdrawer/storage"
)

//go:embed static/*
var staticFiles embed.FS


// OverlayState reports whether the console overlay is shown.
type OverlayState interface {
	Visible() bool
}

// Server is the local dashboard. It only ever sees register summaries
// published by the menu loop, never the live registers.
type Server struct {
	db      *storage.DB
	config  *config.Config
	port    int
	hub     *Hub
	overlay OverlayState

	mu        sync.RWMutex
	status    string
	registers []register.Summary
	published time.Time

	upgrader   websocket.Upgrader
	httpServer *http.Server
	stopped    bool
}

// NewServer creates a new web server. db may be nil when history is
// disabled.
func NewServer(db *storage.DB, cfg *config.Config, port int) *Server {
	hub := NewHub()
	go hub.Run()

	s := &Server{
		db:     db,
		config: cfg,
		port:   port,
		hub:    hub,
		status: "running",
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin admits clients without an Origin header and pages served by
// this dashboard.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme != "http" {
		return false
	}
	port := strconv.Itoa(s.port)
	return u.Host == net.JoinHostPort("localhost", port) || u.Host == net.JoinHostPort("127.0.0.1", port)
}

// SetOverlay lets the status endpoint report overlay visibility.
func (s *Server) SetOverlay(o OverlayState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = o
}

// Handler builds the HTTP routes.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/registers", s.handleRegisters)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return mux, nil
}

// Start serves the dashboard on the loopback interface until Shutdown.
func (s *Server) Start() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	srv := s.httpServer
	s.mu.Unlock()

	slog.Info("Starting web server", "port", s.port, "url", s.URL())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve dashboard: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server and disconnects dashboard clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.BroadcastStatus("stopping")
	s.hub.Stop()

	s.mu.Lock()
	s.stopped = true
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// URL is the dashboard address.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Publish stores the latest register summaries and pushes them to
// connected clients.
func (s *Server) Publish(summaries []register.Summary) {
	s.mu.Lock()
	s.registers = summaries
	s.published = time.Now()
	s.mu.Unlock()

	s.hub.BroadcastMessage(Message{
		Type: MessageTypeRegisters,
		Data: nonNil(summaries),
	})
}

// Registers returns the most recently published summaries.
func (s *Server) Registers() ([]register.Summary, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registers, s.published
}

// BroadcastStatus broadcasts a status update to all connected clients
func (s *Server) BroadcastStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	s.hub.BroadcastMessage(Message{
		Type: MessageTypeStatus,
		Data: StatusMessage{Status: status},
	})
}

// BroadcastOperation broadcasts a recorded operation to all connected clients
func (s *Server) BroadcastOperation(o *storage.Operation) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeOperation,
		Data: OperationMessage{
			ID:        o.ID,
			Op:        o.Op,
			Register:  o.Register,
			Success:   o.Success,
			Timestamp: o.Timestamp.UTC().Format(time.RFC3339),
		},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	s.hub.attach(conn)
}

func nonNil(summaries []register.Summary) []register.Summary {
	if summaries == nil {
		return []register.Summary{}
	}
	return summaries
}
