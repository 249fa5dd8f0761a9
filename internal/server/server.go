package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vk/tamigo/internal/ctxlog"
	"github.com/vk/tamigo/internal/diag"
	"github.com/vk/tamigo/internal/session"
	"github.com/vk/tamigo/internal/vm"
)

// SessionFactory creates the session for a new connection. Events of the
// session must go to sink.
type SessionFactory func(sink vm.Sink) *session.Session

// Frame is one websocket message sent to the client.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Server serves game sessions over websockets.
type Server struct {
	ctx        context.Context
	port       int
	newSession SessionFactory
	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener

	mu    sync.Mutex
	conns map[string]*client
}

// New creates a server listening on port; port 0 picks a free one. ctx
// carries the logger and bounds every session.
func New(ctx context.Context, port int, newSession SessionFactory) *Server {
	return &Server{
		ctx:        ctx,
		port:       port,
		newSession: newSession,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*client),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ws", s.wsHandler)
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(s.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Start binds the port and serves in the background.
func (s *Server) Start() error {
	logger := ctxlog.FromContext(s.ctx)
	logger.Debug("Configuring game server.")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.Handler()}

	go func() {
		logger.Info("🚀 Game server starting", "address", fmt.Sprintf("ws://%s/ws", ln.Addr()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Game server failed unexpectedly", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and closes the open ones.
func (s *Server) Shutdown() error {
	logger := ctxlog.FromContext(s.ctx)
	if s.httpServer == nil {
		logger.Debug("Game server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down game server...")
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for _, c := range s.conns {
		c.conn.Close()
	}
	s.mu.Unlock()

	if err != nil {
		logger.Error("Game server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Game server shut down gracefully.")
	return nil
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ctxlog.FromContext(s.ctx).Warn("Websocket upgrade failed.", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	id := uuid.NewString()
	ctx := ctxlog.With(s.ctx, "session", id)
	logger := ctxlog.FromContext(ctx)
	c := &client{conn: conn}

	s.mu.Lock()
	s.conns[id] = c
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		conn.Close()
		logger.Info("Player disconnected.")
	}()

	logger.Info("Player connected.", "remote_addr", r.RemoteAddr)
	sess := s.newSession(vm.SinkFunc(func(e vm.Event) {
		c.send(ctx, Frame{Type: e.Name(), Data: e})
	}))
	c.send(ctx, Frame{Type: "connected", Data: map[string]string{"session": id}})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Websocket read ended.", "error", err)
			}
			return
		}
		in, err := session.DecodeInput(msg)
		if err != nil {
			c.send(ctx, Frame{Type: "input_error", Data: map[string]string{"message": err.Error()}})
			continue
		}
		reply, err := sess.Apply(ctx, in)
		switch {
		case err != nil && diag.KindOf(err) == diag.Runtime:
			// Already pushed as an error event.
		case err != nil:
			c.send(ctx, Frame{Type: "input_error", Data: map[string]string{"message": err.Error()}})
		case reply != nil:
			c.send(ctx, Frame{Type: "reply", Data: reply})
		}
	}
}

// client serializes writes to one connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(ctx context.Context, f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		ctxlog.FromContext(ctx).Error("Failed to encode frame.", "type", f.Type, "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		ctxlog.FromContext(ctx).Debug("Failed to write frame.", "type", f.Type, "error", err)
	}
}
