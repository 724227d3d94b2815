package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/zeusync/quadworld/internal/config"
	"github.com/zeusync/quadworld/internal/core/input"
	"github.com/zeusync/quadworld/internal/core/observability/log"
)

const shutdownTimeout = 5 * time.Second

// Server accepts remote touch feeds over WebSocket. Each connection gets its
// own gesture dispatcher and receives its finished strokes back; every sample
// is also queued for the simulation loop, which collects them with Drain.
type Server struct {
	cfg      config.ServerConfig
	upgrader websocket.Upgrader
	http     *http.Server

	mu       sync.Mutex
	pending  []input.Touch
	conns    map[*websocket.Conn]struct{}
	handlers sync.WaitGroup

	connSeq     uint32 // atomic
	clientCount int64  // atomic
	running     int32  // atomic bool
	closed      int32  // atomic bool

	logger log.Log
}

// Stats contains server statistics.
type Stats struct {
	ClientCount int64
	Pending     int
	Running     bool
}

func New(cfg config.ServerConfig, logger log.Log) *Server {
	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns:  make(map[*websocket.Conn]struct{}),
		logger: log.OrNop(logger).With(log.String("component", "server")),
	}
	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler routes /touch to the WebSocket feed and /healthz to a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/touch", s.handleTouch)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}
	defer atomic.StoreInt32(&s.running, 0)

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		s.logger.Error("Failed to create listener", log.Error(err))
		return errors.Wrap(err, "listen")
	}
	s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.http.Serve(ln) }()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	return s.Close()
}

// Close stops accepting connections, closes every live touch feed and waits
// for their handlers to return.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	s.logger.Info("Stopping server", log.Int64("clients", atomic.LoadInt64(&s.clientCount)))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(ctx)

	// Shutdown leaves hijacked connections alone.
	s.mu.Lock()
	for conn := range s.conns {
		goingAway(conn)
		_ = conn.Close()
	}
	s.mu.Unlock()
	s.handlers.Wait()

	if err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// track registers a live connection. It fails once the server is closed.
func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if atomic.LoadInt32(&s.closed) == 1 {
		return false
	}
	s.conns[conn] = struct{}{}
	s.handlers.Add(1)
	return true
}

func goingAway(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.handlers.Done()
}

// Drain returns and clears the touches received since the last call.
func (s *Server) Drain() []input.Touch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

func (s *Server) GetStats() Stats {
	s.mu.Lock()
	pending := len(s.pending)
	s.mu.Unlock()
	return Stats{
		ClientCount: atomic.LoadInt64(&s.clientCount),
		Pending:     pending,
		Running:     atomic.LoadInt32(&s.running) == 1,
	}
}

func (s *Server) queue(t input.Touch) {
	s.mu.Lock()
	s.pending = append(s.pending, t)
	s.mu.Unlock()
}
