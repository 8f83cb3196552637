package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/logging"
	"github.com/neckcare/neckscan/internal/report"
	"github.com/neckcare/neckscan/internal/session"
)

// DefaultMaxImageBytes caps a decoded upload
const DefaultMaxImageBytes = 10 << 20

// shutdownTimeout bounds a graceful stop
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // Optional; serve TLS when both CertPath and KeyPath are set
	KeyPath  string

	Analyzer       analysis.Analyzer
	Links          report.Links
	SessionOptions []session.Option // Applied to every session the server creates
	MaxImageBytes  int64            // Defaults to DefaultMaxImageBytes
}

// Server serves the websocket session API and the one-shot HTTP API
type Server struct {
	config    *Config
	tlsConfig *tls.Config
	handler   http.Handler

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
	sessions map[string]*wsSession
	closing  bool
	wg       sync.WaitGroup
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Analyzer == nil {
		return nil, fmt.Errorf("an analyzer is required")
	}
	if config.MaxImageBytes <= 0 {
		config.MaxImageBytes = DefaultMaxImageBytes
	}

	s := &Server{
		config:   config,
		sessions: make(map[string]*wsSession),
	}

	if config.tlsEnabled() {
		tlsConfig, err := NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, err
		}
		s.tlsConfig = tlsConfig
	}

	s.handler = s.newRouter()
	return s, nil
}

// Handler returns the HTTP handler, for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound address once Listen has succeeded
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Listen binds the configured address. Port 0 picks a free port.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = listener
	s.http = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	logging.Info("Server listening for connections",
		zap.String("addr", listener.Addr().String()),
		zap.Bool("tls", s.tlsConfig != nil),
	)
	return nil
}

// Run listens (if needed) and serves until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.Addr() == "" {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.mu.Lock()
	httpServer, listener := s.http, s.listener
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutdown requested, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown stops accepting requests, closes every session and waits for
// their goroutines
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	httpServer := s.http
	sessions := make([]*wsSession, 0, len(s.sessions))
	for _, ws := range s.sessions {
		sessions = append(sessions, ws)
	}
	s.mu.Unlock()

	var shutdownErr error
	if httpServer != nil {
		// Hijacked websocket connections are not tracked by http.Server
		if err := httpServer.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}

	for _, ws := range sessions {
		ws.close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return shutdownErr
}

// ActiveSessions returns the number of open websocket sessions
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// newMachine creates a session with the server-wide options
func (s *Server) newMachine(id string) *session.Machine {
	opts := append([]session.Option{session.WithSessionID(id)}, s.config.SessionOptions...)
	return session.New(s.config.Analyzer, opts...)
}

// addSession registers ws and reserves its two pumps on the wait group.
// It reports false once Shutdown has started.
func (s *Server) addSession(ws *wsSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[ws.id] = ws
	s.wg.Add(2)
	return true
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
