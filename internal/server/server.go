// Package server is the jah development web server: an HTTP front door
// and the resolver that decides what each path serves.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Config contains front door settings
type Config struct {
	// Compress enables gzip for clients that accept it
	Compress bool
	// WriteTimeout bounds a whole response, bundle build included
	WriteTimeout time.Duration
}

// DefaultConfig returns the front door defaults
func DefaultConfig() Config {
	return Config{
		Compress:     true,
		WriteTimeout: 2 * time.Minute,
	}
}

// Server represents the development HTTP server
type Server struct {
	server   *http.Server
	addr     string
	logger   *slog.Logger
	resolver *Resolver
}

// NewServer creates a new HTTP server instance
func NewServer(addr string, resolver *Resolver, logger *slog.Logger, cfg Config) *Server {
	s := &Server{
		addr:     addr,
		logger:   logger,
		resolver: resolver,
	}

	handler := s.applyMiddleware(http.HandlerFunc(s.handleRequest), cfg)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Serving from", "url", "http://"+ln.Addr().String()+"/", "output", s.resolver.OutputTarget())

	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info("Server shut down successfully")
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler with middleware in the correct order
func (s *Server) applyMiddleware(handler http.Handler, cfg Config) http.Handler {
	// Apply middleware in reverse order (last one wraps first)
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	if cfg.Compress {
		handler = CompressionMiddleware()(handler)
	}
	return handler
}

// handleRequest is the single route: every path goes through the resolver.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	if r.URL == nil || !strings.HasPrefix(r.URL.Path, "/") {
		s.logger.Warn("Malformed request target", "target", r.RequestURI)
		BadRequest(w, "request target must be an absolute path")
		return
	}

	// Parsed for completeness; nothing resolves on the query string.
	query := r.URL.Query()

	requestPath := NormalizePath(r.URL.Path)
	s.logger.Info("Request",
		"path", requestPath,
		"query", query.Encode(),
		"requestID", GetRequestID(r.Context()),
	)

	WriteResponse(w, s.resolver.Resolve(r.Context(), requestPath))
}
