// Package server provides the HTTP surface of Air Draw: the snapshot API,
// the per-session websocket and the MJPEG preview of the live window.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/airdraw/internal/painter"
	"github.com/ayusman/airdraw/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	// Registry enables the session API and websocket.
	Registry *painter.Registry
	// Frames enables the MJPEG preview at /api/stream.
	Frames *FrameHub
	// MaxFPS caps snapshots per second on each websocket. Zero means 15.
	MaxFPS int
	Logger logrus.FieldLogger
}

// Server represents the HTTP server for the Air Draw application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    logrus.FieldLogger
	srv    *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.MaxFPS <= 0 {
		config.MaxFPS = 15
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    config.Logger.WithField("component", "server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Registry != nil {
		sessions := api.NewSessionHandler(s.config.Registry, s.log)
		sockets := NewSessionSocket(s.config.Registry, s.config.MaxFPS, s.log)

		// Use a wrapper to route between the REST handler and the websocket:
		// /api/sessions/{id}/ws
		router := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/ws") {
				sockets.ServeHTTP(w, r)
				return
			}
			sessions.ServeHTTP(w, r)
		})

		s.mux.Handle(api.SessionsPrefix, router)
		s.mux.Handle(api.SessionsPrefix+"/", router)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Registry != nil {
		response["sessions"] = s.config.Registry.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if s.config.Frames != nil {
			s.config.Frames.Close()
		}
		if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
