package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gofrs/flock"

	"uttale/internal/audio"
	"uttale/internal/config"
	"uttale/internal/index"
	"uttale/internal/logging"
	"uttale/internal/reindex"
)

// Server serves the uttale HTTP API for one index database.
type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	store       *index.Store
	extractor   *audio.Extractor
	coordinator *reindex.Coordinator

	lock     *flock.Flock
	listener net.Listener
	server   *http.Server
}

// New wires a server around an opened index store.
func New(cfg *config.Config, store *index.Store, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "server"),
		store:       store,
		extractor:   audio.NewExtractor(cfg, logger),
		coordinator: reindex.NewCoordinator(cfg, store, logger),
		lock:        flock.New(cfg.LockFilePath()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/uttale/Scopes", srv.handleScopes)
	mux.HandleFunc("/uttale/Search", srv.handleSearch)
	mux.HandleFunc("/uttale/Audio", srv.handleAudio)
	mux.HandleFunc("/uttale/Play", srv.handlePlay)
	mux.HandleFunc("/uttale/Reindex", srv.handleReindex)
	mux.HandleFunc("/uttale/Status", srv.handleStatus)

	srv.server = &http.Server{
		Handler:           srv.logRequests(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start acquires the instance lock and begins serving on the configured bind
// address. Serving continues until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another uttale server is already using this data directory")
	}

	listener, err := net.Listen("tcp", s.cfg.Paths.APIBind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.String("root", s.cfg.Paths.RootDir),
	)
	return nil
}

// Addr returns the bound listen address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully and releases the instance lock.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	if s.lock != nil {
		_ = s.lock.Unlock()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("incoming request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("query", r.URL.RawQuery),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
