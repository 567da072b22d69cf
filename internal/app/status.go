package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samvad-hq/roli/internal/logger"
	"github.com/samvad-hq/roli/internal/watcher"
)

const statusShutdownTimeout = 5 * time.Second

// statsSource is the part of watcher.Service the status endpoints read.
type statsSource interface {
	Stats() watcher.Stats
}

type statusResponse struct {
	watcher.Stats
	Publishers int       `json:"publishers"`
	StartedAt  time.Time `json:"started_at"`
}

// statusServer exposes /healthz and /stats over HTTP.
type statusServer struct {
	srv       *http.Server
	log       logger.Logger
	done      chan struct{}
	startedAt time.Time
}

func newStatusServer(addr string, stats statsSource, publishers int, log logger.Logger) *statusServer {
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &statusServer{log: log, done: make(chan struct{}), startedAt: time.Now().UTC()}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(stats, publishers),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	return s
}

func (s *statusServer) routes(stats statsSource, publishers int) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{
			Stats:      stats.Stats(),
			Publishers: publishers,
			StartedAt:  s.startedAt,
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	})
	return r
}

// start serves in the background and shuts down once ctx ends.
func (s *statusServer) start(ctx context.Context) {
	go func() {
		defer close(s.done)
		s.log.InfoObj("status server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.ErrorObj("status server failed", "error", err.Error())
		}
	}()
	go func() {
		<-ctx.Done()
		s.shutdown()
	}()
}

func (s *statusServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), statusShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.WarnObj("status server shutdown", "error", err.Error())
	}
}

// stop shuts the server down and waits for the serve loop to return.
func (s *statusServer) stop() {
	s.shutdown()
	<-s.done
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
