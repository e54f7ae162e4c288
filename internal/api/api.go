// Package api serves the read-only status endpoints next to the bot.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shanehull/unicabot/internal/history"
	applog "github.com/shanehull/unicabot/internal/log"
	"github.com/shanehull/unicabot/internal/metrics"
	"github.com/shanehull/unicabot/internal/subs"
	"github.com/shanehull/unicabot/internal/types"
	"github.com/shanehull/unicabot/internal/watcher"
)

// CycleReporter exposes the outcome of the latest reconciliation cycle.
type CycleReporter interface {
	LastCycle() (watcher.CycleResult, bool)
}

// Status is the body of GET /api/status.
type Status struct {
	Version     string      `json:"version"`
	Events      int         `json:"events"`
	Subscribers int         `json:"subscribers"`
	LastCycle   *CycleState `json:"last_cycle,omitempty"`
}

// CycleState is the JSON view of a watcher.CycleResult.
type CycleState struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	DurationMS int64         `json:"duration_ms"`
	Outcome    string        `json:"outcome"`
	Error      string        `json:"error,omitempty"`
	Parsed     int           `json:"parsed"`
	Removed    int           `json:"removed"`
	New        []types.Event `json:"new"`
	Sent       int           `json:"sent"`
	Failed     int           `json:"failed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP status server.
type Server struct {
	version  string
	catalog  *history.Catalog
	registry *subs.Registry
	cycles   CycleReporter
	srv      *http.Server
}

func NewServer(addr, version string, catalog *history.Catalog, registry *subs.Registry, cycles CycleReporter) *Server {
	s := &Server{
		version:  version,
		catalog:  catalog,
		registry: registry,
		cycles:   cycles,
	}
	s.srv = &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)

	r.Get("/health", s.health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.listEvents)
		r.Get("/status", s.status)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	logger := applog.WithComponent("api")
	logger.Info().Str("addr", s.srv.Addr).Msg("Status API listening")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listEvents handles GET /api/events.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events := s.catalog.All()
	if events == nil {
		events = []types.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// status handles GET /api/status.
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	st := Status{
		Version:     s.version,
		Events:      s.catalog.Len(),
		Subscribers: s.registry.Len(),
	}
	if s.cycles != nil {
		if res, ok := s.cycles.LastCycle(); ok {
			st.LastCycle = cycleState(res)
		}
	}
	writeJSON(w, http.StatusOK, st)
}

func cycleState(res watcher.CycleResult) *CycleState {
	cs := &CycleState{
		ID:         res.ID,
		StartedAt:  res.StartedAt,
		DurationMS: res.Duration.Milliseconds(),
		Outcome:    res.Outcome(),
		Parsed:     res.Parsed,
		Removed:    res.Removed,
		New:        res.New,
		Sent:       res.Sent,
		Failed:     res.Failed,
	}
	if cs.New == nil {
		cs.New = []types.Event{}
	}
	if res.Err != nil && res.Outcome() == metrics.ResultFetchError {
		cs.Error = res.Err.Error()
	}
	return cs
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logger := applog.WithComponent("api")
		logger.Debug().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
