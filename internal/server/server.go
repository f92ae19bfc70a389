// Package server exposes the analysis engine, workout history and exercise
// catalog over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/library"
	"github.com/claude/repcoach/internal/storage"
	"github.com/claude/repcoach/internal/workout"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers. db may be nil, in which case
// workout history endpoints report that persistence is not configured.
type Server struct {
	engine *analysis.Engine
	db     *storage.DB
	lib    *library.Library
	log    *slog.Logger
	apiKey string
	router chi.Router

	mu         sync.Mutex
	aggregates map[string]*sessionAggregate
}

// sessionAggregate tracks the workout summary for one live session between
// its first frame and completion.
type sessionAggregate struct {
	exercise string
	agg      *workout.Aggregator
}

// New creates a new Server with all routes configured.
func New(engine *analysis.Engine, db *storage.DB, lib *library.Library, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		engine:     engine,
		db:         db,
		lib:        lib,
		log:        log,
		apiKey:     apiKey,
		router:     chi.NewRouter(),
		aggregates: make(map[string]*sessionAggregate),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Session endpoints that mutate engine state (API key required)
	s.router.Route("/api/v1/sessions/{id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/frames", s.handleProcessFrame)
			r.Post("/reset", s.handleResetSession)
			r.Post("/complete", s.handleCompleteSession)
		})
		r.Get("/stats", s.handleSessionStats)
	})

	// History and catalog endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/sessions", s.handleActiveSessions)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/totals", s.handleExerciseTotals)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{name}", s.handleGetExercise)
}

// aggregateFor returns the live aggregate for a session, creating it on the
// session's first frame.
func (s *Server) aggregateFor(sessionID, exercise string) *sessionAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	sa, ok := s.aggregates[sessionID]
	if !ok {
		sa = &sessionAggregate{
			exercise: exercise,
			agg:      workout.NewAggregator(sessionID, exercise, time.Now()),
		}
		s.aggregates[sessionID] = sa
	}
	return sa
}

// takeAggregate removes and returns the live aggregate for a session.
func (s *Server) takeAggregate(sessionID string) *sessionAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	sa := s.aggregates[sessionID]
	delete(s.aggregates, sessionID)
	return sa
}
