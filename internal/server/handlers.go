package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleProcessFrame(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}

	var frame analysis.Frame
	if err := json.NewDecoder(r.Body).Decode(&frame); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	result := s.engine.ProcessFrame(frame, exercise, sessionID)
	s.aggregateFor(sessionID, exercise).agg.Observe(result)

	if result == nil {
		// No landmarks detected in this frame.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	s.engine.ResetSession(sessionID)
	s.takeAggregate(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.SessionStats(chi.URLParam(r, "id")))
}

func (s *Server) handleActiveSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": s.engine.ActiveSessions(),
	})
}

// completeResponse is the payload returned when a session finishes. Workout
// is present only when the summary was persisted.
type completeResponse struct {
	Workout *models.WorkoutSessionRow `json:"workout,omitempty"`
	Summary models.WorkoutResult      `json:"summary"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	sa := s.takeAggregate(sessionID)
	if sa == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown session"})
		return
	}
	summary := sa.agg.Result(time.Now())
	s.engine.ResetSession(sessionID)

	resp := completeResponse{Summary: summary}
	if s.db != nil {
		row, inserted, err := s.db.InsertWorkoutSession(r.Context(), summary)
		if err != nil {
			s.log.Error("persisting workout", "session", sessionID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if inserted {
			resp.Workout = &row
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "workout history not configured"})
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	workouts, err := s.db.QueryWorkoutSessions(r.Context(), start, end, r.URL.Query().Get("exercise"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "workout history not configured"})
		return
	}

	workoutID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	detail, err := s.db.GetWorkoutSession(r.Context(), workoutID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleExerciseTotals(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "workout history not configured"})
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	totals, err := s.db.GetExerciseTotals(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("category") != "":
		writeJSON(w, http.StatusOK, s.lib.ByCategory(q.Get("category")))
	case q.Get("difficulty") != "":
		writeJSON(w, http.StatusOK, s.lib.ByDifficulty(q.Get("difficulty")))
	case q.Get("q") != "":
		writeJSON(w, http.StatusOK, s.lib.Search(q.Get("q")))
	default:
		writeJSON(w, http.StatusOK, s.lib.All())
	}
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ex, ok := s.lib.Get(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown exercise: " + name})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
