package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/library"
)

const testAPIKey = "test-key"

func testServer() *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := analysis.NewEngine(analysis.NewSessionStore(), analysis.NewRegistry(), log)
	return New(engine, nil, library.New(), testAPIKey, log)
}

// pushUpFrameJSON builds the request body for a frame whose elbow angle
// equals angleDeg on both arms.
func pushUpFrameJSON(t *testing.T, angleDeg float64) []byte {
	t.Helper()
	arm := func(elbowX float64) (analysis.Landmark, analysis.Landmark, analysis.Landmark) {
		elbow := analysis.Landmark{X: elbowX, Y: 0.5, Visibility: 1}
		wrist := analysis.Landmark{X: elbowX + 0.2, Y: 0.5, Visibility: 1}
		rad := angleDeg * math.Pi / 180
		shoulder := analysis.Landmark{
			X:          elbowX + 0.2*math.Cos(rad),
			Y:          0.5 - 0.2*math.Sin(rad),
			Visibility: 1,
		}
		return shoulder, elbow, wrist
	}
	ls, le, lw := arm(0.3)
	rs, re, rw := arm(0.7)
	frame := analysis.Frame{
		analysis.LeftShoulder: ls, analysis.LeftElbow: le, analysis.LeftWrist: lw,
		analysis.RightShoulder: rs, analysis.RightElbow: re, analysis.RightWrist: rw,
	}
	body, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshaling frame: %v", err)
	}
	return body
}

func postFrame(t *testing.T, s *Server, session string, angleDeg float64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/"+session+"/frames?exercise=push_ups",
		bytes.NewReader(pushUpFrameJSON(t, angleDeg)))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

// TestProcessFrameEndpoint verifies a frame round-trips through the engine
// and returns the analysis result.
func TestProcessFrameEndpoint(t *testing.T) {
	s := testServer()
	rec := postFrame(t, s, "s1", 170)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var result analysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if result.Exercise != "push_ups" {
		t.Errorf("exercise = %q, want push_ups", result.Exercise)
	}
	if result.Phase != "extended" {
		t.Errorf("phase = %q, want extended", result.Phase)
	}
}

// TestProcessFrameCountsRep verifies a full debounced cycle over HTTP
// increments the session's rep count.
func TestProcessFrameCountsRep(t *testing.T) {
	s := testServer()
	for _, a := range []float64{170, 170, 65, 65, 65, 65, 65, 170} {
		postFrame(t, s, "s1", a)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var stats analysis.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.RepCount != 1 {
		t.Errorf("rep_count = %d, want 1", stats.RepCount)
	}
}

// TestProcessFrameEmptyBody verifies an empty frame returns 204 No Content.
func TestProcessFrameEmptyBody(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/s1/frames?exercise=push_ups",
		bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

// TestProcessFrameRequiresExercise verifies the exercise parameter is
// mandatory.
func TestProcessFrameRequiresExercise(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/frames",
		bytes.NewReader(pushUpFrameJSON(t, 170)))
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestProcessFrameRequiresAPIKey verifies session mutation routes are
// protected while stats stays open.
func TestProcessFrameRequiresAPIKey(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/s1/frames?exercise=push_ups",
		bytes.NewReader(pushUpFrameJSON(t, 170)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost,
		"/api/v1/sessions/s1/frames?exercise=push_ups",
		bytes.NewReader(pushUpFrameJSON(t, 170)))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/stats", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("stats status = %d, want 200 without key", rec.Code)
	}
}

// TestStatsUnknownSession verifies unknown sessions return the zero default.
func TestStatsUnknownSession(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nobody/stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var stats analysis.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.RepCount != 0 || stats.Phase != "ready" {
		t.Errorf("stats = %+v, want {0 ready}", stats)
	}
}

// TestResetSession verifies reset clears engine state and is idempotent.
func TestResetSession(t *testing.T) {
	s := testServer()
	for _, a := range []float64{170, 170, 65, 65, 65, 65, 65, 170} {
		postFrame(t, s, "s1", a)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/reset", nil)
		req.Header.Set("X-API-Key", testAPIKey)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("reset %d status = %d, want 204", i, rec.Code)
		}
	}

	if stats := s.engine.SessionStats("s1"); stats.RepCount != 0 {
		t.Errorf("rep_count after reset = %d, want 0", stats.RepCount)
	}
}

// TestCompleteSession verifies completion returns the workout summary and
// resets the session.
func TestCompleteSession(t *testing.T) {
	s := testServer()
	for _, a := range []float64{170, 170, 65, 65, 65, 65, 65, 170} {
		postFrame(t, s, "s1", a)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/complete", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp completeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Summary.TotalReps != 1 {
		t.Errorf("total_reps = %d, want 1", resp.Summary.TotalReps)
	}
	if resp.Summary.Exercise != "push_ups" {
		t.Errorf("exercise = %q, want push_ups", resp.Summary.Exercise)
	}
	if resp.Summary.FramesProcessed != 8 {
		t.Errorf("frames_processed = %d, want 8", resp.Summary.FramesProcessed)
	}
	if resp.Workout != nil {
		t.Errorf("workout = %+v, want nil without a database", resp.Workout)
	}

	if stats := s.engine.SessionStats("s1"); stats.RepCount != 0 {
		t.Errorf("rep_count after complete = %d, want 0", stats.RepCount)
	}
}

// TestCompleteUnknownSession verifies completing a session that never saw a
// frame returns 404.
func TestCompleteUnknownSession(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/ghost/complete", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestWorkoutsWithoutDatabase verifies history endpoints fail cleanly when
// persistence is not configured.
func TestWorkoutsWithoutDatabase(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workouts", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// TestListExercises verifies the catalog endpoints.
func TestListExercises(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var exercises []library.Exercise
	if err := json.Unmarshal(rec.Body.Bytes(), &exercises); err != nil {
		t.Fatalf("decoding exercises: %v", err)
	}
	if len(exercises) != 5 {
		t.Errorf("len(exercises) = %d, want 5", len(exercises))
	}
}

// TestGetExercise verifies name lookup is case-insensitive and unknown
// names return 404.
func TestGetExercise(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises/Push_Ups", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var ex library.Exercise
	if err := json.Unmarshal(rec.Body.Bytes(), &ex); err != nil {
		t.Fatalf("decoding exercise: %v", err)
	}
	if ex.Name != "push_ups" {
		t.Errorf("name = %q, want push_ups", ex.Name)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exercises/handstands", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown exercise status = %d, want 404", rec.Code)
	}
}
