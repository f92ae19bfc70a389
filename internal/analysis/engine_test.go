package analysis

import (
	"io"
	"log/slog"
	"math"
	"testing"
)

func testEngine() *Engine {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(NewSessionStore(), NewRegistry(), log)
}

// armLandmarks builds a shoulder/elbow/wrist triple whose elbow angle equals
// angleDeg, with the forearm lying along +x from the elbow.
func armLandmarks(angleDeg, elbowX float64) (shoulder, elbow, wrist Landmark) {
	elbow = Landmark{X: elbowX, Y: 0.5, Visibility: 1}
	wrist = Landmark{X: elbowX + 0.2, Y: 0.5, Visibility: 1}
	rad := angleDeg * math.Pi / 180
	shoulder = Landmark{
		X:          elbowX + 0.2*math.Cos(rad),
		Y:          0.5 - 0.2*math.Sin(rad),
		Visibility: 1,
	}
	return shoulder, elbow, wrist
}

// pushUpFrame builds a frame whose average elbow angle equals angleDeg.
func pushUpFrame(angleDeg float64) Frame {
	ls, le, lw := armLandmarks(angleDeg, 0.3)
	rs, re, rw := armLandmarks(angleDeg, 0.7)
	return Frame{
		LeftShoulder: ls, LeftElbow: le, LeftWrist: lw,
		RightShoulder: rs, RightElbow: re, RightWrist: rw,
	}
}

// squatFrame builds a frame whose average knee angle equals angleDeg.
func squatFrame(angleDeg float64) Frame {
	lh, lk, la := armLandmarks(angleDeg, 0.4)
	rh, rk, ra := armLandmarks(angleDeg, 0.6)
	return Frame{
		LeftHip: lh, LeftKnee: lk, LeftAnkle: la,
		RightHip: rh, RightKnee: rk, RightAnkle: ra,
	}
}

// feedPushUps runs one full debounced push-up cycle through the engine.
func feedPushUps(e *Engine, session string) {
	for _, a := range []float64{170, 170, 65, 65, 65, 65, 65, 170} {
		e.ProcessFrame(pushUpFrame(a), "push_ups", session)
	}
}

// TestProcessFrameEmptyFrame verifies an empty frame means "no detection":
// nil result and no session state created.
func TestProcessFrameEmptyFrame(t *testing.T) {
	e := testEngine()
	if res := e.ProcessFrame(Frame{}, "push_ups", "s1"); res != nil {
		t.Fatalf("result = %+v, want nil for empty frame", res)
	}
	if res := e.ProcessFrame(nil, "push_ups", "s1"); res != nil {
		t.Fatalf("result = %+v, want nil for nil frame", res)
	}
	stats := e.SessionStats("s1")
	if stats.RepCount != 0 || stats.Phase != "ready" {
		t.Errorf("stats = %+v, want zero default (no state mutated)", stats)
	}
}

// TestProcessFrameCountsDebouncedRep verifies the spec's canonical push-up
// sequence (170, 170, 65 held, 170) counts exactly one rep.
func TestProcessFrameCountsDebouncedRep(t *testing.T) {
	e := testEngine()
	feedPushUps(e, "s1")
	stats := e.SessionStats("s1")
	if stats.RepCount != 1 {
		t.Errorf("rep_count = %d, want 1", stats.RepCount)
	}
	if stats.Phase != "extended" {
		t.Errorf("phase = %q, want extended", stats.Phase)
	}
}

// TestProcessFrameRepCountMonotonic verifies rep_count observed through
// SessionStats never decreases over an arbitrary frame sequence.
func TestProcessFrameRepCountMonotonic(t *testing.T) {
	e := testEngine()
	angles := []float64{10, 170, 40, 95, 170, 65, 65, 65, 65, 170, 20, 180, 65, 170}
	prev := 0
	for _, a := range angles {
		e.ProcessFrame(pushUpFrame(a), "push_ups", "s1")
		stats := e.SessionStats("s1")
		if stats.RepCount < prev {
			t.Fatalf("rep_count decreased from %d to %d", prev, stats.RepCount)
		}
		prev = stats.RepCount
	}
}

// TestProcessFrameScoreBounds verifies accuracy_score stays in [0,1] for all
// inputs, including frames engineered to trip every penalty at once.
func TestProcessFrameScoreBounds(t *testing.T) {
	e := testEngine()
	frames := []Frame{
		pushUpFrame(170),
		pushUpFrame(30),
		squatFrame(170),
		squatFrame(40),
		{Nose: lm(0.5, 0.1)},
	}
	for i, f := range frames {
		for _, exercise := range []string{"push_ups", "squats", "bicep_curls", "planks", "nope"} {
			res := e.ProcessFrame(f, exercise, "bounds")
			if res == nil {
				continue
			}
			if res.AccuracyScore < 0 || res.AccuracyScore > 1 {
				t.Errorf("frame %d exercise %s: score %f out of [0,1]", i, exercise, res.AccuracyScore)
			}
		}
	}
}

// TestResetClearsState verifies reset_session drops rep count and phase and
// that a later frame starts a fresh session.
func TestResetClearsState(t *testing.T) {
	e := testEngine()
	feedPushUps(e, "s1")
	if e.SessionStats("s1").RepCount != 1 {
		t.Fatal("setup: expected 1 rep before reset")
	}

	e.ResetSession("s1")

	stats := e.SessionStats("s1")
	if stats.RepCount != 0 || stats.Phase != "ready" {
		t.Errorf("stats after reset = %+v, want {0 ready}", stats)
	}

	res := e.ProcessFrame(pushUpFrame(170), "push_ups", "s1")
	if res.FrameIndex != 1 {
		t.Errorf("frame_index = %d after reset, want 1 (fresh session)", res.FrameIndex)
	}
}

// TestUnknownSessionSafety verifies stats and reset on a never-seen session
// id are safe no-ops returning the zero default.
func TestUnknownSessionSafety(t *testing.T) {
	e := testEngine()
	stats := e.SessionStats("never-seen")
	if stats.RepCount != 0 || stats.Phase != "ready" {
		t.Errorf("stats = %+v, want zero default", stats)
	}
	e.ResetSession("never-seen") // must not panic
}

// TestOcclusionTolerance verifies that dropping one required landmark's
// visibility freezes rep counting for those frames without destroying state
// or panicking.
func TestOcclusionTolerance(t *testing.T) {
	e := testEngine()
	e.ProcessFrame(pushUpFrame(170), "push_ups", "s1")

	// Contraction frames with an occluded wrist: phase must not advance.
	for i := 0; i < 5; i++ {
		f := pushUpFrame(65)
		w := f[LeftWrist]
		w.Visibility = 0.1
		f[LeftWrist] = w
		res := e.ProcessFrame(f, "push_ups", "s1")
		if res == nil {
			t.Fatal("expected a result for a frame with landmarks present")
		}
		if res.Phase != "extended" {
			t.Fatalf("phase = %q during occlusion, want extended (no transition)", res.Phase)
		}
	}
	// Release frame: the occluded contraction must not have produced a rep.
	e.ProcessFrame(pushUpFrame(170), "push_ups", "s1")
	if got := e.SessionStats("s1").RepCount; got != 0 {
		t.Errorf("rep_count = %d, want 0 (no rep attributable to occluded frames)", got)
	}
}

// TestUnknownExerciseFallback verifies unregistered exercise names route to
// the generic analyzer: neutral 0.5 score, single advisory string, no error.
func TestUnknownExerciseFallback(t *testing.T) {
	e := testEngine()
	res := e.ProcessFrame(pushUpFrame(170), "jumping_jacks_v99", "s1")
	if res == nil {
		t.Fatal("expected a result for unknown exercise")
	}
	if res.AccuracyScore != 0.5 {
		t.Errorf("score = %f, want 0.5", res.AccuracyScore)
	}
	if len(res.FormFeedback) != 1 {
		t.Errorf("feedback = %v, want exactly one advisory string", res.FormFeedback)
	}
}

// TestExerciseNameCaseInsensitive verifies dispatch ignores case.
func TestExerciseNameCaseInsensitive(t *testing.T) {
	e := testEngine()
	res := e.ProcessFrame(pushUpFrame(170), "Push_Ups", "s1")
	if res.Exercise != "push_ups" {
		t.Errorf("exercise = %q, want push_ups", res.Exercise)
	}
	if res.AccuracyScore == 0.5 && len(res.FormFeedback) == 1 && res.FormFeedback[0] == unknownExerciseAdvice {
		t.Error("case variant fell through to the fallback analyzer")
	}
}

// TestSessionsIndependent verifies two sessions never share rep state.
func TestSessionsIndependent(t *testing.T) {
	e := testEngine()
	feedPushUps(e, "a")
	if got := e.SessionStats("b").RepCount; got != 0 {
		t.Errorf("session b rep_count = %d, want 0", got)
	}
	if got := e.SessionStats("a").RepCount; got != 1 {
		t.Errorf("session a rep_count = %d, want 1", got)
	}
}

// TestPlankIsometric verifies the isometric analyzer holds phase "hold" and
// never counts reps.
func TestPlankIsometric(t *testing.T) {
	e := testEngine()
	f := Frame{
		LeftShoulder: lm(0.3, 0.4), RightShoulder: lm(0.35, 0.4),
		LeftHip: lm(0.5, 0.5), RightHip: lm(0.55, 0.5),
		LeftAnkle: lm(0.7, 0.6), RightAnkle: lm(0.75, 0.6),
	}
	for i := 0; i < 10; i++ {
		res := e.ProcessFrame(f, "planks", "s1")
		if res.RepCount != 0 {
			t.Fatalf("rep_count = %d, want 0 for isometric exercise", res.RepCount)
		}
		if res.Phase != "hold" {
			t.Fatalf("phase = %q, want hold", res.Phase)
		}
	}
}

// TestResultLandmarksDetached verifies mutating the returned landmark map
// does not leak back into frames held by the caller's next computation.
func TestResultLandmarksDetached(t *testing.T) {
	e := testEngine()
	f := pushUpFrame(170)
	res := e.ProcessFrame(f, "push_ups", "s1")
	res.Landmarks[LeftWrist] = lm(0, 0)
	if f[LeftWrist] == lm(0, 0) {
		t.Error("result landmarks alias the input frame")
	}
}
