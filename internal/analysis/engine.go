package analysis

import "log/slog"

// Result is the immutable per-frame analysis output. It is returned by value
// so downstream consumers (renderer, persistence) cannot mutate engine state.
type Result struct {
	Exercise      string             `json:"exercise"`
	RepCount      int                `json:"rep_count"`
	Phase         string             `json:"phase"`
	RepCounted    bool               `json:"rep_counted"`
	AccuracyScore float64            `json:"accuracy_score"`
	FormFeedback  []string           `json:"form_feedback"`
	AngleData     map[string]float64 `json:"angle_data,omitempty"`
	Landmarks     Frame              `json:"landmarks"`
	FrameIndex    int                `json:"frame_index"`
}

// unknownExerciseAdvice is the single feedback string the fallback analyzer
// returns for exercises with no registered ruleset.
const unknownExerciseAdvice = "Automatic form analysis is not available for this exercise"

// Engine is the single entry point of the analysis core. It drives the
// store → analyzer → result pipeline for each frame. Construct one per
// deployment and inject it where needed; it holds no global state.
type Engine struct {
	store    *SessionStore
	registry *Registry
	log      *slog.Logger
}

// NewEngine creates an engine around an existing store and registry.
func NewEngine(store *SessionStore, registry *Registry, log *slog.Logger) *Engine {
	return &Engine{store: store, registry: registry, log: log}
}

// ProcessFrame analyzes one landmark frame for a session and returns the
// frame's result, or nil when the frame contains no landmarks at all
// (no detection — no state is mutated in that case).
//
// Frames for one session must arrive in order; the phase machine is
// order-dependent. ProcessFrame never returns an error: occluded landmarks
// skip the computations that need them, degenerate geometry yields
// sentinels, and unknown exercises route to the generic fallback.
func (e *Engine) ProcessFrame(frame Frame, exercise, sessionID string) *Result {
	if len(frame) == 0 {
		return nil
	}

	st := e.store.GetOrCreate(sessionID, exercise)
	analyzer := e.registry.Lookup(exercise)

	st.FrameIndex++

	if analyzer == nil {
		return &Result{
			Exercise:      exercise,
			RepCount:      st.RepCount,
			Phase:         string(st.Phase),
			AccuracyScore: 0.5,
			FormFeedback:  []string{unknownExerciseAdvice},
			Landmarks:     frame.Clone(),
			FrameIndex:    st.FrameIndex,
		}
	}

	primary, primaryOK := analyzer.Primary(frame)

	repCounted := false
	if primaryOK {
		if analyzer.Isometric {
			st.Phase = PhaseHold
		} else {
			repCounted = analyzer.Phases.Advance(st, primary)
		}
	}

	rc := &RuleContext{
		Frame:     frame,
		State:     st,
		Angles:    analyzer.Angles(frame),
		Primary:   primary,
		PrimaryOK: primaryOK,
	}
	score, feedback := evaluateForm(analyzer.Rules, rc)

	// Record the primary angle after rule evaluation so the tempo rule sees
	// the previous frame's value.
	if primaryOK {
		st.LastPrimaryAngle = primary
		st.HasLastAngle = true
	}

	if repCounted {
		e.log.Debug("rep counted",
			"session", sessionID,
			"exercise", analyzer.Name,
			"rep", st.RepCount,
			"frame", st.FrameIndex,
		)
	}

	return &Result{
		Exercise:      analyzer.Name,
		RepCount:      st.RepCount,
		Phase:         string(st.Phase),
		RepCounted:    repCounted,
		AccuracyScore: score,
		FormFeedback:  feedback,
		AngleData:     rc.Angles,
		Landmarks:     frame.Clone(),
		FrameIndex:    st.FrameIndex,
	}
}

// ResetSession discards all state for a session. Idempotent; unknown ids
// are a no-op.
func (e *Engine) ResetSession(sessionID string) {
	e.store.Reset(sessionID)
}

// SessionStats returns the current rep count and phase for a session, or
// the zero default for unknown ids.
func (e *Engine) SessionStats(sessionID string) Stats {
	return e.store.Stats(sessionID)
}

// ActiveSessions lists the ids of sessions currently holding state.
func (e *Engine) ActiveSessions() []string {
	return e.store.ActiveSessions()
}
