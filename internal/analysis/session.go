package analysis

import "sync"

// Phase is the exercise's current position in its repetition cycle.
type Phase string

const (
	PhaseReady      Phase = "ready"
	PhaseExtended   Phase = "extended"
	PhaseContracted Phase = "contracted"
	// PhaseHold is used by isometric exercises that have no repetition cycle.
	PhaseHold Phase = "hold"
)

// SessionState is the mutable per-session analysis state. It is owned
// exclusively by a SessionStore; frames for one session must be applied in
// strict arrival order because the phase machine is order-dependent.
type SessionState struct {
	Exercise string
	RepCount int
	Phase    Phase

	// StableFrames counts consecutive contracted-phase frames satisfying the
	// debounce condition.
	StableFrames int
	// FrameIndex increments exactly once per processed frame.
	FrameIndex int
	// LastRepFrame is the frame index of the most recently counted rep,
	// used to enforce the minimum inter-rep gap.
	LastRepFrame int

	// LastPrimaryAngle holds the previous frame's primary angle for
	// movement-speed checks. HasLastAngle distinguishes "no angle yet".
	LastPrimaryAngle float64
	HasLastAngle     bool
}

// Stats is the externally visible summary of a session.
type Stats struct {
	RepCount int    `json:"rep_count"`
	Phase    string `json:"phase"`
}

// SessionStore owns one SessionState per active session id. The internal map
// is guarded so different sessions can be created, reset and queried
// concurrently; serializing frames *within* one session is the caller's
// contract. States live until an explicit Reset — idle expiry is a policy the
// caller enforces, since the store has no view of wall-clock liveness.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*SessionState)}
}

// GetOrCreate returns the state for a session id, creating it lazily on
// first use. The exercise name is fixed at creation; later calls with a
// different name keep the original binding.
func (s *SessionStore) GetOrCreate(sessionID, exercise string) *SessionState {
	s.mu.RLock()
	st, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		return st
	}
	st = &SessionState{
		Exercise:     exercise,
		Phase:        PhaseReady,
		LastRepFrame: -1,
	}
	s.sessions[sessionID] = st
	return st
}

// Reset removes a session's state entirely. Rep count and phase are lost; a
// later frame for the same id starts a fresh session. Unknown ids are a
// no-op.
func (s *SessionStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Stats returns the session summary, or the zero default
// {rep_count: 0, phase: "ready"} when the session does not exist.
func (s *SessionStore) Stats(sessionID string) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return Stats{RepCount: 0, Phase: string(PhaseReady)}
	}
	return Stats{RepCount: st.RepCount, Phase: string(st.Phase)}
}

// ActiveSessions returns the ids of all sessions currently holding state.
func (s *SessionStore) ActiveSessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
