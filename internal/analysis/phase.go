package analysis

// PhaseConfig parameterizes the generic hysteresis/debounce phase machine.
// One machine serves every exercise; only the thresholds and the primary
// angle extraction differ.
type PhaseConfig struct {
	// ExtendThreshold is the primary angle above which the joint counts as
	// extended. Must exceed ContractThreshold.
	ExtendThreshold float64
	// ContractThreshold is the primary angle below which the joint counts as
	// contracted.
	ContractThreshold float64
	// HysteresisBand widens the contract threshold while debouncing, so a
	// small upward bounce inside the contracted phase does not restart the
	// stability count from scratch unless it leaves the band.
	HysteresisBand float64
	// MinStableFrames is how many consecutive frames must satisfy the
	// post-contraction condition before a rep may be confirmed.
	MinStableFrames int
	// MinInterRepFrames is the minimum frame-index gap between two counted
	// reps, suppressing double counts from signal bounce.
	MinInterRepFrames int
}

// Advance drives the phase machine one frame with the given primary angle
// and reports whether a repetition was counted on this frame.
//
// The cycle is ready → extended → contracted → extended → …; ready is left
// once and never re-entered. Debounce resets are local to the contracted
// phase: a transient bounce that does not clear ExtendThreshold resets only
// the stability counter, never the phase, so noisy signals cannot erase a
// contraction that already happened. When the angle clears ExtendThreshold
// the phase always moves to extended — the machine must not get stuck — but
// the rep is counted only if the contraction was held stable long enough and
// the inter-rep gap has passed.
func (c PhaseConfig) Advance(st *SessionState, angle float64) bool {
	switch st.Phase {
	case PhaseReady:
		if angle > c.ExtendThreshold {
			st.Phase = PhaseExtended
		}

	case PhaseExtended:
		if angle < c.ContractThreshold {
			st.Phase = PhaseContracted
			st.StableFrames = 0
		}

	case PhaseContracted:
		if angle > c.ExtendThreshold {
			counted := st.StableFrames >= c.MinStableFrames &&
				(st.LastRepFrame < 0 || st.FrameIndex-st.LastRepFrame > c.MinInterRepFrames)
			st.Phase = PhaseExtended
			if counted {
				st.RepCount++
				st.LastRepFrame = st.FrameIndex
			}
			return counted
		}
		if angle < c.ContractThreshold+c.HysteresisBand {
			st.StableFrames++
		} else {
			st.StableFrames = 0
		}
	}
	return false
}
