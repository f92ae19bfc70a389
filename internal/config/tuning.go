package config

import "github.com/claude/repcoach/internal/analysis"

// Apply writes the per-exercise tuning overrides into an analysis registry.
// Zero-valued fields keep the registry's built-in defaults; unknown exercise
// names are ignored.
func (a AnalysisConfig) Apply(r *analysis.Registry) {
	for name, t := range a.Exercises {
		current := r.Lookup(name)
		if current == nil {
			continue
		}
		p := current.Phases
		if t.ExtendThreshold != 0 {
			p.ExtendThreshold = t.ExtendThreshold
		}
		if t.ContractThreshold != 0 {
			p.ContractThreshold = t.ContractThreshold
		}
		if t.HysteresisBand != 0 {
			p.HysteresisBand = t.HysteresisBand
		}
		if t.MinStableFrames != 0 {
			p.MinStableFrames = t.MinStableFrames
		}
		if t.MinInterRepFrames != 0 {
			p.MinInterRepFrames = t.MinInterRepFrames
		}
		r.SetPhases(name, p)
	}
}
