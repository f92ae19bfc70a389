package analysis

import "strings"

// Angle names reported in Result.AngleData for downstream renderers.
const (
	AngleLeftElbow  = "left_elbow"
	AngleRightElbow = "right_elbow"
	AngleLeftKnee   = "left_knee"
	AngleRightKnee  = "right_knee"
	AngleBodyLine   = "body_line"
	AngleTorso      = "torso"
)

// PrimaryFunc extracts the scalar primary angle driving phase transitions
// for one exercise. It returns ok=false when a required landmark is occluded
// this frame; the phase machine is then skipped without disturbing state.
type PrimaryFunc func(f Frame) (angle float64, ok bool)

// AnglesFunc computes the named angle report for a frame. Angles whose
// landmarks are occluded are simply omitted from the map.
type AnglesFunc func(f Frame) map[string]float64

// Analyzer binds one phase-machine configuration and one form ruleset to an
// exercise. Adding an exercise means registering data here, not adding
// branches anywhere else.
type Analyzer struct {
	Name    string
	Phases  PhaseConfig
	Primary PrimaryFunc
	Angles  AnglesFunc
	Rules   []FormRule

	// Isometric marks hold-based exercises: no repetition cycle, phase moves
	// to "hold" on the first usable frame and rep count stays zero.
	Isometric bool
}

// Default phase configurations. The extend/contract values follow the
// later ("improved") threshold revision; all of them can be overridden per
// deployment through SetPhases.
var (
	defaultPushUpPhases = PhaseConfig{
		ExtendThreshold:   160,
		ContractThreshold: 90,
		HysteresisBand:    15,
		MinStableFrames:   3,
		MinInterRepFrames: 5,
	}
	defaultSquatPhases = PhaseConfig{
		ExtendThreshold:   160,
		ContractThreshold: 90,
		HysteresisBand:    15,
		MinStableFrames:   3,
		MinInterRepFrames: 5,
	}
	defaultCurlPhases = PhaseConfig{
		ExtendThreshold:   160,
		ContractThreshold: 50,
		HysteresisBand:    15,
		MinStableFrames:   2,
		MinInterRepFrames: 4,
	}
	defaultLungePhases = PhaseConfig{
		ExtendThreshold:   160,
		ContractThreshold: 100,
		HysteresisBand:    15,
		MinStableFrames:   3,
		MinInterRepFrames: 5,
	}
)

// Registry maps lowercase exercise names to analyzers. Unknown names fall
// through to a generic advisory analyzer instead of erroring.
type Registry struct {
	analyzers map[string]*Analyzer
}

// NewRegistry returns a registry with the built-in exercises registered.
func NewRegistry() *Registry {
	r := &Registry{analyzers: make(map[string]*Analyzer)}

	r.Register(&Analyzer{
		Name:    "push_ups",
		Phases:  defaultPushUpPhases,
		Primary: avgElbowAngle,
		Angles:  upperBodyAngles,
		Rules: []FormRule{
			ruleElbowFlare,
			ruleBodyAlignment,
			rulePushUpDepth,
			ruleHandsUnderShoulders,
		},
	})

	r.Register(&Analyzer{
		Name:    "squats",
		Phases:  defaultSquatPhases,
		Primary: avgKneeAngle,
		Angles:  lowerBodyAngles,
		Rules: []FormRule{
			ruleKneeOverAnkle,
			ruleSquatDepth,
			ruleTorsoUpright,
			ruleFeetLevel,
		},
	})

	r.Register(&Analyzer{
		Name:    "bicep_curls",
		Phases:  defaultCurlPhases,
		Primary: bestElbowAngle,
		Angles:  upperBodyAngles,
		Rules: []FormRule{
			ruleElbowDrift,
			ruleElbowDrop,
			ruleCurlROM,
			ruleTempo,
		},
	})

	r.Register(&Analyzer{
		Name:    "lunges",
		Phases:  defaultLungePhases,
		Primary: avgKneeAngle,
		Angles:  lowerBodyAngles,
		Rules: []FormRule{
			ruleKneeOverAnkle,
			ruleLungeDepth,
			ruleHipsLevel,
		},
	})

	r.Register(&Analyzer{
		Name:      "planks",
		Primary:   bodyLineAngle,
		Angles:    upperBodyAngles,
		Isometric: true,
		Rules: []FormRule{
			ruleBodyAlignment,
			ruleHipSag,
		},
	})

	return r
}

// Register adds or replaces an analyzer. Lookup is case-insensitive.
func (r *Registry) Register(a *Analyzer) {
	r.analyzers[strings.ToLower(a.Name)] = a
}

// Lookup returns the analyzer for an exercise name, or nil when the name is
// not registered and the generic fallback should be used.
func (r *Registry) Lookup(exercise string) *Analyzer {
	return r.analyzers[strings.ToLower(exercise)]
}

// Names returns the registered exercise names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	return names
}

// SetPhases overrides the phase configuration of a registered exercise.
// Used by the config layer; unknown names are ignored.
func (r *Registry) SetPhases(exercise string, cfg PhaseConfig) {
	if a := r.Lookup(exercise); a != nil {
		a.Phases = cfg
	}
}

// --- primary angle extractors ---

// avgElbowAngle averages both elbow angles (shoulder–elbow–wrist).
func avgElbowAngle(f Frame) (float64, bool) {
	if !f.Visible(LeftShoulder, LeftElbow, LeftWrist, RightShoulder, RightElbow, RightWrist) {
		return 0, false
	}
	left := Angle(f[LeftShoulder], f[LeftElbow], f[LeftWrist])
	right := Angle(f[RightShoulder], f[RightElbow], f[RightWrist])
	return (left + right) / 2, true
}

// bestElbowAngle picks the single elbow with the higher visibility, for
// single-arm movements where one side often leaves the frame.
func bestElbowAngle(f Frame) (float64, bool) {
	rightOK := f.Visible(RightShoulder, RightElbow, RightWrist)
	leftOK := f.Visible(LeftShoulder, LeftElbow, LeftWrist)
	switch {
	case rightOK && leftOK:
		if f[RightElbow].Visibility >= f[LeftElbow].Visibility {
			return Angle(f[RightShoulder], f[RightElbow], f[RightWrist]), true
		}
		return Angle(f[LeftShoulder], f[LeftElbow], f[LeftWrist]), true
	case rightOK:
		return Angle(f[RightShoulder], f[RightElbow], f[RightWrist]), true
	case leftOK:
		return Angle(f[LeftShoulder], f[LeftElbow], f[LeftWrist]), true
	}
	return 0, false
}

// avgKneeAngle averages both knee angles (hip–knee–ankle).
func avgKneeAngle(f Frame) (float64, bool) {
	if !f.Visible(LeftHip, LeftKnee, LeftAnkle, RightHip, RightKnee, RightAnkle) {
		return 0, false
	}
	left := Angle(f[LeftHip], f[LeftKnee], f[LeftAnkle])
	right := Angle(f[RightHip], f[RightKnee], f[RightAnkle])
	return (left + right) / 2, true
}

// bodyLineAngle measures the shoulder–hip–ankle line for isometric holds.
func bodyLineAngle(f Frame) (float64, bool) {
	if !f.Visible(LeftShoulder, RightShoulder, LeftHip, RightHip, LeftAnkle, RightAnkle) {
		return 0, false
	}
	return Angle(
		midpoint(f[LeftShoulder], f[RightShoulder]),
		midpoint(f[LeftHip], f[RightHip]),
		midpoint(f[LeftAnkle], f[RightAnkle]),
	), true
}

// --- angle reports ---

func upperBodyAngles(f Frame) map[string]float64 {
	angles := make(map[string]float64)
	if f.Visible(LeftShoulder, LeftElbow, LeftWrist) {
		angles[AngleLeftElbow] = Angle(f[LeftShoulder], f[LeftElbow], f[LeftWrist])
	}
	if f.Visible(RightShoulder, RightElbow, RightWrist) {
		angles[AngleRightElbow] = Angle(f[RightShoulder], f[RightElbow], f[RightWrist])
	}
	if f.Visible(LeftShoulder, RightShoulder, LeftHip, RightHip, LeftAnkle, RightAnkle) {
		angles[AngleBodyLine] = Angle(
			midpoint(f[LeftShoulder], f[RightShoulder]),
			midpoint(f[LeftHip], f[RightHip]),
			midpoint(f[LeftAnkle], f[RightAnkle]),
		)
	}
	return angles
}

func lowerBodyAngles(f Frame) map[string]float64 {
	angles := make(map[string]float64)
	if f.Visible(LeftHip, LeftKnee, LeftAnkle) {
		angles[AngleLeftKnee] = Angle(f[LeftHip], f[LeftKnee], f[LeftAnkle])
	}
	if f.Visible(RightHip, RightKnee, RightAnkle) {
		angles[AngleRightKnee] = Angle(f[RightHip], f[RightKnee], f[RightAnkle])
	}
	if f.Visible(LeftShoulder, RightShoulder, LeftHip, RightHip, LeftKnee, RightKnee) {
		angles[AngleTorso] = Angle(
			midpoint(f[LeftShoulder], f[RightShoulder]),
			midpoint(f[LeftHip], f[RightHip]),
			midpoint(f[LeftKnee], f[RightKnee]),
		)
	}
	return angles
}
