// Package analysis turns per-frame body landmark streams into repetition
// counts and form-quality feedback. It is the core of RepCoach: pure
// geometry, a parameterized phase-detection state machine, per-exercise
// form rules and the per-session state lifecycle that ties them together.
// The package has no transport or persistence dependencies.
package analysis

// Pose landmark names following the MediaPipe convention. A frame carries a
// subset of these; absent or low-visibility landmarks are tolerated.
const (
	Nose          = "nose"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// minVisibility is the floor below which a landmark is treated as occluded.
// Matches the detection confidence the pose model runs with.
const minVisibility = 0.5

// Landmark is a normalized body-joint position with a visibility score.
// Coordinates are in the pose model's normalized image space: x and y in
// [0,1] relative to frame width/height, z roughly centered on the hips.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Frame is one snapshot of named landmark positions for a single time step.
type Frame map[string]Landmark

// Visible reports whether all named landmarks are present in the frame with
// visibility at or above the occlusion floor.
func (f Frame) Visible(names ...string) bool {
	for _, name := range names {
		lm, ok := f[name]
		if !ok || lm.Visibility < minVisibility {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of the frame so results handed to callers
// cannot alias engine-held state.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	for name, lm := range f {
		out[name] = lm
	}
	return out
}
