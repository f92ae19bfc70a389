package analysis

import "math"

// Form rule tuning. Values are calibration parameters, not contract: they
// were hand-tuned against recorded sessions and can be revisited without
// touching the rule structure.
const (
	elbowFlareRatio    = 1.4  // elbow span / shoulder span
	alignmentMinAngle  = 150.0 // shoulder–hip–ankle, degrees
	depthFailAngle     = 100.0 // primary angle at contraction, not deep enough
	depthBonusAngle    = 60.0  // primary angle at contraction, full depth
	handOffsetMax      = 0.12  // wrist-to-shoulder offset, fraction of frame
	kneeOverAnkleMax   = 0.05  // per-leg horizontal offset, fraction of frame
	torsoMinAngle      = 120.0 // shoulder–hip–knee, degrees
	footLevelMax       = 0.05  // ankle height divergence, fraction of frame
	elbowDriftMax      = 0.1   // elbow-to-shoulder lateral offset
	curlROMAngle       = 60.0  // primary angle at full contraction
	tempoMaxDelta      = 35.0  // degrees per frame
	hipLevelMax        = 0.1   // hip height divergence, fraction of frame
	hipSagOffset       = 0.08  // hip deviation from the shoulder–ankle line

	// maxFeedback caps the feedback list handed back per frame.
	maxFeedback = 10
)

// RuleContext carries everything a form rule may inspect for one frame.
type RuleContext struct {
	Frame  Frame
	State  *SessionState
	Angles map[string]float64

	// Primary is the frame's primary angle; PrimaryOK is false when the
	// landmarks it needs were occluded this frame.
	Primary   float64
	PrimaryOK bool
}

// FormRule is one independent geometric check. It returns an additive score
// delta (negative penalty or small bonus) and an optional feedback string.
// Rules whose required landmarks are occluded must return (0, "") so frames
// are never penalized for occlusion artifacts.
type FormRule func(rc *RuleContext) (delta float64, feedback string)

// evaluateForm runs an ordered rule list and combines the results into an
// accuracy score in [0,1] and a deduplicated, order-preserving feedback list
// capped at maxFeedback.
func evaluateForm(rules []FormRule, rc *RuleContext) (float64, []string) {
	score := 1.0
	var feedback []string
	seen := make(map[string]bool)

	for _, rule := range rules {
		delta, msg := rule(rc)
		score += delta
		if msg != "" && !seen[msg] && len(feedback) < maxFeedback {
			seen[msg] = true
			feedback = append(feedback, msg)
		}
	}

	return math.Max(0, math.Min(1, score)), feedback
}

// --- push-up rules ---

// ruleElbowFlare penalizes elbows tracking wider than the shoulders.
func ruleElbowFlare(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftShoulder, RightShoulder, LeftElbow, RightElbow) {
		return 0, ""
	}
	shoulderSpan := Distance(rc.Frame[LeftShoulder], rc.Frame[RightShoulder])
	if shoulderSpan == 0 {
		return 0, ""
	}
	elbowSpan := Distance(rc.Frame[LeftElbow], rc.Frame[RightElbow])
	if elbowSpan > shoulderSpan*elbowFlareRatio {
		return -0.2, "Keep elbows closer to your body"
	}
	return 0, ""
}

// ruleBodyAlignment penalizes a sagging or piked body line
// (shoulder–hip–ankle angle collapsing below a straight-line band).
func ruleBodyAlignment(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftShoulder, RightShoulder, LeftHip, RightHip, LeftAnkle, RightAnkle) {
		return 0, ""
	}
	angle := Angle(
		midpoint(rc.Frame[LeftShoulder], rc.Frame[RightShoulder]),
		midpoint(rc.Frame[LeftHip], rc.Frame[RightHip]),
		midpoint(rc.Frame[LeftAnkle], rc.Frame[RightAnkle]),
	)
	if angle < alignmentMinAngle {
		return -0.1, "Keep your body in a straight line"
	}
	return 0, ""
}

// rulePushUpDepth checks chest depth at the bottom of the rep. Shallow reps
// are penalized; full depth earns a small bonus.
func rulePushUpDepth(rc *RuleContext) (float64, string) {
	if rc.State.Phase != PhaseContracted || !rc.PrimaryOK {
		return 0, ""
	}
	if rc.Primary > depthFailAngle {
		return -0.1, "Go deeper - lower your chest more"
	}
	if rc.Primary < depthBonusAngle {
		return 0.05, "Great depth - keep it up"
	}
	return 0, ""
}

// ruleHandsUnderShoulders penalizes hands planted far from the shoulder line.
func ruleHandsUnderShoulders(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftShoulder, RightShoulder, LeftWrist, RightWrist) {
		return 0, ""
	}
	left := math.Abs(rc.Frame[LeftWrist].X - rc.Frame[LeftShoulder].X)
	right := math.Abs(rc.Frame[RightWrist].X - rc.Frame[RightShoulder].X)
	if (left+right)/2 > handOffsetMax {
		return -0.1, "Place your hands under your shoulders"
	}
	return 0, ""
}

// --- squat rules ---

// ruleKneeOverAnkle penalizes knees caving past the toes on either leg.
func ruleKneeOverAnkle(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftKnee, RightKnee, LeftAnkle, RightAnkle) {
		return 0, ""
	}
	left := math.Abs(rc.Frame[LeftKnee].X - rc.Frame[LeftAnkle].X)
	right := math.Abs(rc.Frame[RightKnee].X - rc.Frame[RightAnkle].X)
	if left > kneeOverAnkleMax || right > kneeOverAnkleMax {
		return -0.2, "Keep knees aligned over your toes"
	}
	return 0, ""
}

// ruleSquatDepth checks depth at the bottom of the squat via the knee angle.
func ruleSquatDepth(rc *RuleContext) (float64, string) {
	if rc.State.Phase != PhaseContracted || !rc.PrimaryOK {
		return 0, ""
	}
	if rc.Primary > depthFailAngle {
		return -0.1, "Go deeper - squat until thighs are parallel to the ground"
	}
	if rc.Primary < depthBonusAngle+10 {
		return 0.05, "Excellent squat depth"
	}
	return 0, ""
}

// ruleTorsoUpright penalizes a collapsed chest (shoulder–hip–knee angle).
func ruleTorsoUpright(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftShoulder, RightShoulder, LeftHip, RightHip, LeftKnee, RightKnee) {
		return 0, ""
	}
	angle := Angle(
		midpoint(rc.Frame[LeftShoulder], rc.Frame[RightShoulder]),
		midpoint(rc.Frame[LeftHip], rc.Frame[RightHip]),
		midpoint(rc.Frame[LeftKnee], rc.Frame[RightKnee]),
	)
	if angle < torsoMinAngle {
		return -0.1, "Keep your chest up and back straight"
	}
	return 0, ""
}

// ruleFeetLevel penalizes one heel lifting off the ground.
func ruleFeetLevel(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftAnkle, RightAnkle) {
		return 0, ""
	}
	if math.Abs(rc.Frame[LeftAnkle].Y-rc.Frame[RightAnkle].Y) > footLevelMax {
		return -0.1, "Keep both feet planted evenly"
	}
	return 0, ""
}

// --- bicep curl rules ---

// ruleElbowDrift penalizes the working elbow drifting away from the torso.
func ruleElbowDrift(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(RightShoulder, RightElbow) {
		return 0, ""
	}
	if math.Abs(rc.Frame[RightElbow].X-rc.Frame[RightShoulder].X) > elbowDriftMax {
		return -0.2, "Keep your elbow stable at your side"
	}
	return 0, ""
}

// ruleElbowDrop penalizes the elbow rising above the shoulder, which turns a
// curl into a swing.
func ruleElbowDrop(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(RightShoulder, RightElbow) {
		return 0, ""
	}
	// Image y grows downward; an elbow above the shoulder means swinging.
	if rc.Frame[RightElbow].Y < rc.Frame[RightShoulder].Y {
		return -0.1, "Keep your upper arm still - don't swing the weight"
	}
	return 0, ""
}

// ruleCurlROM checks full range of motion at the top of the curl.
func ruleCurlROM(rc *RuleContext) (float64, string) {
	if rc.State.Phase != PhaseContracted || !rc.PrimaryOK {
		return 0, ""
	}
	if rc.Primary > curlROMAngle {
		return -0.1, "Curl higher for full range of motion"
	}
	return 0, ""
}

// ruleTempo penalizes abrupt angle jumps between consecutive frames.
func ruleTempo(rc *RuleContext) (float64, string) {
	if !rc.PrimaryOK || !rc.State.HasLastAngle {
		return 0, ""
	}
	if math.Abs(rc.Primary-rc.State.LastPrimaryAngle) > tempoMaxDelta {
		return -0.1, "Slow down - control the movement"
	}
	return 0, ""
}

// --- lunge rules ---

// ruleHipsLevel penalizes tilting hips during the lunge descent.
func ruleHipsLevel(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftHip, RightHip) {
		return 0, ""
	}
	if math.Abs(rc.Frame[LeftHip].Y-rc.Frame[RightHip].Y) > hipLevelMax {
		return -0.1, "Keep your hips level"
	}
	return 0, ""
}

// ruleLungeDepth checks the front knee reaching roughly 90 degrees.
func ruleLungeDepth(rc *RuleContext) (float64, string) {
	if rc.State.Phase != PhaseContracted || !rc.PrimaryOK {
		return 0, ""
	}
	if rc.Primary > depthFailAngle {
		return -0.1, "Lower your hips until both knees reach 90 degrees"
	}
	return 0, ""
}

// --- plank rules ---

// ruleHipSag penalizes hips dropping below or piking above the
// shoulder–ankle line during a plank hold.
func ruleHipSag(rc *RuleContext) (float64, string) {
	if !rc.Frame.Visible(LeftShoulder, RightShoulder, LeftHip, RightHip, LeftAnkle, RightAnkle) {
		return 0, ""
	}
	shoulderY := midpointY(rc.Frame[LeftShoulder], rc.Frame[RightShoulder])
	hipY := midpointY(rc.Frame[LeftHip], rc.Frame[RightHip])
	ankleY := midpointY(rc.Frame[LeftAnkle], rc.Frame[RightAnkle])

	lineY := (shoulderY + ankleY) / 2
	if hipY > lineY+hipSagOffset {
		return -0.2, "Don't let your hips sag"
	}
	if hipY < lineY-hipSagOffset {
		return -0.1, "Lower your hips - don't pike"
	}
	return 0, ""
}

func midpoint(a, b Landmark) Landmark {
	return Landmark{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: math.Min(a.Visibility, b.Visibility),
	}
}
