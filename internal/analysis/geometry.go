package analysis

import "math"

// Angle returns the angle in degrees at vertex b formed by the rays b→a and
// b→c, computed in the 2-D image plane. The cosine is clamped to [-1, 1]
// before the inverse cosine so floating-point drift never produces a domain
// error. Degenerate input (a or c coinciding with b) returns 0; callers
// decide how to treat the sentinel.
func Angle(a, b, c Landmark) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	normBA := math.Hypot(bax, bay)
	normBC := math.Hypot(bcx, bcy)
	if normBA == 0 || normBC == 0 {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (normBA * normBC)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// Distance returns the Euclidean distance between two landmarks in the 2-D
// image plane.
func Distance(a, b Landmark) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// midpointY averages the vertical position of two landmarks.
func midpointY(a, b Landmark) float64 {
	return (a.Y + b.Y) / 2
}
