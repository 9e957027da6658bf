// Package physics provides straight-line kinematics, convex hit-shapes and
// broad-phase lookup for the play-field.
package physics

import "math"

// Radians converts an angle in degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Advance moves (x, y) by distance along heading angleDeg.
// 0° points right, 90° points down (screen coordinates).
func Advance(x, y, angleDeg, distance float64) (float64, float64) {
	rad := Radians(angleDeg)
	return x + math.Cos(rad)*distance, y + math.Sin(rad)*distance
}

// WrapHeading keeps a heading within [0, 359].
// A step below zero lands on 359 and a step past 359 lands on 0.
func WrapHeading(angle float64) float64 {
	if angle < 0 {
		return 359
	}
	if angle > 359 {
		return 0
	}
	return angle
}

// Approach moves v toward target by at most up (when rising) or down (when falling).
// The result never overshoots target.
func Approach(v, target, up, down float64) float64 {
	switch {
	case v < target:
		return math.Min(v+up, target)
	case v > target:
		return math.Max(v-down, target)
	default:
		return v
	}
}
