package renderer

import "math"

// Interpolate maps x from [x0, x1] onto [y0, y1] linearly, clamping on both sides.
// x0 must not exceed x1; a zero-width input range behaves as a step at x0.
func Interpolate(x, x0, x1, y0, y1 float64) float64 {
	if x <= x0 {
		return y0
	}
	if x >= x1 {
		return y1
	}
	t := (x - x0) / (x1 - x0)
	return lerp(y0, y1, t)
}

// RoundHalfUp rounds like a browser's Math.round for the non-negative values used
// in layout (pixel sizes, shadow radii).
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
