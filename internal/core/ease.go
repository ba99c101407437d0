package core

import "math"

// EaseOutCubic decelerates towards t=1.
func EaseOutCubic(t float64) float64 {
	t = ClampF(t, 0, 1)
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic accelerates until t=0.5 and decelerates afterwards.
func EaseInOutCubic(t float64) float64 {
	t = ClampF(t, 0, 1)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseInOutQuad is the smoothstep-like curve used for lane changes.
func EaseInOutQuad(t float64) float64 {
	t = ClampF(t, 0, 1)
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}
