package runner

import "time"

// BoostMultiplier returns the forward speed multiplier for a boost that has
// been running for elapsed. The curve eases in cubically to peak at the
// midpoint and eases back out to 1.0 at duration.
func BoostMultiplier(elapsed, duration time.Duration, peak float64) float64 {
	if duration <= 0 || elapsed <= 0 || elapsed >= duration {
		return 1.0
	}

	t := float64(elapsed) / float64(duration)
	var k float64
	if t < 0.5 {
		a := t * 2
		k = a * a * a
	} else {
		r := 1 - (t-0.5)*2
		k = r * r * r
	}
	return 1.0 + (peak-1.0)*k
}
