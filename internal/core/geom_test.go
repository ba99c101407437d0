package core

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestEasingEndpoints(t *testing.T) {
	curves := map[string]func(float64) float64{
		"EaseOutCubic":   EaseOutCubic,
		"EaseInOutCubic": EaseInOutCubic,
		"EaseInOutQuad":  EaseInOutQuad,
	}

	for name, fn := range curves {
		if got := fn(0); got != 0 {
			t.Errorf("%s(0) = %f, expected 0", name, got)
		}
		if got := fn(1); math.Abs(got-1) > 1e-12 {
			t.Errorf("%s(1) = %f, expected 1", name, got)
		}
		if got := fn(0.5); math.Abs(got-0.5) > 0.5 {
			t.Errorf("%s(0.5) = %f, out of range", name, got)
		}
		// Inputs outside [0, 1] are clamped.
		if got := fn(2); math.Abs(got-1) > 1e-12 {
			t.Errorf("%s(2) = %f, expected 1", name, got)
		}
	}

	// Symmetric curves pass through the midpoint.
	if got := EaseInOutCubic(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("EaseInOutCubic(0.5) = %f, expected 0.5", got)
	}
	if got := EaseInOutQuad(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("EaseInOutQuad(0.5) = %f, expected 0.5", got)
	}
}

func TestSimClock(t *testing.T) {
	c := NewSimClock()
	if c.Now() != 0 {
		t.Fatalf("Now() = %v, expected 0", c.Now())
	}
	c.Advance(16)
	c.Advance(-5)
	if c.Now() != 16 {
		t.Errorf("Now() = %v, expected 16 (negative advance ignored)", c.Now())
	}
	c.Set(100)
	if c.Now() != 100 {
		t.Errorf("Now() = %v, expected 100", c.Now())
	}
}
