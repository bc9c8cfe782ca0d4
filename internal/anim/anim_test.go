package anim

import (
	"math"
	"testing"
)

func linSpec(start, end float64) Spec {
	return Spec{Enabled: true, Start: start, End: end, Style: StyleLinear, Curve: CurveLinear}
}

func TestValueAtDisabledKeepsCurrent(t *testing.T) {
	s := Spec{Enabled: false, Start: 0, End: 10}
	if got := ValueAt(s, 3.5, 4, 10); got != 3.5 {
		t.Errorf("got %v, want 3.5", got)
	}
}

func TestValueAtEndpoints(t *testing.T) {
	s := linSpec(2, 8)
	if got := ValueAt(s, 0, 0, 10); got != 2 {
		t.Errorf("first frame = %v, want 2", got)
	}
	if got := ValueAt(s, 0, 9, 10); got != 8 {
		t.Errorf("last frame = %v, want 8", got)
	}
}

func TestValueAtSingleFrame(t *testing.T) {
	s := linSpec(2, 8)
	if got := ValueAt(s, 0, 0, 1); got != 2 {
		t.Errorf("single frame = %v, want start value 2", got)
	}
}

func TestValueAtLinearMidpoint(t *testing.T) {
	s := linSpec(0, 10)
	got := ValueAt(s, 0, 5, 11)
	if math.Abs(got-5) > 1e-6 {
		t.Errorf("midpoint = %v, want 5", got)
	}
}

func TestValueAtPingPong(t *testing.T) {
	s := linSpec(0, 10)
	s.Style = StylePingPong

	// Midpoint of the sequence reaches the end value, the last frame is
	// back at the start.
	if got := ValueAt(s, 0, 5, 11); math.Abs(got-10) > 1e-6 {
		t.Errorf("mid frame = %v, want 10", got)
	}
	if got := ValueAt(s, 0, 10, 11); math.Abs(got-0) > 1e-6 {
		t.Errorf("last frame = %v, want 0", got)
	}
}

func TestValueAtRandomDeterministic(t *testing.T) {
	s := linSpec(0, 10)
	s.Style = StyleRandom

	a := ValueAt(s, 0, 3, 10)
	b := ValueAt(s, 0, 3, 10)
	if a != b {
		t.Errorf("same frame produced different values: %v vs %v", a, b)
	}
	if a < 0 || a > 10 {
		t.Errorf("value %v outside [start,end]", a)
	}

	c := ValueAt(s, 0, 4, 10)
	if a == c {
		t.Error("adjacent frames produced identical random values")
	}
}

func TestValueAtCurves(t *testing.T) {
	tests := []struct {
		curve Curve
		t     float64
		want  float64
	}{
		{CurveLinear, 0.5, 0.5},
		{CurveEaseIn, 0.5, 0.25},
		{CurveEaseOut, 0.5, 0.75},
		{CurveEaseInOut, 0.25, 0.125},
		{CurveEaseInOut, 0.75, 0.875},
		{CurveStepped, 0.49, 0},
		{CurveStepped, 0.5, 1},
	}

	for _, tt := range tests {
		got := applyCurve(tt.t, tt.curve)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("applyCurve(%v, %s) = %v, want %v", tt.t, tt.curve, got, tt.want)
		}
	}
}

func TestValueAtEaseInBiasesEarly(t *testing.T) {
	s := linSpec(0, 10)
	s.Curve = CurveEaseIn

	// Quadratic ease-in lags the linear ramp before the end.
	linear := ValueAt(linSpec(0, 10), 0, 3, 11)
	eased := ValueAt(s, 0, 3, 11)
	if eased >= linear {
		t.Errorf("ease-in %v not below linear %v", eased, linear)
	}
}

func TestRateOffset(t *testing.T) {
	if got := RateOffset(1.5, 0.05, 0); got != 1.5 {
		t.Errorf("frame 0 = %v, want base", got)
	}
	if got := RateOffset(1.5, 0.25, 4); got != 2.5 {
		t.Errorf("frame 4 = %v, want 2.5", got)
	}
	if got := RateOffset(0, 0, 9); got != 0 {
		t.Errorf("zero rate = %v, want 0", got)
	}
}

func TestColorAt(t *testing.T) {
	start := [3]uint8{0, 100, 200}
	end := [3]uint8{200, 100, 0}

	if got := ColorAt(start, end, 0, 10); got != start {
		t.Errorf("first frame = %v, want %v", got, start)
	}
	if got := ColorAt(start, end, 9, 10); got != end {
		t.Errorf("last frame = %v, want %v", got, end)
	}

	mid := ColorAt(start, end, 5, 11)
	if mid[0] != 100 || mid[1] != 100 || mid[2] != 100 {
		t.Errorf("midpoint = %v, want {100 100 100}", mid)
	}
}

func TestParseStyleAndCurve(t *testing.T) {
	if _, err := ParseStyle("PingPong"); err != nil {
		t.Errorf("ParseStyle: %v", err)
	}
	if _, err := ParseStyle("Bounce"); err == nil {
		t.Error("ParseStyle(Bounce) should fail")
	}
	if _, err := ParseCurve("EaseInOut"); err != nil {
		t.Errorf("ParseCurve: %v", err)
	}
	if _, err := ParseCurve("Elastic"); err == nil {
		t.Error("ParseCurve(Elastic) should fail")
	}
}
