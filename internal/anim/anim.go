// Package anim evaluates per-parameter animation channels over a frame
// sequence. Each channel interpolates between a start and end value under
// a traversal style and an easing curve.
package anim

import (
	"fmt"
	"math/rand"

	"github.com/tanema/gween/ease"
)

// Style selects how progress traverses the [start,end] range.
type Style string

const (
	StyleLinear   Style = "Linear"
	StylePingPong Style = "PingPong"
	StyleRandom   Style = "Random"
)

// Curve selects the easing applied to progress.
type Curve string

const (
	CurveLinear    Curve = "Linear"
	CurveEaseIn    Curve = "EaseIn"
	CurveEaseOut   Curve = "EaseOut"
	CurveEaseInOut Curve = "EaseInOut"
	CurveStepped   Curve = "Stepped"
)

// Spec describes one animation channel.
type Spec struct {
	Enabled bool
	Start   float64
	End     float64
	Style   Style
	Curve   Curve
}

// ParseStyle validates a style tag.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleLinear, StylePingPong, StyleRandom:
		return Style(s), nil
	}
	return "", fmt.Errorf("unknown animation style %q", s)
}

// ParseCurve validates a curve tag.
func ParseCurve(s string) (Curve, error) {
	switch Curve(s) {
	case CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut, CurveStepped:
		return Curve(s), nil
	}
	return "", fmt.Errorf("unknown animation curve %q", s)
}

var curves = map[Curve]ease.TweenFunc{
	CurveLinear:    ease.Linear,
	CurveEaseIn:    ease.InQuad,
	CurveEaseOut:   ease.OutQuad,
	CurveEaseInOut: ease.InOutQuad,
}

// ValueAt returns the channel value for a frame. A disabled channel keeps
// the current static value. Frame indexing is zero-based over frameCount
// frames; a single frame pins progress to the start.
func ValueAt(s Spec, current float64, frame, frameCount int) float64 {
	if !s.Enabled {
		return current
	}

	// Random is seeded per frame so re-rendering a frame is stable.
	if s.Style == StyleRandom {
		rng := rand.New(rand.NewSource(int64(frame)))
		return s.Start + rng.Float64()*(s.End-s.Start)
	}

	progress := 0.0
	if frameCount > 1 {
		progress = float64(frame) / float64(frameCount-1)
	}

	if s.Style == StylePingPong {
		if progress <= 0.5 {
			progress *= 2
		} else {
			progress = 2 - progress*2
		}
	}

	progress = applyCurve(progress, s.Curve)
	return s.Start + (s.End-s.Start)*progress
}

func applyCurve(t float64, c Curve) float64 {
	if c == CurveStepped {
		if t < 0.5 {
			return 0
		}
		return 1
	}
	fn, ok := curves[c]
	if !ok {
		fn = ease.Linear
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// RateOffset advances a sampling offset by a fixed amount per frame.
func RateOffset(base, rate float64, frame int) float64 {
	return base + rate*float64(frame)
}

// ColorAt interpolates linearly between two RGB triples over the sequence.
func ColorAt(start, end [3]uint8, frame, frameCount int) [3]uint8 {
	t := 0.0
	if frameCount > 1 {
		t = float64(frame) / float64(frameCount-1)
	}
	var out [3]uint8
	for i := 0; i < 3; i++ {
		out[i] = uint8(float64(start[i]) + (float64(end[i])-float64(start[i]))*t)
	}
	return out
}
