// Package blend combines two normalized scalar fields under a selectable
// operator and a scalar mix weight.
package blend

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/fieldforge/internal/field"
)

// Mode identifies a blend operator.
type Mode string

const (
	ModeMix      Mode = "Mix"
	ModeAdd      Mode = "Add"
	ModeMultiply Mode = "Multiply"
	ModeScreen   Mode = "Screen"
	ModeOverlay  Mode = "Overlay"
	ModeMin      Mode = "Min"
	ModeMax      Mode = "Max"
)

// UnsupportedModeError reports an unknown blend mode tag.
type UnsupportedModeError struct {
	Mode Mode
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported blend mode %q", string(e.Mode))
}

// opFunc computes the blended value for one pixel pair under weight w.
type opFunc func(a, b, w float64) float64

var ops = map[Mode]opFunc{
	ModeMix: func(a, b, w float64) float64 { return a*(1-w) + b*w },
	ModeAdd: func(a, b, w float64) float64 { return field.Clamp01(a + b*w) },
	ModeMultiply: func(a, b, w float64) float64 {
		return a * (b*w + (1 - w))
	},
	ModeScreen: func(a, b, w float64) float64 {
		return 1 - (1-a)*(1-b*w)
	},
	ModeOverlay: func(a, b, w float64) float64 {
		var r float64
		if a < 0.5 {
			r = 2 * a * b
		} else {
			r = 1 - 2*(1-a)*(1-b)
		}
		return a*(1-w) + r*w
	},
	ModeMin: func(a, b, w float64) float64 { return math.Min(a, b*w+a*(1-w)) },
	ModeMax: func(a, b, w float64) float64 { return math.Max(a, b*w+a*(1-w)) },
}

// ParseMode validates a blend mode tag.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := ops[m]; !ok {
		return "", &UnsupportedModeError{Mode: m}
	}
	return m, nil
}

// Blend combines two fields of identical shape. The weight is clamped to
// [0,1]. The inputs are not modified.
func Blend(a, b *field.Scalar, weight float64, mode Mode) (*field.Scalar, error) {
	if a.W != b.W || a.H != b.H {
		return nil, fmt.Errorf("field shapes differ: %dx%d vs %dx%d", a.W, a.H, b.W, b.H)
	}
	op, ok := ops[mode]
	if !ok {
		return nil, &UnsupportedModeError{Mode: mode}
	}

	weight = field.Clamp01(weight)
	out := field.NewScalar(a.W, a.H)
	for i := range a.Data {
		out.Data[i] = op(a.Data[i], b.Data[i], weight)
	}
	return out, nil
}
