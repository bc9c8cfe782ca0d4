package blend

import (
	"errors"
	"math"
	"testing"

	"github.com/MeKo-Tech/fieldforge/internal/field"
)

func uniform(w, h int, v float64) *field.Scalar {
	f := field.NewScalar(w, h)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

func TestBlendMixIdentity(t *testing.T) {
	a := uniform(4, 4, 0.2)
	b := uniform(4, 4, 0.8)

	// Weight 0 keeps layer A, weight 1 takes layer B.
	out, err := Blend(a, b, 0, ModeMix)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if out.At(0, 0) != 0.2 {
		t.Errorf("weight 0: got %v, want 0.2", out.At(0, 0))
	}

	out, err = Blend(a, b, 1, ModeMix)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if out.At(0, 0) != 0.8 {
		t.Errorf("weight 1: got %v, want 0.8", out.At(0, 0))
	}
}

func TestBlendOperators(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		a, b   float64
		weight float64
		want   float64
	}{
		{"mix midpoint", ModeMix, 0.2, 0.8, 0.5, 0.5},
		{"add clamps at one", ModeAdd, 1.0, 1.0, 0.5, 1.0},
		{"add partial", ModeAdd, 0.0, 1.0, 0.5, 0.5},
		{"multiply full weight", ModeMultiply, 0.5, 0.5, 1.0, 0.25},
		{"multiply zero weight keeps a", ModeMultiply, 0.5, 0.9, 0.0, 0.5},
		{"screen full weight", ModeScreen, 0.5, 0.5, 1.0, 0.75},
		{"overlay dark doubles product", ModeOverlay, 0.25, 0.5, 1.0, 0.25},
		{"overlay light", ModeOverlay, 0.75, 0.5, 1.0, 0.75},
		{"min takes smaller", ModeMin, 0.3, 0.9, 1.0, 0.3},
		{"max takes larger", ModeMax, 0.3, 0.9, 1.0, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := uniform(2, 2, tt.a)
			b := uniform(2, 2, tt.b)
			out, err := Blend(a, b, tt.weight, tt.mode)
			if err != nil {
				t.Fatalf("Blend: %v", err)
			}
			if math.Abs(out.At(0, 0)-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", out.At(0, 0), tt.want)
			}
		})
	}
}

func TestBlendWeightClamped(t *testing.T) {
	a := uniform(2, 2, 0.2)
	b := uniform(2, 2, 0.8)

	out, err := Blend(a, b, 2.5, ModeMix)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if out.At(0, 0) != 0.8 {
		t.Errorf("overweight mix: got %v, want 0.8", out.At(0, 0))
	}

	out, err = Blend(a, b, -1, ModeMix)
	if err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if out.At(0, 0) != 0.2 {
		t.Errorf("negative weight mix: got %v, want 0.2", out.At(0, 0))
	}
}

func TestBlendShapeMismatch(t *testing.T) {
	a := uniform(4, 4, 0.5)
	b := uniform(4, 8, 0.5)
	if _, err := Blend(a, b, 0.5, ModeMix); err == nil {
		t.Error("expected error for mismatched shapes")
	}
}

func TestBlendUnsupportedMode(t *testing.T) {
	a := uniform(2, 2, 0.5)
	b := uniform(2, 2, 0.5)
	_, err := Blend(a, b, 0.5, Mode("Divide"))
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	var unsupported *UnsupportedModeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedModeError, got %T", err)
	}
}

func TestBlendDoesNotMutateInputs(t *testing.T) {
	a := uniform(2, 2, 0.2)
	b := uniform(2, 2, 0.8)
	if _, err := Blend(a, b, 0.5, ModeAdd); err != nil {
		t.Fatalf("Blend: %v", err)
	}
	if a.At(0, 0) != 0.2 || b.At(0, 0) != 0.8 {
		t.Error("inputs were mutated")
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"Mix", "Add", "Multiply", "Screen", "Overlay", "Min", "Max"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%s): %v", s, err)
		}
	}
	if _, err := ParseMode("Subtract"); err == nil {
		t.Error("ParseMode(Subtract) should fail")
	}
}
