package field

import (
	"math"
	"testing"
)

func TestScalarIndexing(t *testing.T) {
	f := NewScalar(4, 3)
	if len(f.Data) != 12 {
		t.Fatalf("expected 12 samples, got %d", len(f.Data))
	}

	f.Set(2, 1, 0.75)
	if got := f.At(2, 1); got != 0.75 {
		t.Errorf("At(2,1) = %v, want 0.75", got)
	}
	if f.Idx(2, 1) != 6 {
		t.Errorf("Idx(2,1) = %d, want 6", f.Idx(2, 1))
	}
}

func TestScalarClone(t *testing.T) {
	f := NewScalar(2, 2)
	f.Set(0, 0, 0.5)

	c := f.Clone()
	c.Set(0, 0, 0.9)

	if f.At(0, 0) != 0.5 {
		t.Errorf("clone mutation leaked into original: %v", f.At(0, 0))
	}
	if c.At(0, 0) != 0.9 {
		t.Errorf("clone value = %v, want 0.9", c.At(0, 0))
	}
}

func TestScalarInvert(t *testing.T) {
	f := NewScalar(2, 1)
	f.Set(0, 0, 0.25)
	f.Set(1, 0, 1.0)

	f.Invert()

	if got := f.At(0, 0); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("inverted value = %v, want 0.75", got)
	}
	if got := f.At(1, 0); got != 0.0 {
		t.Errorf("inverted value = %v, want 0", got)
	}
}

func TestScalarGray(t *testing.T) {
	f := NewScalar(2, 1)
	f.Set(0, 0, 0.0)
	f.Set(1, 0, 1.0)

	img := f.Gray()
	if img.GrayAt(0, 0).Y != 0 {
		t.Errorf("pixel (0,0) = %d, want 0", img.GrayAt(0, 0).Y)
	}
	if img.GrayAt(1, 0).Y != 255 {
		t.Errorf("pixel (1,0) = %d, want 255", img.GrayAt(1, 0).Y)
	}
}

func TestScalarGrayClampsOutOfRange(t *testing.T) {
	f := NewScalar(2, 1)
	f.Set(0, 0, -0.5)
	f.Set(1, 0, 1.5)

	img := f.Gray()
	if img.GrayAt(0, 0).Y != 0 {
		t.Errorf("pixel (0,0) = %d, want 0", img.GrayAt(0, 0).Y)
	}
	if img.GrayAt(1, 0).Y != 255 {
		t.Errorf("pixel (1,0) = %d, want 255", img.GrayAt(1, 0).Y)
	}
}

func TestRGBAImage(t *testing.T) {
	f := NewRGBA(2, 2)
	f.SetPixel(1, 0, 10, 20, 30, 40)

	img := f.Image()
	c := img.NRGBAAt(1, 0)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 40 {
		t.Errorf("pixel (1,0) = %+v, want {10 20 30 40}", c)
	}

	// The image must be a copy.
	f.SetPixel(1, 0, 0, 0, 0, 0)
	if img.NRGBAAt(1, 0).R != 10 {
		t.Error("image shares memory with source field")
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Errorf("Lerp(0,10,0.5) = %v, want 5", got)
	}
	if got := Lerp(2, 4, 0); got != 2 {
		t.Errorf("Lerp(2,4,0) = %v, want 2", got)
	}
	if got := Lerp(2, 4, 1); got != 4 {
		t.Errorf("Lerp(2,4,1) = %v, want 4", got)
	}
}
