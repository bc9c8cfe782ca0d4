package noise

import (
	"math"
	"testing"
)

// edgeDelta measures the largest jump between opposite edges of a field,
// the discontinuity a tiled repeat would show.
func edgeDelta(f interface {
	At(x, y int) float64
}, w, h int) float64 {
	maxDelta := 0.0
	for y := 0; y < h; y++ {
		d := math.Abs(f.At(0, y) - f.At(w-1, y))
		if d > maxDelta {
			maxDelta = d
		}
	}
	for x := 0; x < w; x++ {
		d := math.Abs(f.At(x, 0) - f.At(x, h-1))
		if d > maxDelta {
			maxDelta = d
		}
	}
	return maxDelta
}

func TestSeamlessReducesEdgeDiscontinuity(t *testing.T) {
	p := testParams()
	p.Scale = 20

	plain, err := Generate(TypeSimplex, 128, 128, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	tiled, err := Generate(TypeSimplex, 128, 128, p, true, 0.1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	before := edgeDelta(plain, 128, 128)
	after := edgeDelta(tiled, 128, 128)

	if after >= before {
		t.Errorf("edge delta did not improve: before=%v after=%v", before, after)
	}

	// Adjacent edge pixels should be close once tiled: the first and last
	// columns blend toward the same wraparound values.
	for y := 0; y < 128; y++ {
		d := math.Abs(tiled.At(0, y) - tiled.At(127, y))
		if d > 0.15 {
			t.Fatalf("row %d edge delta %v too large", y, d)
		}
	}
}

func TestSeamlessPreservesInterior(t *testing.T) {
	p := testParams()
	plain, err := Generate(TypeSimplex, 100, 100, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tiled := Seamless(plain, 0.1)

	// Pixels outside both blend bands keep their original value.
	if tiled.At(50, 50) != plain.At(50, 50) {
		t.Error("interior pixel changed")
	}
	if tiled.At(30, 60) != plain.At(30, 60) {
		t.Error("interior pixel changed")
	}
}

func TestSeamlessDoesNotMutateInput(t *testing.T) {
	p := testParams()
	plain, err := Generate(TypeSimplex, 64, 64, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	before := plain.Clone()
	Seamless(plain, 0.1)

	for i := range plain.Data {
		if plain.Data[i] != before.Data[i] {
			t.Fatal("input field was mutated")
		}
	}
}

func TestBandSizeFloor(t *testing.T) {
	if got := bandSize(100, 0.001); got != 2 {
		t.Errorf("bandSize(100, 0.001) = %d, want 2", got)
	}
	if got := bandSize(100, 0.1); got != 10 {
		t.Errorf("bandSize(100, 0.1) = %d, want 10", got)
	}
}
