package noise

import (
	"errors"
	"math"
	"testing"
)

func testParams() Params {
	p := DefaultParams()
	p.Scale = 50
	p.Octaves = 4
	return p
}

func TestGenerateDeterministic(t *testing.T) {
	types := []Type{TypePerlin, TypeSimplex, TypeFBM, TypeTurbulence, TypeRidged, TypeDomainWarp, Type3DSlice}
	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			a, err := Generate(typ, 64, 64, testParams(), false, 0)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			b, err := Generate(typ, 64, 64, testParams(), false, 0)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			for i := range a.Data {
				if a.Data[i] != b.Data[i] {
					t.Fatalf("sample %d differs: %v vs %v", i, a.Data[i], b.Data[i])
				}
			}
		})
	}
}

func TestGenerateBounds(t *testing.T) {
	types := []Type{TypePerlin, TypeSimplex, TypeFBM, TypeTurbulence, TypeRidged, TypeDomainWarp, Type3DSlice}
	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			f, err := Generate(typ, 48, 48, testParams(), false, 0)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			for i, v := range f.Data {
				if math.IsNaN(v) || v < 0 || v > 1 {
					t.Fatalf("sample %d out of range: %v", i, v)
				}
			}
		})
	}
}

func TestGenerateSeedChangesOutput(t *testing.T) {
	p1 := testParams()
	p2 := testParams()
	p2.Seed = 9999

	a, err := Generate(TypeSimplex, 32, 32, p1, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(TypeSimplex, 32, 32, p2, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	same := true
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical fields")
	}
}

func TestGenerateUnsupportedType(t *testing.T) {
	f, err := Generate(Type("Voronoi"), 16, 16, testParams(), false, 0)
	if err == nil {
		t.Fatal("expected an error for unknown type")
	}
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedTypeError, got %T", err)
	}
	if f == nil {
		t.Fatal("expected a usable zero field alongside the error")
	}
	for _, v := range f.Data {
		if v != 0 {
			t.Fatal("recovery field is not all zero")
		}
	}
}

func TestGenerateInvalidSize(t *testing.T) {
	if _, err := Generate(TypeSimplex, 0, 16, testParams(), false, 0); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := Generate(TypeSimplex, 16, -1, testParams(), false, 0); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestGenerateInvert(t *testing.T) {
	p := testParams()
	plain, err := Generate(TypeSimplex, 16, 16, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	p.Invert = true
	inverted, err := Generate(TypeSimplex, 16, 16, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i := range plain.Data {
		if math.Abs((1.0-plain.Data[i])-inverted.Data[i]) > 1e-12 {
			t.Fatalf("sample %d: invert mismatch", i)
		}
	}
}

func TestGenerateDegenerateParamsClamped(t *testing.T) {
	p := testParams()
	p.Scale = -5
	p.Persistence = 0
	p.Lacunarity = 0
	p.Octaves = 100

	f, err := Generate(TypeFBM, 16, 16, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d not finite: %v", i, v)
		}
	}
}

func TestRidgedSingleOctave(t *testing.T) {
	p := testParams()
	p.Octaves = 1

	f, err := Generate(TypeRidged, 32, 32, p, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// With one octave the result is (1-|n|)^2 normalized by its max, so
	// values stay within [0,1] and the maximum is exactly 1.
	maxV := 0.0
	for _, v := range f.Data {
		if v > maxV {
			maxV = v
		}
	}
	if math.Abs(maxV-1.0) > 1e-9 {
		t.Errorf("max = %v, want 1.0", maxV)
	}
}

func TestZOffsetAdvancesField(t *testing.T) {
	p1 := testParams()
	p2 := testParams()
	p2.ZOffset = 10

	a, err := Generate(Type3DSlice, 32, 32, p1, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(Type3DSlice, 32, 32, p2, false, 0)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	same := true
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("advancing the z offset did not change the field")
	}
}

func TestParseType(t *testing.T) {
	if _, err := ParseType("Perlin"); err != nil {
		t.Errorf("ParseType(Perlin): %v", err)
	}
	if _, err := ParseType("None"); err != nil {
		t.Errorf("ParseType(None): %v", err)
	}
	if _, err := ParseType("Wavelet"); err == nil {
		t.Error("ParseType(Wavelet) should fail")
	}
}
