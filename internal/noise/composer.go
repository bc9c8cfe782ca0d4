// Package noise builds normalized [0,1] scalar fields for one layer by
// evaluating a pluggable 3-D noise primitive over a pixel grid. The raw
// lattice math lives in external libraries; this package owns the sampling,
// octave composition, normalization, and seamless tiling.
package noise

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/fieldforge/internal/field"
)

// UnsupportedTypeError reports an unknown noise type tag. The accompanying
// zero field is a documented recovery default, so callers can distinguish an
// intentionally blank layer from a misconfigured one.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported noise type %q", string(e.Type))
}

type generatorFunc func(w, h int, p Params) *field.Scalar

var generators = map[Type]generatorFunc{
	TypePerlin:     genPerlin,
	TypeSimplex:    genSimplex,
	TypeFBM:        genFBM,
	TypeTurbulence: genTurbulence,
	TypeRidged:     genRidged,
	TypeDomainWarp: genDomainWarp,
	Type3DSlice:    gen3DSlice,
}

// Generate produces the normalized scalar field for one layer. An unknown
// type yields an all-zero field together with an *UnsupportedTypeError.
func Generate(typ Type, w, h int, p Params, seamless bool, blendWidth float64) (*field.Scalar, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid field size %dx%d", w, h)
	}

	gen, ok := generators[typ]
	if !ok {
		return field.NewScalar(w, h), &UnsupportedTypeError{Type: typ}
	}

	p = p.sanitized()
	out := gen(w, h, p)

	if p.Invert {
		out.Invert()
	}
	if seamless {
		out = Seamless(out, blendWidth)
	}
	return out, nil
}

func genPerlin(w, h int, p Params) *field.Scalar {
	src := newPerlinSource(p)
	xo, yo, zo := p.offsets()
	nz := zo / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale
			out.Data[out.Idx(x, y)] = src.Noise3(nx, ny, nz)
		}
	}

	normalizeMinMax(out)
	return out
}

func genSimplex(w, h int, p Params) *field.Scalar {
	src := newSimplexSource(p.Seed)
	xo, yo, zo := p.offsets()
	nz := zo / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale
			out.Data[out.Idx(x, y)] = (src.Noise3(nx, ny, nz) + 1.0) * 0.5
		}
	}
	return out
}

func genFBM(w, h int, p Params) *field.Scalar {
	src := newSimplexSource(p.Seed)
	xo, yo, zo := p.offsets()
	nz := zo / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale

			sum, amp, freq, norm := 0.0, 1.0, 1.0, 0.0
			for o := 0; o < p.Octaves; o++ {
				sum += amp * src.Noise3(nx*freq, ny*freq, nz*freq)
				norm += amp
				amp *= p.Persistence
				freq *= p.Lacunarity
			}
			out.Data[out.Idx(x, y)] = sum / norm
		}
	}

	normalizeMinMax(out)
	return out
}

func genTurbulence(w, h int, p Params) *field.Scalar {
	src := newSimplexSource(p.Seed)
	xo, yo, zo := p.offsets()
	nz := zo / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale
			out.Data[out.Idx(x, y)] = math.Pow(math.Abs(src.Noise3(nx, ny, nz)), p.Power)
		}
	}

	normalizeMax(out)
	return out
}

func genRidged(w, h int, p Params) *field.Scalar {
	src := newSimplexSource(p.Seed)
	xo, yo, zo := p.offsets()
	nz := zo / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale

			sum, amp, freq := 0.0, 1.0, 1.0
			for o := 0; o < p.Octaves; o++ {
				signal := 1.0 - math.Abs(src.Noise3(nx*freq, ny*freq, nz*freq))
				signal *= signal // square for sharper ridges
				sum += signal * amp
				amp *= 0.5
				freq *= 2.0
			}
			out.Data[out.Idx(x, y)] = sum
		}
	}

	normalizeMax(out)
	return out
}

// warpDecorrelateX/Y shift the warp sampling coordinate so the two warp axes
// are decorrelated despite sharing one primitive.
const (
	warpDecorrelateX = 5.2
	warpDecorrelateY = 1.3
)

func genDomainWarp(w, h int, p Params) *field.Scalar {
	base := newSimplexSource(p.Seed)
	warp := newSimplexSource(p.Seed + 1)
	xo, yo, zo := p.offsets()
	nz := zo / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale

			wx := warp.Noise3(nx, ny, nz) * p.Warp
			wy := warp.Noise3(nx+warpDecorrelateX, ny+warpDecorrelateY, nz) * p.Warp

			v := base.Noise3((float64(x)+wx)/p.Scale, (float64(y)+wy)/p.Scale, nz)
			out.Data[out.Idx(x, y)] = (v + 1.0) * 0.5
		}
	}
	return out
}

func gen3DSlice(w, h int, p Params) *field.Scalar {
	src := newPerlinSource(p)
	xo, yo, zo := p.offsets()
	nz := (p.ZSlice + zo) / p.Scale

	out := field.NewScalar(w, h)
	for y := 0; y < h; y++ {
		ny := (float64(y) + yo) / p.Scale
		for x := 0; x < w; x++ {
			nx := (float64(x) + xo) / p.Scale
			out.Data[out.Idx(x, y)] = src.Noise3(nx, ny, nz)
		}
	}

	normalizeMinMax(out)
	return out
}

// degenerateRange is the dynamic-range floor below which normalization is
// skipped to avoid dividing by near-zero.
const degenerateRange = 1e-10

// normalizeMinMax remaps the observed [min,max] of the field to [0,1].
func normalizeMinMax(f *field.Scalar) {
	minV, maxV := f.Data[0], f.Data[0]
	for _, v := range f.Data {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if maxV-minV <= degenerateRange {
		return
	}
	inv := 1.0 / (maxV - minV)
	for i, v := range f.Data {
		f.Data[i] = (v - minV) * inv
	}
}

// normalizeMax divides the field by its maximum.
func normalizeMax(f *field.Scalar) {
	maxV := 0.0
	for _, v := range f.Data {
		if v > maxV {
			maxV = v
		}
	}
	if maxV <= degenerateRange {
		return
	}
	inv := 1.0 / maxV
	for i, v := range f.Data {
		f.Data[i] = v * inv
	}
}
