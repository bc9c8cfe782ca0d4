package noise

import (
	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// source is the 3-D noise primitive consumed by the generators: an opaque,
// deterministic, seed-stable pure function returning values in roughly [-1,1].
type source interface {
	Noise3(x, y, z float64) float64
}

// perlinSource wraps the multi-octave Perlin primitive. go-perlin's alpha is
// the inverse of persistence (octave i contributes 1/alpha^i), beta is the
// lacunarity, n the octave count.
type perlinSource struct {
	p *perlin.Perlin
}

func newPerlinSource(p Params) source {
	alpha := 1.0 / p.Persistence
	return &perlinSource{p: perlin.NewPerlin(alpha, p.Lacunarity, int32(p.Octaves), p.Seed)}
}

func (s *perlinSource) Noise3(x, y, z float64) float64 {
	return s.p.Noise3D(x, y, z)
}

// simplexSource wraps the single-evaluation OpenSimplex primitive.
type simplexSource struct {
	n opensimplex.Noise
}

func newSimplexSource(seed int64) source {
	return &simplexSource{n: opensimplex.New(seed)}
}

func (s *simplexSource) Noise3(x, y, z float64) float64 {
	return s.n.Eval3(x, y, z)
}
