package noise

// Type identifies a noise generator family.
type Type string

const (
	TypePerlin     Type = "Perlin"
	TypeSimplex    Type = "Simplex"
	TypeFBM        Type = "FBM"
	TypeTurbulence Type = "Turbulence"
	TypeRidged     Type = "Ridged"
	TypeDomainWarp Type = "DomainWarp"
	Type3DSlice    Type = "3DSlice"

	// TypeNone marks a disabled layer; blending is skipped entirely.
	TypeNone Type = "None"
)

// MaxOctaves caps the octave count for every multi-octave generator.
const MaxOctaves = 10

// Params is the full parameter bag for one noise layer. A generator reads
// only the keys listed in VisibleParams for its type; the rest are ignored.
type Params struct {
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Seed        int64
	Power       float64
	Warp        float64
	ZSlice      float64
	XOffset     float64
	YOffset     float64
	ZOffset     float64
	Sensitivity float64
	Invert      bool
}

// DefaultParams returns the layer defaults used by the CLI.
func DefaultParams() Params {
	return Params{
		Scale:       100.0,
		Octaves:     6,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Seed:        42,
		Power:       2.0,
		Warp:        50.0,
		Sensitivity: 0.1,
	}
}

// VisibleParams maps each noise type to the parameter keys it consumes.
// Callers may use it to hide or ignore irrelevant controls.
var VisibleParams = map[Type][]string{
	TypePerlin:     {"scale", "octaves", "persistence", "lacunarity", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	TypeSimplex:    {"scale", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	TypeFBM:        {"scale", "octaves", "persistence", "lacunarity", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	TypeTurbulence: {"scale", "power", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	TypeRidged:     {"scale", "octaves", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	TypeDomainWarp: {"scale", "warp", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	Type3DSlice:    {"scale", "octaves", "z_slice", "seed", "x_offset", "y_offset", "z_offset", "sensitivity"},
	TypeNone:       {},
}

// ParseType validates a noise type tag.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if t == TypeNone {
		return t, nil
	}
	if _, ok := generators[t]; !ok {
		return "", &UnsupportedTypeError{Type: t}
	}
	return t, nil
}

// sanitized clamps parameters into safe ranges instead of propagating
// NaN/Inf from degenerate inputs (negative scale, zero persistence).
func (p Params) sanitized() Params {
	if p.Scale < 1e-3 {
		p.Scale = 1e-3
	}
	if p.Octaves < 1 {
		p.Octaves = 1
	}
	if p.Octaves > MaxOctaves {
		p.Octaves = MaxOctaves
	}
	if p.Persistence < 0.01 {
		p.Persistence = 0.01
	}
	if p.Lacunarity < 1.01 {
		p.Lacunarity = 1.01
	}
	if p.Power < 0 {
		p.Power = 0
	}
	return p
}

// offsets returns the sampling offsets with sensitivity applied.
func (p Params) offsets() (x, y, z float64) {
	return p.XOffset * p.Sensitivity, p.YOffset * p.Sensitivity, p.ZOffset * p.Sensitivity
}
