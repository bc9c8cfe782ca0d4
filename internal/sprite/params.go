package sprite

import "fmt"

// Type identifies a sprite shape.
type Type string

const (
	TypeCircle   Type = "Circle"
	TypeSquare   Type = "Square"
	TypeLine     Type = "Line"
	TypeNGon     Type = "N-Gon"
	TypeStar     Type = "Star"
	TypeGlow     Type = "Glow"
	TypeFlame    Type = "Flame"
	TypeSparkle  Type = "Sparkle"
	TypeNoise    Type = "Noise"
	TypeGradient Type = "Gradient"
	TypeRing     Type = "Ring"
	TypeCross    Type = "Cross"
)

// GradientRadial and GradientLinear select the gradient sprite's layout.
const (
	GradientRadial = "radial"
	GradientLinear = "linear"
)

// Params holds the full parameter set across all shapes. Each shape reads
// only the fields it needs; Defaults seeds the ones that matter for a type.
type Params struct {
	Radius        float64
	Size          float64
	Thickness     float64
	Softness      float64
	Rotation      float64 // degrees
	Angle         float64 // degrees
	Length        float64
	LengthFalloff bool
	Sides         int
	Points        int
	OuterRadius   float64
	InnerRadius   float64
	Intensity     float64
	Falloff       float64
	Blur          float64
	Height        float64
	Width         float64
	Turbulence    float64
	Seed          int64
	Scale         float64
	Octaves       int
	Contrast      float64
	Threshold     float64
	Rays          int
	GradientType  string
	Gradient      bool

	ColorR uint8
	ColorG uint8
	ColorB uint8
	Alpha  float64
}

// Defaults returns the starting parameter set for a shape.
func Defaults(typ Type) Params {
	p := Params{ColorR: 255, ColorG: 255, ColorB: 255, Alpha: 1.0}
	switch typ {
	case TypeCircle:
		p.Radius = 0.4
		p.Softness = 0.1
	case TypeSquare:
		p.Size = 0.6
		p.Softness = 0.1
	case TypeLine:
		p.Thickness = 0.1
		p.Softness = 0.2
		p.Length = 0.8
		p.LengthFalloff = true
	case TypeNGon:
		p.Sides = 6
		p.Radius = 0.4
		p.Softness = 0.1
	case TypeStar:
		p.Points = 5
		p.OuterRadius = 0.4
		p.InnerRadius = 0.2
		p.Softness = 0.1
	case TypeGlow:
		p.Intensity = 1.0
		p.Falloff = 2.0
		p.Radius = 0.5
	case TypeFlame:
		p.Height = 0.8
		p.Width = 0.5
		p.Turbulence = 0.3
		p.Falloff = 2.0
		p.Blur = 1.0
		p.Seed = 42
		p.ColorR, p.ColorG, p.ColorB = 255, 128, 0
	case TypeSparkle:
		p.Rays = 4
		p.Thickness = 0.05
		p.Length = 0.8
		p.Softness = 0.15
	case TypeNoise:
		p.Scale = 0.1
		p.Octaves = 3
		p.Seed = 42
		p.Contrast = 1.0
	case TypeGradient:
		p.GradientType = GradientRadial
		p.Falloff = 1.0
	case TypeRing:
		p.OuterRadius = 0.4
		p.InnerRadius = 0.25
		p.Softness = 0.1
	case TypeCross:
		p.Thickness = 0.1
		p.Softness = 0.1
	}
	return p
}

// ParseType validates a shape tag.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := shapes[t]; !ok {
		return "", &UnsupportedTypeError{Type: t}
	}
	return t, nil
}

// Set updates a parameter by key. Keys match the config and animation
// channel names. Integer fields are rounded from the float value.
func (p *Params) Set(key string, v float64) error {
	switch key {
	case "radius":
		p.Radius = v
	case "size":
		p.Size = v
	case "thickness":
		p.Thickness = v
	case "softness":
		p.Softness = v
	case "rotation":
		p.Rotation = v
	case "angle":
		p.Angle = v
	case "length":
		p.Length = v
	case "sides":
		p.Sides = int(v + 0.5)
	case "points":
		p.Points = int(v + 0.5)
	case "outer_radius":
		p.OuterRadius = v
	case "inner_radius":
		p.InnerRadius = v
	case "intensity":
		p.Intensity = v
	case "falloff":
		p.Falloff = v
	case "blur":
		p.Blur = v
	case "height":
		p.Height = v
	case "width":
		p.Width = v
	case "turbulence":
		p.Turbulence = v
	case "scale":
		p.Scale = v
	case "contrast":
		p.Contrast = v
	case "threshold":
		p.Threshold = v
	case "rays":
		p.Rays = int(v + 0.5)
	case "alpha":
		p.Alpha = v
	default:
		return fmt.Errorf("unknown sprite parameter %q", key)
	}
	return nil
}

// Value reads a parameter by key.
func (p *Params) Value(key string) (float64, error) {
	switch key {
	case "radius":
		return p.Radius, nil
	case "size":
		return p.Size, nil
	case "thickness":
		return p.Thickness, nil
	case "softness":
		return p.Softness, nil
	case "rotation":
		return p.Rotation, nil
	case "angle":
		return p.Angle, nil
	case "length":
		return p.Length, nil
	case "sides":
		return float64(p.Sides), nil
	case "points":
		return float64(p.Points), nil
	case "outer_radius":
		return p.OuterRadius, nil
	case "inner_radius":
		return p.InnerRadius, nil
	case "intensity":
		return p.Intensity, nil
	case "falloff":
		return p.Falloff, nil
	case "blur":
		return p.Blur, nil
	case "height":
		return p.Height, nil
	case "width":
		return p.Width, nil
	case "turbulence":
		return p.Turbulence, nil
	case "scale":
		return p.Scale, nil
	case "contrast":
		return p.Contrast, nil
	case "threshold":
		return p.Threshold, nil
	case "rays":
		return float64(p.Rays), nil
	case "alpha":
		return p.Alpha, nil
	}
	return 0, fmt.Errorf("unknown sprite parameter %q", key)
}
