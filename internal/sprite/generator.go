// Package sprite renders vector-style RGBA shapes into pixel buffers.
// Every shape is computed as a normalized intensity field first, then
// tinted and alpha-scaled into the final image.
package sprite

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/gift"
	xdraw "golang.org/x/image/draw"

	"github.com/MeKo-Tech/fieldforge/internal/field"
)

// UnsupportedTypeError reports an unknown shape tag.
type UnsupportedTypeError struct {
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported sprite type %q", string(e.Type))
}

type shapeFunc func(w, h int, p Params) *field.Scalar

var shapes = map[Type]shapeFunc{
	TypeCircle:   genCircle,
	TypeSquare:   genSquare,
	TypeLine:     genLine,
	TypeNGon:     genNGon,
	TypeStar:     genStar,
	TypeGlow:     genGlow,
	TypeFlame:    genFlame,
	TypeSparkle:  genSparkle,
	TypeNoise:    genNoise,
	TypeGradient: genGradient,
	TypeRing:     genRing,
	TypeCross:    genCross,
}

// Generate renders a shape into an RGBA field. An unknown type yields a
// fully transparent field along with a typed error so callers can keep a
// usable buffer while reporting the problem.
func Generate(typ Type, w, h int, p Params) (*field.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid sprite size %dx%d", w, h)
	}
	gen, ok := shapes[typ]
	if !ok {
		return field.NewRGBA(w, h), &UnsupportedTypeError{Type: typ}
	}
	intensity := gen(w, h, p)
	return applyColor(intensity, p), nil
}

// applyColor tints an intensity field and derives alpha from it.
func applyColor(in *field.Scalar, p Params) *field.RGBA {
	out := field.NewRGBA(in.W, in.H)
	alpha := field.Clamp01(p.Alpha)
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			v := field.Clamp01(in.At(x, y))
			out.SetPixel(x, y,
				uint8(v*float64(p.ColorR)),
				uint8(v*float64(p.ColorG)),
				uint8(v*float64(p.ColorB)),
				uint8(v*alpha*255))
		}
	}
	return out
}

// softStep is the shared edge profile: full intensity inside the extent,
// a linear ramp of the given width outside it, a hard cut when the width
// is zero.
func softStep(dist, extent, softness float64) float64 {
	if softness > 0 {
		return field.Clamp01(1.0 - (dist-extent)/softness)
	}
	if dist <= extent {
		return 1.0
	}
	return 0.0
}

func genCircle(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	half := float64(min(w, h)) / 2
	radius := p.Radius * half
	softness := p.Softness * half

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			v := softStep(dist, radius, softness)
			if p.Gradient && radius > 0 {
				v *= 1.0 - field.Clamp01(dist/radius)
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genSquare(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	half := float64(min(w, h)) / 2
	size := p.Size * half
	softness := p.Softness * half
	sin, cos := math.Sincos(p.Rotation * math.Pi / 180)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			xr := dx*cos - dy*sin
			yr := dx*sin + dy*cos
			dist := math.Max(math.Abs(xr), math.Abs(yr))
			v := softStep(dist, size, softness)
			if p.Gradient && size > 0 {
				v *= 1.0 - field.Clamp01(dist/size)
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genLine(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	m := float64(min(w, h))
	thickness := p.Thickness * m
	softness := p.Softness * m
	length := p.Length * math.Hypot(float64(w), float64(h))
	sin, cos := math.Sincos(p.Angle * math.Pi / 180)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			xr := dx*cos - dy*sin
			yr := dx*sin + dy*cos
			v := softStep(math.Abs(yr), thickness/2, softness)
			if p.LengthFalloff && length > 0 {
				v *= field.Clamp01(1.0 - (math.Abs(xr)-length/2)/(length*0.1))
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genNGon(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	half := float64(min(w, h)) / 2
	radius := p.Radius * half
	softness := p.Softness * half
	rotation := p.Rotation * math.Pi / 180
	sides := float64(p.Sides)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			angle := math.Atan2(dy, dx) + rotation
			distCenter := math.Hypot(dx, dy)

			// Angular modulation approximates the polygon boundary.
			mod := math.Cos(angle*sides)*0.5 + 0.5
			polyRadius := radius * (0.8 + 0.2*mod)
			dist := distCenter - polyRadius

			v := softStep(dist, 0, softness)
			if p.Gradient && radius > 0 {
				v *= 1.0 - field.Clamp01(distCenter/radius)
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genStar(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	half := float64(min(w, h)) / 2
	outer := p.OuterRadius * half
	inner := p.InnerRadius * half
	softness := p.Softness * half
	rotation := p.Rotation * math.Pi / 180
	points := float64(p.Points)
	step := 2 * math.Pi / points

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			angle := math.Atan2(dy, dx) + rotation
			distCenter := math.Hypot(dx, dy)

			angleMod := math.Mod(angle, step)
			if angleMod < 0 {
				angleMod += step
			}
			angleMod -= step / 2
			factor := math.Cos(angleMod*points)*0.5 + 0.5

			starRadius := inner + (outer-inner)*factor
			v := softStep(distCenter-starRadius, 0, softness)
			if p.Gradient && outer > 0 {
				v *= 1.0 - field.Clamp01(distCenter/outer)
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genGlow(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	maxDist := math.Hypot(cx, cy)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			norm := 0.0
			if p.Radius > 0 {
				norm = dist / (maxDist * p.Radius)
			} else {
				norm = 1.0
			}
			v := math.Pow(1.0-field.Clamp01(norm), p.Falloff) * p.Intensity
			out.Set(x, y, v)
		}
	}

	if p.Blur > 0 {
		blurIntensity(out, p.Blur*float64(min(w, h))/10)
	}
	return out
}

func genFlame(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx := float64(w) / 2

	var turb *field.Scalar
	if p.Turbulence > 0 {
		turb = field.NewScalar(w, h)
		rng := rand.New(rand.NewSource(p.Seed))
		for i := range turb.Data {
			turb.Data[i] = rng.Float64()*2 - 1
		}
		blurSigned(turb, float64(min(w, h))*0.05)
	}

	for y := 0; y < h; y++ {
		ny := float64(y) / float64(h)
		heightMask := 0.0
		if ny < p.Height {
			heightMask = 1.0
		}
		// Narrows toward the top, brighter at the base.
		flameWidth := p.Width * (1.0 - ny*0.7)
		verticalGrad := 1.0 - ny*0.6

		for x := 0; x < w; x++ {
			nx := (float64(x) - cx) / (float64(w) / 2)
			distX := math.Inf(1)
			if flameWidth > 0 {
				distX = math.Abs(nx) / flameWidth
			}
			if turb != nil {
				distX += turb.At(x, y) * p.Turbulence
			}
			v := field.Clamp01(1.0-distX) * heightMask * verticalGrad
			out.Set(x, y, math.Pow(v, p.Falloff))
		}
	}

	if p.Blur > 0 {
		blurIntensity(out, p.Blur*float64(min(w, h))/20)
	}
	return out
}

func genSparkle(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	m := float64(min(w, h))
	thickness := p.Thickness * m
	length := p.Length * m / 2
	softness := p.Softness * m
	rotation := p.Rotation * math.Pi / 180

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			v := 0.0
			for i := 0; i < p.Rays; i++ {
				angle := rotation + float64(i)*math.Pi/float64(p.Rays)
				sin, cos := math.Sincos(angle)
				xr := dx*cos - dy*sin
				yr := dx*sin + dy*cos

				ray := softStep(math.Abs(yr), thickness/2, softness)
				ray *= softStep(math.Abs(xr), length, length*0.2)
				v = math.Max(v, ray)
			}

			distCenter := math.Hypot(dx, dy)
			if thickness > 0 {
				glow := math.Exp(-math.Pow(distCenter/(thickness*3), 2))
				v = math.Max(v, glow)
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genNoise(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	rng := rand.New(rand.NewSource(p.Seed))

	for octave := 0; octave < p.Octaves; octave++ {
		freq := math.Pow(2, float64(octave))
		amp := math.Pow(0.5, float64(octave))

		nh := int(float64(h)*p.Scale*freq) + 1
		nw := int(float64(w)*p.Scale*freq) + 1
		if nh <= 1 || nw <= 1 {
			continue
		}

		grid := image.NewGray16(image.Rect(0, 0, nw, nh))
		for gy := 0; gy < nh; gy++ {
			for gx := 0; gx < nw; gx++ {
				grid.SetGray16(gx, gy, color.Gray16{Y: uint16(rng.Float64() * 65535)})
			}
		}

		up := image.NewGray16(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(up, up.Bounds(), grid, grid.Bounds(), xdraw.Src, nil)

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Data[out.Idx(x, y)] += float64(up.Gray16At(x, y).Y) / 65535 * amp
			}
		}
	}

	maxV := 0.0
	for _, v := range out.Data {
		if v > maxV {
			maxV = v
		}
	}
	if maxV > 0 {
		for i := range out.Data {
			out.Data[i] /= maxV
		}
	}

	for i := range out.Data {
		v := field.Clamp01((out.Data[i]-0.5)*p.Contrast + 0.5)
		if p.Threshold > 0 && v <= p.Threshold {
			v = 0
		}
		out.Data[i] = v
	}
	return out
}

func genGradient(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	maxDist := math.Hypot(cx, cy)
	sin, cos := math.Sincos(p.Angle * math.Pi / 180)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			var v float64
			if p.GradientType == GradientLinear {
				proj := dx*cos + dy*sin
				v = field.Clamp01(0.5 + proj/(2*maxDist))
			} else {
				v = 1.0 - field.Clamp01(math.Hypot(dx, dy)/maxDist)
			}
			out.Set(x, y, math.Pow(v, p.Falloff))
		}
	}
	return out
}

func genRing(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	half := float64(min(w, h)) / 2
	outer := p.OuterRadius * half
	inner := p.InnerRadius * half
	softness := p.Softness * half
	if softness <= 0 {
		softness = 1e-6
	}

	ringCenter := (outer + inner) / 2
	ringWidth := (outer - inner) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			outerMask := field.Clamp01(1.0 - (dist-outer)/softness)
			innerMask := field.Clamp01((dist - inner) / softness)
			v := outerMask * innerMask
			if p.Gradient && ringWidth > 0 {
				v *= 1.0 - field.Clamp01(math.Abs(dist-ringCenter)/ringWidth)
			}
			out.Set(x, y, v)
		}
	}
	return out
}

func genCross(w, h int, p Params) *field.Scalar {
	out := field.NewScalar(w, h)
	cx, cy := float64(w)/2, float64(h)/2
	m := float64(min(w, h))
	thickness := p.Thickness * m
	softness := p.Softness * m
	sin, cos := math.Sincos(p.Rotation * math.Pi / 180)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			xr := dx*cos - dy*sin
			yr := dx*sin + dy*cos
			hBar := softStep(math.Abs(yr), thickness/2, softness)
			vBar := softStep(math.Abs(xr), thickness/2, softness)
			out.Set(x, y, math.Max(hBar, vBar))
		}
	}
	return out
}

// blurIntensity applies a gaussian blur to a [0,1] field in place,
// round-tripping through a 16-bit grayscale image.
func blurIntensity(f *field.Scalar, sigma float64) {
	if sigma <= 0 {
		return
	}
	src := image.NewGray16(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			src.SetGray16(x, y, color.Gray16{Y: uint16(field.Clamp01(f.At(x, y)) * 65535)})
		}
	}
	g := gift.New(gift.GaussianBlur(float32(sigma)))
	dst := image.NewGray16(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			f.Set(x, y, float64(dst.Gray16At(x, y).Y)/65535)
		}
	}
}

// blurSigned blurs a [-1,1] field by shifting it into [0,1] first.
func blurSigned(f *field.Scalar, sigma float64) {
	for i := range f.Data {
		f.Data[i] = (f.Data[i] + 1) / 2
	}
	blurIntensity(f, sigma)
	for i := range f.Data {
		f.Data[i] = f.Data[i]*2 - 1
	}
}
