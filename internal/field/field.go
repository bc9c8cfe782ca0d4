// Package field defines the 2D value grids produced by the generators: a
// scalar field for noise layers and an RGBA field for sprites. Every
// generation call allocates a fresh field; fields are never mutated after
// being handed to a caller.
package field

import (
	"image"
)

// Scalar is a row-major grid of float64 values, normally within [0,1].
type Scalar struct {
	Data []float64
	W    int
	H    int
}

// NewScalar allocates a zero-valued scalar field.
func NewScalar(w, h int) *Scalar {
	return &Scalar{W: w, H: h, Data: make([]float64, w*h)}
}

// Idx returns the flat index of pixel (x, y).
func (f *Scalar) Idx(x, y int) int { return y*f.W + x }

// At returns the value at (x, y).
func (f *Scalar) At(x, y int) float64 { return f.Data[y*f.W+x] }

// Set stores v at (x, y).
func (f *Scalar) Set(x, y int, v float64) { f.Data[y*f.W+x] = v }

// Clone returns a deep copy of the field.
func (f *Scalar) Clone() *Scalar {
	out := NewScalar(f.W, f.H)
	copy(out.Data, f.Data)
	return out
}

// Invert replaces every value v with 1-v.
func (f *Scalar) Invert() {
	for i, v := range f.Data {
		f.Data[i] = 1.0 - v
	}
}

// Gray converts the field to an 8-bit grayscale image, clamping to [0,255].
func (f *Scalar) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.Pix[y*img.Stride+x] = uint8(Clamp01(f.Data[f.Idx(x, y)]) * 255.0)
		}
	}
	return img
}

// RGBA is a row-major grid of 8-bit RGBA quadruples.
type RGBA struct {
	Pix []uint8
	W   int
	H   int
}

// NewRGBA allocates a fully transparent RGBA field.
func NewRGBA(w, h int) *RGBA {
	return &RGBA{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// SetPixel stores one RGBA quadruple at (x, y).
func (f *RGBA) SetPixel(x, y int, r, g, b, a uint8) {
	i := (y*f.W + x) * 4
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
	f.Pix[i+3] = a
}

// Image converts the field to a non-premultiplied RGBA image.
func (f *RGBA) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	copy(img.Pix, f.Pix)
	return img
}

// Clamp01 clamps x to [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }
