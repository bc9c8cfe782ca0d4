package noise

import (
	"math"

	"github.com/MeKo-Tech/fieldforge/internal/field"
)

// Seamless blends the edge bands of f so the field repeats without visible
// seams. blendWidth is the band thickness as a fraction of each extent.
//
// Within a band the pixel is bilinearly blended with its half-period
// wraparound twins: the ramp weight is 1 exactly at the edge (the pixel is
// replaced by its twin, which matches the opposite edge) and 0 at the band's
// inner boundary (the original value is preserved). Pixels outside both
// bands are untouched.
func Seamless(f *field.Scalar, blendWidth float64) *field.Scalar {
	w, h := f.W, f.H
	out := f.Clone()

	bh := bandSize(h, blendWidth)
	bw := bandSize(w, blendWidth)

	for y := 0; y < h; y++ {
		wy := 0.0
		switch {
		case y < bh:
			wy = 1.0 - float64(y)/float64(bh)
		case y >= h-bh:
			wy = 1.0 - float64(h-1-y)/float64(bh)
		}

		for x := 0; x < w; x++ {
			wx := 0.0
			switch {
			case x < bw:
				wx = 1.0 - float64(x)/float64(bw)
			case x >= w-bw:
				wx = 1.0 - float64(w-1-x)/float64(bw)
			}

			if wx == 0 && wy == 0 {
				continue
			}

			p00 := f.At(x, y)
			p01 := f.At((x+w/2)%w, y)
			p10 := f.At(x, (y+h/2)%h)
			p11 := f.At((x+w/2)%w, (y+h/2)%h)

			top := (1-wx)*p00 + wx*p01
			bottom := (1-wx)*p10 + wx*p11
			out.Data[out.Idx(x, y)] = (1-wy)*top + wy*bottom
		}
	}

	return out
}

func bandSize(extent int, blendWidth float64) int {
	b := int(math.Round(float64(extent) * blendWidth))
	if b < 2 {
		b = 2
	}
	return b
}
