package augment

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"segaug/pkg/array"

	"gocv.io/x/gocv"
)

// RandomScale resizes every element by one shared random factor, each with
// its own interpolation mode.
type RandomScale struct {
	Min, Max      float64
	Interpolation []gocv.InterpolationFlags
}

// DefaultInterpolation is linear for the image and nearest-neighbor for the
// label mask, the usual (image, label) pairing.
func DefaultInterpolation() []gocv.InterpolationFlags {
	return []gocv.InterpolationFlags{gocv.InterpolationLinear, gocv.InterpolationNearestNeighbor}
}

// NewRandomScale creates a RandomScale over [0.5, 1.5] for an (image, label)
// group.
func NewRandomScale() RandomScale {
	return RandomScale{Min: 0.5, Max: 1.5, Interpolation: DefaultInterpolation()}
}

// Apply draws a factor s from [Min, Max] and resizes every element to
// round(H*s) x round(W*s).
func (s RandomScale) Apply(rng *rand.Rand, g Group) (Group, error) {
	if err := checkLength("interpolation", len(s.Interpolation), g); err != nil {
		return nil, err
	}
	return scaleGroup(g, uniform(rng, s.Min, s.Max), s.Interpolation)
}

// scaleGroup resizes every element to round(H*factor) x round(W*factor).
// A factor that would shrink either side to nothing is an error.
func scaleGroup(g Group, factor float64, interp []gocv.InterpolationFlags) (Group, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale factor %v must be positive", factor)
	}
	if len(g) == 0 {
		return g, nil
	}
	h, w, err := referenceSize(g)
	if err != nil {
		return nil, err
	}

	oh := int(math.Round(float64(h) * factor))
	ow := int(math.Round(float64(w) * factor))
	if oh < 1 || ow < 1 {
		return nil, fmt.Errorf("scale factor %v shrinks %dx%d to %dx%d", factor, h, w, oh, ow)
	}

	return mapGroup(g, func(i int, img *array.Image) (*array.Image, error) {
		return array.MapMat(img, func(src gocv.Mat, dst *gocv.Mat) {
			gocv.Resize(src, dst, image.Point{X: ow, Y: oh}, 0, 0, interp[i])
		})
	})
}
