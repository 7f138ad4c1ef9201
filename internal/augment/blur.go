package augment

import (
	"image"
	"math/rand/v2"

	"segaug/pkg/array"

	"gocv.io/x/gocv"
)

const (
	blurKernel   = 5
	blurSigmaMin = 1e-6
	blurSigmaMax = 0.6
)

// RandomBlur Gaussian-blurs the flagged elements half of the time. Label
// masks should not be flagged.
type RandomBlur struct {
	Applied []bool
}

// NewRandomBlur creates a RandomBlur.
func NewRandomBlur(applied []bool) RandomBlur {
	return RandomBlur{Applied: applied}
}

// Apply blurs each flagged element with its own sigma drawn from (0, 0.6].
func (b RandomBlur) Apply(rng *rand.Rand, g Group) (Group, error) {
	if err := checkLength("applied", len(b.Applied), g); err != nil {
		return nil, err
	}
	if !coin(rng) {
		return g, nil
	}
	return mapGroup(g, func(i int, img *array.Image) (*array.Image, error) {
		if !b.Applied[i] {
			return img, nil
		}
		return blurImage(img, uniform(rng, blurSigmaMin, blurSigmaMax))
	})
}

func blurImage(img *array.Image, sigma float64) (*array.Image, error) {
	return array.MapMat(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Point{X: blurKernel, Y: blurKernel}, sigma, sigma, gocv.BorderDefault)
	})
}
