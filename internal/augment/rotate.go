package augment

import (
	"image"
	"image/color"
	"math/rand/v2"

	"segaug/pkg/array"
	"segaug/pkg/geometry"

	"gocv.io/x/gocv"
)

// RandomRotation rotates the group about its center by a random angle, half
// of the time. Each element has its own interpolation mode and border fill;
// the canvas size never changes. A fill is one value for every channel or one
// value per channel, as for Pad.
type RandomRotation struct {
	MinDegree, MaxDegree float64
	Interpolation        []gocv.InterpolationFlags
	Padding              [][]float64
}

// NewRandomRotation creates a RandomRotation over [-10, 10] degrees for an
// (image, label) group.
func NewRandomRotation(padding [][]float64) RandomRotation {
	return RandomRotation{
		MinDegree:     -10,
		MaxDegree:     10,
		Interpolation: DefaultInterpolation(),
		Padding:       padding,
	}
}

// Apply leaves the group untouched with probability 0.5; otherwise it draws
// an angle from [MinDegree, MaxDegree] and warps every element.
func (r RandomRotation) Apply(rng *rand.Rand, g Group) (Group, error) {
	if err := checkLength("interpolation", len(r.Interpolation), g); err != nil {
		return nil, err
	}
	if err := checkLength("padding", len(r.Padding), g); err != nil {
		return nil, err
	}
	if len(g) == 0 {
		return g, nil
	}
	fills, err := resolveFills(r.Padding, g)
	if err != nil {
		return nil, err
	}
	if !coin(rng) {
		return g, nil
	}
	return rotateGroup(g, uniform(rng, r.MinDegree, r.MaxDegree), r.Interpolation, fills)
}

// rotateGroup warps every element about the group center. fills holds one
// value per channel for each element.
func rotateGroup(g Group, degrees float64, interp []gocv.InterpolationFlags, fills [][]float64) (Group, error) {
	if len(g) == 0 {
		return g, nil
	}
	h, w, err := referenceSize(g)
	if err != nil {
		return nil, err
	}

	size := geometry.NewSize(h, w)
	rot := affineMat(geometry.RotationAbout(size.Center(), degrees, 1.0))
	defer rot.Close()

	return mapGroup(g, func(i int, img *array.Image) (*array.Image, error) {
		// Warping img-fill over a zero border and adding fill back is the
		// same as warping img over a fill border, for any float fill.
		out, err := array.MapMat(shiftChannels(img, fills[i], -1), func(src gocv.Mat, dst *gocv.Mat) {
			gocv.WarpAffineWithParams(src, dst, rot, image.Point{X: w, Y: h},
				interp[i], gocv.BorderConstant, color.RGBA{})
		})
		if err != nil {
			return nil, err
		}
		return shiftChannels(out, fills[i], 1), nil
	})
}

// shiftChannels returns a compact copy of img with sign*fill[c] added to
// channel c.
func shiftChannels(img *array.Image, fill []float64, sign float64) *array.Image {
	out := img.Clone()
	for i := range out.Pix {
		out.Pix[i] += sign * fill[i%out.Channels]
	}
	return out
}

// affineMat builds the 2x3 CV_64F matrix for t. The caller must Close it.
func affineMat(t geometry.AffineTransform) gocv.Mat {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for r, row := range t.ToMatrix() {
		for c, v := range row {
			m.SetDoubleAt(r, c, v)
		}
	}
	return m
}
