package augment

import (
	"fmt"
	"math/rand/v2"

	"segaug/pkg/array"

	"gonum.org/v1/gonum/floats"
)

// Normalize subtracts a mean and divides by a standard deviation, per group
// element. A one-value entry applies to the whole array; a longer entry is
// broadcast over the channel axis and must match the element's channel count.
type Normalize struct {
	Mean [][]float64
	Std  [][]float64
}

// NewNormalize creates a Normalize.
func NewNormalize(mean, std [][]float64) Normalize {
	return Normalize{Mean: mean, Std: std}
}

// Apply returns normalized copies; inputs are not modified.
func (n Normalize) Apply(_ *rand.Rand, g Group) (Group, error) {
	if err := checkLength("mean", len(n.Mean), g); err != nil {
		return nil, err
	}
	if err := checkLength("std", len(n.Std), g); err != nil {
		return nil, err
	}
	return mapGroup(g, func(i int, img *array.Image) (*array.Image, error) {
		return normalizeImage(img, n.Mean[i], n.Std[i])
	})
}

func normalizeImage(img *array.Image, mean, std []float64) (*array.Image, error) {
	if len(mean) != len(std) {
		return nil, fmt.Errorf("%w: %d mean values, %d std values", ErrBroadcast, len(mean), len(std))
	}
	if len(mean) == 0 {
		return nil, fmt.Errorf("%w: empty statistics", ErrBroadcast)
	}

	out := img.Clone()
	if len(mean) == 1 {
		floats.AddConst(-mean[0], out.Pix)
		floats.Scale(1/std[0], out.Pix)
		return out, nil
	}

	if img.Rank != 3 || img.Channels != len(mean) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrBroadcast, len(mean), img.Shape())
	}
	c := img.Channels
	for j, v := range out.Pix {
		k := j % c
		out.Pix[j] = (v - mean[k]) / std[k]
	}
	return out, nil
}

// Denormalize inverts Normalize: x*std + mean.
func Denormalize(img *array.Image, mean, std []float64) (*array.Image, error) {
	if len(mean) != len(std) || len(mean) == 0 {
		return nil, fmt.Errorf("%w: %d mean values, %d std values", ErrBroadcast, len(mean), len(std))
	}

	out := img.Clone()
	if len(mean) == 1 {
		floats.Scale(std[0], out.Pix)
		floats.AddConst(mean[0], out.Pix)
		return out, nil
	}

	if img.Rank != 3 || img.Channels != len(mean) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrBroadcast, len(mean), img.Shape())
	}
	c := img.Channels
	for j, v := range out.Pix {
		k := j % c
		out.Pix[j] = v*std[k] + mean[k]
	}
	return out, nil
}
