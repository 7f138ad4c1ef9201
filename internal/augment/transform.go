// Package augment implements paired image/label augmentation for
// semantic-segmentation training.
//
// Every transform operates on a Group: an ordered set of spatially aligned
// arrays (image, label mask, flow field, ...) that must receive the same
// geometric transform so pixel correspondence survives. Randomness comes
// from the *rand.Rand passed to Apply; transforms hold configuration only
// and are safe to share between goroutines as long as each call gets its own
// generator and group.
package augment

import (
	"fmt"
	"math/rand/v2"

	"segaug/pkg/array"
)

// Group is an ordered set of same-sized arrays transformed together. Index 0
// is conventionally the primary image.
type Group []*array.Image

// Transform is a group augmentation step. rng must be non-nil for any
// transform that draws randomness; only CenterCrop, the center and corner
// pads and Normalize accept a nil generator.
type Transform interface {
	Apply(rng *rand.Rand, g Group) (Group, error)
}

// Pipeline chains transforms, feeding each one's output to the next.
type Pipeline []Transform

// Apply runs every stage in order. The first failing stage aborts the run.
func (p Pipeline) Apply(rng *rand.Rand, g Group) (Group, error) {
	for i, t := range p {
		out, err := t.Apply(rng, g)
		if err != nil {
			return nil, fmt.Errorf("stage %d (%T): %w", i, t, err)
		}
		g = out
	}
	return g, nil
}

// checkLength verifies a per-element parameter sequence covers the group.
func checkLength(param string, n int, g Group) error {
	if n != len(g) {
		return fmt.Errorf("%w: %d %s values for %d group elements", ErrLengthMismatch, n, param, len(g))
	}
	return nil
}

// referenceSize returns the group's (H, W), checking every element against
// the first one.
func referenceSize(g Group) (h, w int, err error) {
	h, w = g[0].Height, g[0].Width
	for i, img := range g[1:] {
		if img.Height != h || img.Width != w {
			return 0, 0, fmt.Errorf("%w: element %d is %dx%d, element 0 is %dx%d",
				ErrShapeMismatch, i+1, img.Height, img.Width, h, w)
		}
	}
	return h, w, nil
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// coin reports whether a fair coin came up heads.
func coin(rng *rand.Rand) bool {
	return rng.Float64() < 0.5
}

// mapGroup applies fn to every element, stopping at the first error.
func mapGroup(g Group, fn func(i int, img *array.Image) (*array.Image, error)) (Group, error) {
	out := make(Group, len(g))
	for i, img := range g {
		res, err := fn(i, img)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = res
	}
	return out, nil
}
