package augment

import (
	"math/rand/v2"

	"segaug/pkg/array"

	"gocv.io/x/gocv"
)

// RandomHorizontalFlip mirrors the whole group left-right half of the time.
//
// Flow fields change sign under a horizontal mirror. With IsFlow set, every
// even-indexed element is negated after flipping, which assumes the group
// holds flow fields at indices 0, 2, 4, ... FlowMask names the flow elements
// explicitly instead and takes precedence when non-nil.
type RandomHorizontalFlip struct {
	IsFlow   bool
	FlowMask []bool
}

// NewRandomHorizontalFlip creates a RandomHorizontalFlip.
func NewRandomHorizontalFlip(isFlow bool) RandomHorizontalFlip {
	return RandomHorizontalFlip{IsFlow: isFlow}
}

// EvenIndexMask returns a mask selecting indices 0, 2, 4, ... of an n-element
// group.
func EvenIndexMask(n int) []bool {
	mask := make([]bool, n)
	for i := 0; i < n; i += 2 {
		mask[i] = true
	}
	return mask
}

// negateMask resolves which elements hold flow for a group of n elements.
func (f RandomHorizontalFlip) negateMask(g Group) ([]bool, error) {
	if f.FlowMask != nil {
		if err := checkLength("flow mask", len(f.FlowMask), g); err != nil {
			return nil, err
		}
		return f.FlowMask, nil
	}
	if f.IsFlow {
		return EvenIndexMask(len(g)), nil
	}
	return nil, nil
}

// Apply flips with probability 0.5.
func (f RandomHorizontalFlip) Apply(rng *rand.Rand, g Group) (Group, error) {
	negate, err := f.negateMask(g)
	if err != nil {
		return nil, err
	}
	if !coin(rng) {
		return g, nil
	}
	return flipGroup(g, negate)
}

// flipGroup mirrors every element; elements selected by negate also have
// their values negated. A nil negate selects nothing.
func flipGroup(g Group, negate []bool) (Group, error) {
	return mapGroup(g, func(i int, img *array.Image) (*array.Image, error) {
		out, err := array.MapMat(img, func(src gocv.Mat, dst *gocv.Mat) {
			gocv.Flip(src, dst, 1)
		})
		if err != nil {
			return nil, err
		}
		if negate != nil && negate[i] {
			for j := range out.Pix {
				out.Pix[j] = -out.Pix[j]
			}
		}
		return out, nil
	})
}
