package augment

import (
	"math/rand/v2"

	"segaug/pkg/geometry"
)

// RandomCrop crops every element to the same randomly placed Size window.
// Windows larger than the source are clipped, so outputs may be smaller than
// Size. Outputs are views sharing storage with the inputs.
type RandomCrop struct {
	Size geometry.Size
}

// NewRandomCrop creates a RandomCrop.
func NewRandomCrop(size geometry.Size) RandomCrop {
	return RandomCrop{Size: size}
}

// Apply draws one top-left offset and crops the whole group with it.
func (c RandomCrop) Apply(rng *rand.Rand, g Group) (Group, error) {
	if len(g) == 0 {
		return g, nil
	}
	h, w, err := referenceSize(g)
	if err != nil {
		return nil, err
	}

	y := rng.IntN(max(0, h-c.Size.Height) + 1)
	x := rng.IntN(max(0, w-c.Size.Width) + 1)
	return cropGroup(g, c.Size, y, x), nil
}

// CenterCrop crops every element to a centered Size window.
type CenterCrop struct {
	Size geometry.Size
}

// NewCenterCrop creates a CenterCrop.
func NewCenterCrop(size geometry.Size) CenterCrop {
	return CenterCrop{Size: size}
}

// Apply crops the group around its center. The offset depends only on the
// source and target sizes.
func (c CenterCrop) Apply(_ *rand.Rand, g Group) (Group, error) {
	if len(g) == 0 {
		return g, nil
	}
	h, w, err := referenceSize(g)
	if err != nil {
		return nil, err
	}

	y, x := centerOffset(h, c.Size.Height), centerOffset(w, c.Size.Width)
	return cropGroup(g, c.Size, y, x), nil
}

// centerOffset returns max(0, (outer-inner)/2), truncating toward zero.
func centerOffset(outer, inner int) int {
	return max(0, (outer-inner)/2)
}

func cropGroup(g Group, size geometry.Size, y, x int) Group {
	out := make(Group, len(g))
	for i, img := range g {
		out[i] = img.Sub(y, y+size.Height, x, x+size.Width)
	}
	return out
}
