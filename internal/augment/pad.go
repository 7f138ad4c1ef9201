package augment

import (
	"fmt"
	"image"
	"math/rand/v2"

	"segaug/pkg/array"
	"segaug/pkg/geometry"

	"gocv.io/x/gocv"
)

// Anchor selects where the source sits inside the padded canvas.
type Anchor int

const (
	AnchorRandom Anchor = iota
	AnchorCenter
	AnchorCorner // top-left
)

func (a Anchor) String() string {
	switch a {
	case AnchorRandom:
		return "random"
	case AnchorCenter:
		return "center"
	case AnchorCorner:
		return "corner"
	default:
		return "unknown"
	}
}

// Pad pads every element up to Size with a constant border. Padding holds
// one border fill per group element: a single value for all channels or one
// value per channel, at most four. Targets smaller than the source produce
// zero padding; Pad never crops.
type Pad struct {
	Size    geometry.Size
	Padding [][]float64
	Anchor  Anchor
}

// NewRandomPad places the source at a random offset inside the canvas.
func NewRandomPad(size geometry.Size, padding [][]float64) Pad {
	return Pad{Size: size, Padding: padding, Anchor: AnchorRandom}
}

// NewCenterPad centers the source inside the canvas.
func NewCenterPad(size geometry.Size, padding [][]float64) Pad {
	return Pad{Size: size, Padding: padding, Anchor: AnchorCenter}
}

// NewCornerPad anchors the source at the canvas's top-left corner.
func NewCornerPad(size geometry.Size, padding [][]float64) Pad {
	return Pad{Size: size, Padding: padding, Anchor: AnchorCorner}
}

// Margins holds per-side pad amounts in pixels.
type Margins struct {
	Top, Bottom, Left, Right int
}

// margins computes the border for an h x w source. Only AnchorRandom uses rng.
func (p Pad) margins(rng *rand.Rand, h, w int) Margins {
	dh := max(0, p.Size.Height-h)
	dw := max(0, p.Size.Width-w)

	var top, left int
	switch p.Anchor {
	case AnchorRandom:
		top = rng.IntN(dh + 1)
		left = rng.IntN(dw + 1)
	case AnchorCenter:
		top, left = dh/2, dw/2
	}

	return Margins{
		Top:    top,
		Bottom: max(p.Size.Height-h-top, 0),
		Left:   left,
		Right:  max(p.Size.Width-w-left, 0),
	}
}

// Apply pads the group with one shared set of margins.
func (p Pad) Apply(rng *rand.Rand, g Group) (Group, error) {
	if err := checkLength("padding", len(p.Padding), g); err != nil {
		return nil, err
	}
	if len(g) == 0 {
		return g, nil
	}
	h, w, err := referenceSize(g)
	if err != nil {
		return nil, err
	}

	fills, err := resolveFills(p.Padding, g)
	if err != nil {
		return nil, err
	}

	m := p.margins(rng, h, w)
	return mapGroup(g, func(i int, img *array.Image) (*array.Image, error) {
		return padImage(img, m, fills[i])
	})
}

// maxScalarChannels is the widest element a gocv.Scalar border can fill.
const maxScalarChannels = 4

// padImage copies img into a canvas pre-filled with fill, which must hold
// one value per channel.
func padImage(img *array.Image, m Margins, fill []float64) (*array.Image, error) {
	if img.Channels > maxScalarChannels {
		return nil, fmt.Errorf("%w: border fill supports at most %d channels, got %d",
			ErrBroadcast, maxScalarChannels, img.Channels)
	}

	var v [maxScalarChannels]float64
	copy(v[:], fill)
	scalar := gocv.NewScalar(v[0], v[1], v[2], v[3])

	return array.MapMat(img, func(src gocv.Mat, dst *gocv.Mat) {
		canvas := gocv.NewMatWithSizeFromScalar(scalar,
			img.Height+m.Top+m.Bottom, img.Width+m.Left+m.Right, src.Type())
		defer canvas.Close()

		roi := canvas.Region(image.Rect(m.Left, m.Top, m.Left+img.Width, m.Top+img.Height))
		src.CopyTo(&roi)
		roi.Close()

		canvas.CopyTo(dst)
	})
}

// resolveFills expands each element's border fill to one value per channel.
// A fill is either a single value shared by every channel or exactly one
// value per channel.
func resolveFills(padding [][]float64, g Group) ([][]float64, error) {
	out := make([][]float64, len(g))
	for i, img := range g {
		fill := padding[i]
		switch {
		case len(fill) == img.Channels:
			out[i] = fill
		case len(fill) == 1:
			out[i] = make([]float64, img.Channels)
			for c := range out[i] {
				out[i][c] = fill[0]
			}
		default:
			return nil, fmt.Errorf("%w: element %d has %d border values for %d channels",
				ErrBroadcast, i, len(fill), img.Channels)
		}
	}
	return out, nil
}
