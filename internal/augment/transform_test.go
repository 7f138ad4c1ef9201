package augment

import (
	"errors"
	"math/rand/v2"
	"testing"

	"segaug/pkg/array"
	"segaug/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// ramp returns an image whose elements count up from start.
func ramp(h, w, c int, start float64) *array.Image {
	m := array.NewWithChannels(h, w, c)
	for i := range m.Pix {
		m.Pix[i] = start + float64(i)
	}
	return m
}

func label(h, w int) *array.Image {
	m := array.New(h, w)
	for i := range m.Pix {
		m.Pix[i] = float64(i % 5)
	}
	return m
}

func approxEqual(a, b *array.Image, tol float64) bool {
	if a.Rank != b.Rank || a.Height != b.Height || a.Width != b.Width || a.Channels != b.Channels {
		return false
	}
	return floats.EqualApprox(a.Clone().Pix, b.Clone().Pix, tol)
}

func TestLengthMismatch(t *testing.T) {
	g := Group{ramp(6, 6, 3, 0), label(6, 6)}
	size := geometry.Square(8)
	one := []gocv.InterpolationFlags{gocv.InterpolationLinear}

	tests := []struct {
		name string
		tr   Transform
	}{
		{"random pad", NewRandomPad(size, [][]float64{{0}})},
		{"center pad", NewCenterPad(size, [][]float64{{0}, {255}, {1}})},
		{"corner pad", NewCornerPad(size, nil)},
		{"scale", RandomScale{Min: 1, Max: 1, Interpolation: one}},
		{"rotation interpolation", RandomRotation{Interpolation: one, Padding: [][]float64{{0}, {255}}}},
		{"rotation padding", RandomRotation{Interpolation: DefaultInterpolation(), Padding: [][]float64{{0}}}},
		{"blur", NewRandomBlur([]bool{true})},
		{"flow mask", RandomHorizontalFlip{FlowMask: []bool{true, false, true}}},
		{"normalize", NewNormalize([][]float64{{0}}, [][]float64{{1}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Several seeds so the check cannot hide behind a no-op draw.
			for seed := uint64(0); seed < 8; seed++ {
				out, err := tt.tr.Apply(seeded(seed), g)
				if !errors.Is(err, ErrLengthMismatch) {
					t.Fatalf("seed %d: err = %v, want ErrLengthMismatch", seed, err)
				}
				if out != nil {
					t.Fatalf("seed %d: got partial output", seed)
				}
			}
		})
	}
}

func TestPipeline(t *testing.T) {
	g := Group{ramp(10, 12, 3, 0), label(10, 12)}
	p := Pipeline{
		NewCornerPad(geometry.NewSize(16, 16), [][]float64{{0}, {255}}),
		NewCenterCrop(geometry.NewSize(8, 10)),
		NewRandomHorizontalFlip(false),
	}

	out, err := p.Apply(seeded(1), g)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, img := range out {
		if img.Height != 8 || img.Width != 10 {
			t.Errorf("element %d is %dx%d, want 8x10", i, img.Height, img.Width)
		}
	}
	if out[0].Rank != 3 || out[1].Rank != 2 {
		t.Errorf("ranks = %d, %d; want 3, 2", out[0].Rank, out[1].Rank)
	}
}

func TestPipelineWrapsStageError(t *testing.T) {
	g := Group{ramp(4, 4, 1, 0), label(5, 4)}
	p := Pipeline{NewCenterCrop(geometry.Square(2))}

	_, err := p.Apply(seeded(1), g)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestEmptyGroup(t *testing.T) {
	transforms := []Transform{
		NewRandomCrop(geometry.Square(3)),
		NewCenterCrop(geometry.Square(3)),
		NewCenterPad(geometry.Square(3), nil),
		RandomScale{Min: 1, Max: 2},
		RandomRotation{MinDegree: -5, MaxDegree: 5},
		NewRandomBlur(nil),
		NewRandomHorizontalFlip(true),
		NewNormalize(nil, nil),
	}
	for _, tr := range transforms {
		out, err := tr.Apply(seeded(3), Group{})
		if err != nil || len(out) != 0 {
			t.Errorf("%T on empty group = %v, %v", tr, out, err)
		}
	}
}
