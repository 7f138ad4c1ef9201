package augment

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestScaleIdentity(t *testing.T) {
	g := Group{ramp(9, 13, 3, 0), label(9, 13), ramp(9, 13, 1, 0)}
	interp := []gocv.InterpolationFlags{gocv.InterpolationLinear, gocv.InterpolationNearestNeighbor, gocv.InterpolationNearestNeighbor}

	out, err := scaleGroup(g, 1.0, interp)
	if err != nil {
		t.Fatalf("scaleGroup: %v", err)
	}
	for i := range g {
		if !approxEqual(out[i], g[i], 1e-9) {
			t.Errorf("element %d changed: %v -> %v", i, g[i].Shape(), out[i].Shape())
		}
	}
}

func TestRandomScaleSharedFactor(t *testing.T) {
	g := Group{ramp(10, 20, 3, 0), label(10, 20)}
	s := RandomScale{Min: 0.5, Max: 1.5, Interpolation: DefaultInterpolation()}

	for seed := uint64(0); seed < 20; seed++ {
		out, err := s.Apply(seeded(seed), g)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !out[0].SameSize(out[1]) {
			t.Fatalf("seed %d: sizes diverged: %v vs %v", seed, out[0].Shape(), out[1].Shape())
		}
		if out[0].Height < 5 || out[0].Height > 15 || out[0].Width < 10 || out[0].Width > 30 {
			t.Fatalf("seed %d: size %v outside scale range", seed, out[0].Shape())
		}
	}
}

func TestRandomScaleFixedFactor(t *testing.T) {
	g := Group{ramp(6, 8, 1, 0), label(6, 8)}
	s := RandomScale{Min: 2, Max: 2, Interpolation: DefaultInterpolation()}

	out, err := s.Apply(seeded(1), g)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, img := range out {
		if img.Height != 12 || img.Width != 16 {
			t.Errorf("element %d is %dx%d, want 12x16", i, img.Height, img.Width)
		}
		if img.Rank != g[i].Rank {
			t.Errorf("element %d rank %d, want %d", i, img.Rank, g[i].Rank)
		}
	}

	// Nearest-neighbor keeps label values from the original set.
	for _, v := range out[1].Pix {
		if v != float64(int(v)) || v < 0 || v > 4 {
			t.Fatalf("label value %v not in source set", v)
		}
	}
}

func TestScaleRejectsNonPositive(t *testing.T) {
	if _, err := scaleGroup(Group{label(2, 2)}, 0, DefaultInterpolation()[:1]); err == nil {
		t.Error("expected error for zero factor")
	}
}

func TestScaleRejectsVanishingOutput(t *testing.T) {
	g := Group{ramp(9, 9, 3, 0), label(9, 9)}
	if _, err := scaleGroup(g, 0.05, DefaultInterpolation()); err == nil {
		t.Error("expected error when 9x9 shrinks to 0x0")
	}

	s := RandomScale{Min: 0.05, Max: 0.05, Interpolation: DefaultInterpolation()}
	if _, err := s.Apply(seeded(1), g); err == nil {
		t.Error("expected error from RandomScale with a vanishing factor")
	}

	// 0.06 rounds 9 up to 1 pixel.
	out, err := scaleGroup(g, 0.06, DefaultInterpolation())
	if err != nil {
		t.Fatalf("scaleGroup(0.06): %v", err)
	}
	if out[0].Height != 1 || out[0].Width != 1 {
		t.Errorf("size = %dx%d, want 1x1", out[0].Height, out[0].Width)
	}
}

func TestScaleShapeMismatch(t *testing.T) {
	g := Group{ramp(6, 6, 3, 0), label(5, 6)}
	s := RandomScale{Min: 1, Max: 2, Interpolation: DefaultInterpolation()}
	if _, err := s.Apply(seeded(2), g); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}
