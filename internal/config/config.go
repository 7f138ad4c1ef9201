// Package config reads augmentation pipelines from TOML files.
//
// A pipeline file lists stages in order:
//
//	seed = 42
//
//	[[transform]]
//	type = "random_scale"
//	range = [0.5, 1.5]
//	interpolation = ["linear", "nearest"]
//
//	[[transform]]
//	type = "random_pad"
//	size = 321
//	padding = [[104, 117, 123], 255]
//
//	[[transform]]
//	type = "random_crop"
//	size = 321
package config

import (
	"fmt"
	"os"
	"strings"

	"segaug/internal/augment"
	"segaug/pkg/geometry"

	"github.com/BurntSushi/toml"
	"gocv.io/x/gocv"
)

// File is a parsed pipeline file.
type File struct {
	Seed   uint64  `toml:"seed"`
	Stages []Stage `toml:"transform"`
}

// Stage describes one transform. Which fields apply depends on Type.
type Stage struct {
	Type          string      `toml:"type"`
	Size          Size        `toml:"size"`
	Padding       []Fill      `toml:"padding"`
	Interpolation []string    `toml:"interpolation"`
	Range         []float64   `toml:"range"`
	Applied       []bool      `toml:"applied"`
	IsFlow        bool        `toml:"is_flow"`
	FlowMask      []bool      `toml:"flow_mask"`
	Mean          [][]float64 `toml:"mean"`
	Std           [][]float64 `toml:"std"`
}

// Size accepts either a single integer (square) or a [height, width] pair.
type Size struct {
	geometry.Size
	set bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Size) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		s.Size = geometry.Square(int(v))
	case []any:
		if len(v) != 2 {
			return fmt.Errorf("size needs [height, width], got %d values", len(v))
		}
		h, hok := v[0].(int64)
		w, wok := v[1].(int64)
		if !hok || !wok {
			return fmt.Errorf("size values must be integers")
		}
		s.Size = geometry.NewSize(int(h), int(w))
	default:
		return fmt.Errorf("size must be an integer or [height, width], got %T", v)
	}
	if s.Height <= 0 || s.Width <= 0 {
		return fmt.Errorf("size %v must be positive", s.Size)
	}
	s.set = true
	return nil
}

// Fill is one group element's border value: a bare number for every
// channel or an array with one number per channel.
type Fill []float64

// UnmarshalTOML implements toml.Unmarshaler.
func (f *Fill) UnmarshalTOML(v any) error {
	if vs, ok := v.([]any); ok {
		if len(vs) == 0 {
			return fmt.Errorf("padding entry is empty")
		}
		out := make(Fill, len(vs))
		for i, e := range vs {
			n, err := number(e)
			if err != nil {
				return err
			}
			out[i] = n
		}
		*f = out
		return nil
	}
	n, err := number(v)
	if err != nil {
		return err
	}
	*f = Fill{n}
	return nil
}

func number(v any) (float64, error) {
	switch v := v.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("padding values must be numbers, got %T", v)
	}
}

// Load reads and parses a pipeline file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	return Parse(data)
}

// Parse parses pipeline TOML.
func Parse(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse pipeline: unknown keys %v", undecoded)
	}
	return &f, nil
}

// Pipeline builds the transforms described by f.
func (f *File) Pipeline() (augment.Pipeline, error) {
	p := make(augment.Pipeline, 0, len(f.Stages))
	for i, st := range f.Stages {
		t, err := st.Build()
		if err != nil {
			return nil, fmt.Errorf("transform %d (%s): %w", i, st.Type, err)
		}
		p = append(p, t)
	}
	return p, nil
}

// Build constructs the transform for one stage.
func (s Stage) Build() (augment.Transform, error) {
	switch s.Type {
	case "random_crop":
		size, err := s.requireSize()
		return augment.NewRandomCrop(size), err
	case "center_crop":
		size, err := s.requireSize()
		return augment.NewCenterCrop(size), err
	case "random_pad", "center_pad", "corner_pad":
		return s.buildPad()
	case "random_scale":
		lo, hi, err := s.rangeOr(0.5, 1.5)
		if err != nil {
			return nil, err
		}
		if lo <= 0 {
			return nil, fmt.Errorf("scale range [%v, %v] must be positive", lo, hi)
		}
		interp, err := s.interpolation()
		if err != nil {
			return nil, err
		}
		return augment.RandomScale{Min: lo, Max: hi, Interpolation: interp}, nil
	case "random_rotation":
		lo, hi, err := s.rangeOr(-10, 10)
		if err != nil {
			return nil, err
		}
		interp, err := s.interpolation()
		if err != nil {
			return nil, err
		}
		return augment.RandomRotation{MinDegree: lo, MaxDegree: hi, Interpolation: interp, Padding: s.fills()}, nil
	case "random_blur":
		return augment.NewRandomBlur(s.Applied), nil
	case "random_horizontal_flip":
		return augment.RandomHorizontalFlip{IsFlow: s.IsFlow, FlowMask: s.FlowMask}, nil
	case "normalize":
		if len(s.Mean) != len(s.Std) {
			return nil, fmt.Errorf("%d mean entries, %d std entries", len(s.Mean), len(s.Std))
		}
		return augment.NewNormalize(s.Mean, s.Std), nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", s.Type)
	}
}

func (s Stage) buildPad() (augment.Transform, error) {
	size, err := s.requireSize()
	if err != nil {
		return nil, err
	}
	switch s.Type {
	case "random_pad":
		return augment.NewRandomPad(size, s.fills()), nil
	case "center_pad":
		return augment.NewCenterPad(size, s.fills()), nil
	default:
		return augment.NewCornerPad(size, s.fills()), nil
	}
}

func (s Stage) fills() [][]float64 {
	if s.Padding == nil {
		return nil
	}
	out := make([][]float64, len(s.Padding))
	for i, f := range s.Padding {
		out[i] = f
	}
	return out
}

func (s Stage) requireSize() (geometry.Size, error) {
	if !s.Size.set {
		return geometry.Size{}, fmt.Errorf("size is required")
	}
	return s.Size.Size, nil
}

func (s Stage) rangeOr(lo, hi float64) (float64, float64, error) {
	switch len(s.Range) {
	case 0:
		return lo, hi, nil
	case 2:
		if s.Range[0] > s.Range[1] {
			return 0, 0, fmt.Errorf("range [%v, %v] is reversed", s.Range[0], s.Range[1])
		}
		return s.Range[0], s.Range[1], nil
	default:
		return 0, 0, fmt.Errorf("range needs 2 values, got %d", len(s.Range))
	}
}

func (s Stage) interpolation() ([]gocv.InterpolationFlags, error) {
	if s.Interpolation == nil {
		return augment.DefaultInterpolation(), nil
	}
	flags := make([]gocv.InterpolationFlags, len(s.Interpolation))
	for i, name := range s.Interpolation {
		f, err := ParseInterpolation(name)
		if err != nil {
			return nil, err
		}
		flags[i] = f
	}
	return flags, nil
}

// ParseInterpolation maps a mode name to its OpenCV flag.
func ParseInterpolation(name string) (gocv.InterpolationFlags, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return gocv.InterpolationNearestNeighbor, nil
	case "linear":
		return gocv.InterpolationLinear, nil
	case "cubic":
		return gocv.InterpolationCubic, nil
	case "area":
		return gocv.InterpolationArea, nil
	case "lanczos4":
		return gocv.InterpolationLanczos4, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", name)
	}
}
