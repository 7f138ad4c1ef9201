// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X, Y float64
}

// Size is a (height, width) target in pixels.
type Size struct {
	Height int
	Width  int
}

// NewSize creates a Size from an explicit height and width.
func NewSize(height, width int) Size {
	return Size{Height: height, Width: width}
}

// Square creates a Size with equal sides.
func Square(n int) Size {
	return Size{Height: n, Width: n}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Height, s.Width)
}

// Center returns the center of an image of this size in (x, y) pixel coordinates.
func (s Size) Center() Point2D {
	return Point2D{X: float64(s.Width) / 2, Y: float64(s.Height) / 2}
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// RotationAbout returns a rotation by degrees around center, followed by an
// isotropic scale. Positive angles rotate counter-clockwise on screen (the
// y axis points down), the same convention as OpenCV's getRotationMatrix2D.
func RotationAbout(center Point2D, degrees, scale float64) AffineTransform {
	rad := degrees * math.Pi / 180
	alpha := scale * math.Cos(rad)
	beta := scale * math.Sin(rad)
	return AffineTransform{
		A: alpha, B: beta, TX: (1-alpha)*center.X - beta*center.Y,
		C: -beta, D: alpha, TY: beta*center.X + (1-alpha)*center.Y,
	}
}

// ToMatrix returns the transform as a [2][3]float64 array.
func (t AffineTransform) ToMatrix() [2][3]float64 {
	return [2][3]float64{
		{t.A, t.B, t.TX},
		{t.C, t.D, t.TY},
	}
}
