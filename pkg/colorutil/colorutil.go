// Package colorutil provides shared color utilities for visualising label masks.
package colorutil

import (
	"image/color"
)

// Common colors.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// IgnoreLabel is the class ID conventionally used for pixels excluded from the
// loss, typically the border fill of padded or rotated label masks.
const IgnoreLabel = 255

// LabelColor returns a distinct color for a class ID using the bit-interleaved
// palette popularised by PASCAL VOC. IgnoreLabel maps to white.
func LabelColor(id int) color.RGBA {
	if id == IgnoreLabel {
		return White
	}
	if id < 0 {
		return Black
	}

	var r, g, b uint8
	c := id
	for shift := 7; shift >= 0 && c > 0; shift-- {
		r |= uint8(c&1) << shift
		g |= uint8((c>>1)&1) << shift
		b |= uint8((c>>2)&1) << shift
		c >>= 3
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
