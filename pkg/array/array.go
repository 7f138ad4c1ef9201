// Package array provides dense 2-D and 3-D float arrays used to carry images,
// label masks and flow fields through the augmentation transforms.
//
// An Image has shape (H, W) or (H, W, C) and stores its elements row-major
// with the channel axis innermost. Like image.RGBA, a sub-image shares its
// backing Pix slice with the parent and addresses it through Stride.
package array

import (
	"fmt"
)

// Image is a row-major float64 array of shape (Height, Width) or
// (Height, Width, Channels).
type Image struct {
	Pix      []float64
	Stride   int // elements between the starts of vertically adjacent rows
	Height   int
	Width    int
	Channels int // 1 for rank-2 images
	Rank     int // 2 for (H, W), 3 for (H, W, C)
}

// New creates a zeroed rank-2 image of shape (h, w).
func New(h, w int) *Image {
	return &Image{
		Pix:      make([]float64, h*w),
		Stride:   w,
		Height:   h,
		Width:    w,
		Channels: 1,
		Rank:     2,
	}
}

// NewWithChannels creates a zeroed rank-3 image of shape (h, w, c).
func NewWithChannels(h, w, c int) *Image {
	return &Image{
		Pix:      make([]float64, h*w*c),
		Stride:   w * c,
		Height:   h,
		Width:    w,
		Channels: c,
		Rank:     3,
	}
}

// FromSlice wraps data as an image without copying. rank must be 2 (c == 1)
// or 3.
func FromSlice(h, w, c, rank int, data []float64) (*Image, error) {
	if rank != 2 && rank != 3 {
		return nil, fmt.Errorf("unsupported rank %d", rank)
	}
	if rank == 2 && c != 1 {
		return nil, fmt.Errorf("rank-2 image must have 1 channel, got %d", c)
	}
	if len(data) != h*w*c {
		return nil, fmt.Errorf("data length %d does not match shape %dx%dx%d", len(data), h, w, c)
	}
	return &Image{Pix: data, Stride: w * c, Height: h, Width: w, Channels: c, Rank: rank}, nil
}

// Shape returns the array shape, (H, W) or (H, W, C).
func (m *Image) Shape() []int {
	if m.Rank == 2 {
		return []int{m.Height, m.Width}
	}
	return []int{m.Height, m.Width, m.Channels}
}

// SameSize reports whether o has the same spatial size as m.
func (m *Image) SameSize(o *Image) bool {
	return m.Height == o.Height && m.Width == o.Width
}

func (m *Image) String() string {
	return fmt.Sprintf("Image%v", m.Shape())
}

// Contiguous reports whether rows are packed with no gap between them.
func (m *Image) Contiguous() bool {
	return m.Stride == m.Width*m.Channels
}

func (m *Image) offset(y, x, c int) int {
	return y*m.Stride + x*m.Channels + c
}

// At returns the element at (y, x, c). Use c = 0 for rank-2 images.
func (m *Image) At(y, x, c int) float64 {
	return m.Pix[m.offset(y, x, c)]
}

// Set stores v at (y, x, c).
func (m *Image) Set(y, x, c int, v float64) {
	m.Pix[m.offset(y, x, c)] = v
}

// Row returns the Width*Channels elements of row y. The slice aliases Pix.
func (m *Image) Row(y int) []float64 {
	start := y * m.Stride
	return m.Pix[start : start+m.Width*m.Channels]
}

// Sub returns the view [y0:y1, x0:x1] of m. Bounds are clipped to the image,
// so a window larger than the source yields a smaller result. The view
// shares Pix with m.
func (m *Image) Sub(y0, y1, x0, x1 int) *Image {
	y0, y1 = clampRange(y0, y1, m.Height)
	x0, x1 = clampRange(x0, x1, m.Width)

	h, w := y1-y0, x1-x0
	sub := &Image{
		Stride:   m.Stride,
		Height:   h,
		Width:    w,
		Channels: m.Channels,
		Rank:     m.Rank,
	}
	if h == 0 || w == 0 {
		sub.Pix = m.Pix[:0]
		return sub
	}
	start := m.offset(y0, x0, 0)
	end := m.offset(y1-1, x1-1, m.Channels-1) + 1
	sub.Pix = m.Pix[start:end]
	return sub
}

func clampRange(lo, hi, n int) (int, int) {
	lo = min(max(lo, 0), n)
	hi = min(max(hi, lo), n)
	return lo, hi
}

// Clone returns a compact copy of m that shares nothing with it.
func (m *Image) Clone() *Image {
	out := &Image{
		Pix:      make([]float64, m.Height*m.Width*m.Channels),
		Stride:   m.Width * m.Channels,
		Height:   m.Height,
		Width:    m.Width,
		Channels: m.Channels,
		Rank:     m.Rank,
	}
	for y := 0; y < m.Height; y++ {
		copy(out.Row(y), m.Row(y))
	}
	return out
}

// ExpandDims returns m with a trailing singleton channel axis. Rank-3 images
// are returned unchanged. The result shares Pix with m.
func (m *Image) ExpandDims() *Image {
	if m.Rank == 3 {
		return m
	}
	out := *m
	out.Rank = 3
	return &out
}

// RestoreRank re-adds the singleton channel axis that ref had but out lost.
// Primitives that operate on single-channel data hand back rank-2 arrays; every
// transform passes its outputs through here so callers see the rank they
// passed in.
func RestoreRank(out, ref *Image) *Image {
	if ref.Rank > out.Rank {
		return out.ExpandDims()
	}
	return out
}

// Equal reports whether a and b have the same shape and elements.
func Equal(a, b *Image) bool {
	if a.Rank != b.Rank || a.Height != b.Height || a.Width != b.Width || a.Channels != b.Channels {
		return false
	}
	for y := 0; y < a.Height; y++ {
		ra, rb := a.Row(y), b.Row(y)
		for i := range ra {
			if ra[i] != rb[i] {
				return false
			}
		}
	}
	return true
}
