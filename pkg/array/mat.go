package array

import (
	"fmt"

	"gocv.io/x/gocv"
)

// matType returns the OpenCV CV_64FC(c) type.
func matType(c int) gocv.MatType {
	return gocv.MatType(int(gocv.MatTypeCV64F) + (c-1)<<3)
}

// ToMat copies m into a new CV_64FC(Channels) Mat. The caller must Close it.
func (m *Image) ToMat() (gocv.Mat, error) {
	if m.Height == 0 || m.Width == 0 {
		return gocv.Mat{}, fmt.Errorf("empty image %v", m.Shape())
	}

	mat := gocv.NewMatWithSize(m.Height, m.Width, matType(m.Channels))
	data, err := mat.DataPtrFloat64()
	if err != nil {
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("mat data: %w", err)
	}

	rowLen := m.Width * m.Channels
	for y := 0; y < m.Height; y++ {
		copy(data[y*rowLen:(y+1)*rowLen], m.Row(y))
	}
	return mat, nil
}

// FromMat copies a CV_64F Mat into a new compact Image. Single-channel mats
// become rank-2 images; use RestoreRank to recover a singleton channel axis.
func FromMat(mat gocv.Mat) (*Image, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("empty mat")
	}

	data, err := mat.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("mat data: %w", err)
	}

	h, w, c := mat.Rows(), mat.Cols(), mat.Channels()
	pix := make([]float64, h*w*c)
	copy(pix, data)

	rank := 3
	if c == 1 {
		rank = 2
	}
	return FromSlice(h, w, c, rank, pix)
}

// MapMat runs fn over a Mat copy of src and returns the result as an Image
// with src's rank. Both mats are closed before MapMat returns.
func MapMat(src *Image, fn func(src gocv.Mat, dst *gocv.Mat)) (*Image, error) {
	in, err := src.ToMat()
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	fn(in, &out)

	res, err := FromMat(out)
	if err != nil {
		return nil, err
	}
	return RestoreRank(res, src), nil
}
