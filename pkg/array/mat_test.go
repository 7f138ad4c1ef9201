package array

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMatRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{"rank2", New(3, 4)},
		{"rank3 single", NewWithChannels(3, 4, 1)},
		{"rank3 rgb", NewWithChannels(3, 4, 3)},
		{"view", ramp(6, 6, 2).Sub(1, 5, 2, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.img.Pix {
				tt.img.Pix[i] += float64(i) * 0.5
			}

			got, err := MapMat(tt.img, func(src gocv.Mat, dst *gocv.Mat) {
				src.CopyTo(dst)
			})
			if err != nil {
				t.Fatalf("MapMat: %v", err)
			}
			if !Equal(got, tt.img) {
				t.Errorf("round trip = %v, want %v", got, tt.img)
			}
		})
	}
}

func TestFromMatDropsSingletonAxis(t *testing.T) {
	img := NewWithChannels(2, 3, 1)
	mat, err := img.ToMat()
	if err != nil {
		t.Fatal(err)
	}
	defer mat.Close()

	got, err := FromMat(mat)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rank != 2 {
		t.Errorf("FromMat rank = %d, want 2", got.Rank)
	}
}

func TestToMatRejectsEmpty(t *testing.T) {
	if _, err := New(0, 3).ToMat(); err == nil {
		t.Error("expected error for empty image")
	}
}
