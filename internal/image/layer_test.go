package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"segaug/pkg/array"
	"segaug/pkg/colorutil"

	"golang.org/x/image/tiff"
)

func writeTestImage(t *testing.T, path string, img image.Image, enc func(*os.File, image.Image) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		t.Fatal(err)
	}
}

func encodePNG(f *os.File, img image.Image) error  { return png.Encode(f, img) }
func encodeTIFF(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) }

func TestLoadColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	for _, tc := range []struct {
		name string
		enc  func(*os.File, image.Image) error
	}{
		{"in.png", encodePNG},
		{"in.tiff", encodeTIFF},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			writeTestImage(t, path, src, tc.enc)

			got, err := Load(path, KindColor)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Height != 2 || got.Width != 3 || got.Channels != 3 || got.Rank != 3 {
				t.Fatalf("shape = %v", got.Shape())
			}
			if got.At(1, 2, 0) != 10 || got.At(1, 2, 1) != 20 || got.At(1, 2, 2) != 30 {
				t.Errorf("pixel = %v %v %v", got.At(1, 2, 0), got.At(1, 2, 1), got.At(1, 2, 2))
			}
		})
	}
}

func TestLoadPalettedLabel(t *testing.T) {
	pal := color.Palette{colorutil.LabelColor(0), colorutil.LabelColor(1), colorutil.LabelColor(2)}
	src := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	src.SetColorIndex(1, 2, 2)

	path := filepath.Join(t.TempDir(), "label.png")
	writeTestImage(t, path, src, encodePNG)

	got, err := Load(path, KindLabel)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Rank != 2 {
		t.Errorf("rank = %d, want 2", got.Rank)
	}
	if got.At(2, 1, 0) != 2 || got.At(0, 0, 0) != 0 {
		t.Errorf("class ids = %v, %v", got.At(2, 1, 0), got.At(0, 0, 0))
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png"), KindColor); err == nil {
		t.Error("expected error for missing file")
	}

	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(junk, KindLabel); err == nil {
		t.Error("expected decode error")
	}
}

func TestSavePNGRoundTrip(t *testing.T) {
	m := array.NewWithChannels(2, 2, 3)
	m.Set(0, 1, 0, 300) // clamped
	m.Set(0, 1, 1, -4)  // clamped
	m.Set(1, 0, 2, 127.6)

	path := filepath.Join(t.TempDir(), "out.png")
	if err := SavePNG(path, m); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	got, err := Load(path, KindColor)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.At(0, 1, 0) != 255 || got.At(0, 1, 1) != 0 || got.At(1, 0, 2) != 128 {
		t.Errorf("round trip = %v %v %v", got.At(0, 1, 0), got.At(0, 1, 1), got.At(1, 0, 2))
	}
}

func TestToImageRejectsTwoChannels(t *testing.T) {
	if _, err := ToImage(array.NewWithChannels(2, 2, 2)); err == nil {
		t.Error("expected error for 2-channel array")
	}
}

func TestToLabelImage(t *testing.T) {
	m := array.New(1, 2)
	m.Set(0, 0, 0, 1)
	m.Set(0, 1, 0, colorutil.IgnoreLabel)

	img := ToLabelImage(m)
	if got := img.RGBAAt(0, 0); got != colorutil.LabelColor(1) {
		t.Errorf("class 1 color = %v", got)
	}
	if got := img.RGBAAt(1, 0); got != colorutil.White {
		t.Errorf("ignore color = %v", got)
	}
}

func TestFlowRoundTrip(t *testing.T) {
	m := array.NewWithChannels(2, 3, 2)
	m.Set(0, 0, 0, 1.5)
	m.Set(0, 0, 1, -2.25)
	m.Set(1, 2, 0, -0.015625)
	m.Set(1, 2, 1, 600) // saturates

	enc, err := ToFlowImage(m)
	if err != nil {
		t.Fatalf("ToFlowImage: %v", err)
	}

	for _, tc := range []struct {
		name string
		save func(path string) error
	}{
		{"flow.png", func(path string) error { return SaveFlowPNG(path, m) }},
		{"flow.tiff", func(path string) error {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			return encodeTIFF(f, enc)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			if err := tc.save(path); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := Load(path, KindFlow)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Rank != 3 || got.Channels != 2 || got.Height != 2 || got.Width != 3 {
				t.Fatalf("shape = %v", got.Shape())
			}
			checks := []struct {
				y, x, c int
				want    float64
			}{
				{0, 0, 0, 1.5},
				{0, 0, 1, -2.25},
				{1, 2, 0, -0.015625},
				{1, 2, 1, (65535 - 32768) / 64.0},
				{0, 1, 0, 0},
			}
			for _, c := range checks {
				if v := got.At(c.y, c.x, c.c); v != c.want {
					t.Errorf("At(%d,%d,%d) = %v, want %v", c.y, c.x, c.c, v, c.want)
				}
			}
		})
	}
}

func TestToFlowImageRejectsSingleChannel(t *testing.T) {
	if _, err := ToFlowImage(array.New(2, 2)); err == nil {
		t.Error("expected error for 1-channel flow")
	}
}

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"b.TIF", true},
		{"c.jpeg", true},
		{"d.bmp", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupportedFormat(tt.path); got != tt.want {
			t.Errorf("IsSupportedFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if KindLabel.String() != "label" || KindFlow.String() != "flow" || Kind(9).String() != "unknown" {
		t.Error("unexpected Kind strings")
	}
}
