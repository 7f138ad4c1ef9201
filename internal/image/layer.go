// Package image converts between decoded image files and the arrays the
// augmentation transforms operate on.
package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"segaug/pkg/array"
	"segaug/pkg/colorutil"

	_ "golang.org/x/image/tiff"
)

// Kind selects how a file is interpreted.
type Kind int

const (
	KindColor Kind = iota // RGB image, loaded as (H, W, 3)
	KindLabel             // class-ID mask, loaded as (H, W)
	KindFlow              // 16-bit encoded optical flow, loaded as (H, W, 2)
)

// Flow fields are stored in 16-bit RGB files: R and G hold u and v as
// value*flowScale + flowOffset, B is 1 where the flow is valid.
const (
	flowScale  = 64.0
	flowOffset = 1 << 15
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindLabel:
		return "label"
	case KindFlow:
		return "flow"
	default:
		return "unknown"
	}
}

// Load decodes the file at path into an array.
func Load(path string, kind Kind) (*array.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	switch kind {
	case KindColor:
		return FromColor(img), nil
	case KindLabel:
		return FromLabel(img), nil
	case KindFlow:
		return FromFlow(img), nil
	default:
		return nil, fmt.Errorf("unsupported kind %v", kind)
	}
}

// FromColor converts img to an (H, W, 3) array of 8-bit R, G, B values.
func FromColor(img image.Image) *array.Image {
	b := img.Bounds()
	out := array.NewWithChannels(b.Dy(), b.Dx(), 3)
	for y := 0; y < b.Dy(); y++ {
		row := out.Row(y)
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x*3+0] = float64(r >> 8)
			row[x*3+1] = float64(g >> 8)
			row[x*3+2] = float64(bl >> 8)
		}
	}
	return out
}

// FromLabel converts img to an (H, W) array of class IDs. Paletted images
// yield palette indices; anything else is read as 8-bit gray.
func FromLabel(img image.Image) *array.Image {
	b := img.Bounds()
	out := array.New(b.Dy(), b.Dx())

	pal, paletted := img.(*image.Paletted)
	for y := 0; y < b.Dy(); y++ {
		row := out.Row(y)
		for x := 0; x < b.Dx(); x++ {
			if paletted {
				row[x] = float64(pal.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
				continue
			}
			gray := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			row[x] = float64(gray.Y)
		}
	}
	return out
}

// FromFlow decodes a 16-bit flow image into an (H, W, 2) array of (u, v)
// displacements in pixels.
func FromFlow(img image.Image) *array.Image {
	b := img.Bounds()
	out := array.NewWithChannels(b.Dy(), b.Dx(), 2)
	for y := 0; y < b.Dy(); y++ {
		row := out.Row(y)
		for x := 0; x < b.Dx(); x++ {
			r, g, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x*2+0] = (float64(r) - flowOffset) / flowScale
			row[x*2+1] = (float64(g) - flowOffset) / flowScale
		}
	}
	return out
}

// ToFlowImage encodes the first two channels of m as a 16-bit flow image.
// Displacements beyond +-512 pixels saturate.
func ToFlowImage(m *array.Image) (*image.NRGBA64, error) {
	if m.Channels < 2 {
		return nil, fmt.Errorf("flow needs 2 channels, got %d", m.Channels)
	}
	out := image.NewNRGBA64(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.SetNRGBA64(x, y, color.NRGBA64{
				R: to16(m.At(y, x, 0)*flowScale + flowOffset),
				G: to16(m.At(y, x, 1)*flowScale + flowOffset),
				B: 1,
				A: math.MaxUint16,
			})
		}
	}
	return out, nil
}

// ToImage converts an array to an 8-bit image, clamping values to [0, 255].
// Single-channel arrays become gray; arrays with three or more channels use
// the first three as R, G, B.
func ToImage(m *array.Image) (image.Image, error) {
	rect := image.Rect(0, 0, m.Width, m.Height)
	switch {
	case m.Channels == 1:
		out := image.NewGray(rect)
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				out.SetGray(x, y, color.Gray{Y: to8(m.At(y, x, 0))})
			}
		}
		return out, nil
	case m.Channels >= 3:
		out := image.NewRGBA(rect)
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				out.SetRGBA(x, y, color.RGBA{
					R: to8(m.At(y, x, 0)),
					G: to8(m.At(y, x, 1)),
					B: to8(m.At(y, x, 2)),
					A: 255,
				})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot render %d-channel array", m.Channels)
	}
}

// ToLabelImage renders class IDs with the label palette.
func ToLabelImage(m *array.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.SetRGBA(x, y, colorutil.LabelColor(int(math.Round(m.At(y, x, 0)))))
		}
	}
	return out
}

// SavePNG writes m as a PNG file.
func SavePNG(path string, m *array.Image) error {
	img, err := ToImage(m)
	if err != nil {
		return err
	}
	return writePNG(path, img)
}

// SaveLabelPNG writes m as a colorized label PNG.
func SaveLabelPNG(path string, m *array.Image) error {
	return writePNG(path, ToLabelImage(m))
}

// SaveFlowPNG writes the (u, v) channels of m as a 16-bit flow PNG.
func SaveFlowPNG(path string, m *array.Image) error {
	img, err := ToFlowImage(m)
	if err != nil {
		return err
	}
	return writePNG(path, img)
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return file.Close()
}

func to8(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 255)))
}

func to16(v float64) uint16 {
	return uint16(math.Round(min(max(v, 0), math.MaxUint16)))
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
