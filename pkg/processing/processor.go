package processing

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/effect"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/image-augmenter/pkg/types"
)

// Preset names one of the fixed blur filters used by the expansion recipe.
type Preset int

const (
	// GaussianRadius1 is a Gaussian blur with radius (sigma) 1.
	GaussianRadius1 Preset = iota
	// MedianKernel3 is a median filter over a 3x3 window.
	MedianKernel3
)

// BlurPresets lists the presets in the order they are applied to every blurred image.
var BlurPresets = []Preset{GaussianRadius1, MedianKernel3}

func (p Preset) String() string {
	switch p {
	case GaussianRadius1:
		return "gaussian-r1"
	case MedianKernel3:
		return "median-k3"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// Processor handles the pixel operations of the augmenter
type Processor struct{}

// NewProcessor creates a new image processor
func NewProcessor() *Processor {
	return &Processor{}
}

// LoadImage loads an image from a file path with WebP support
func (p *Processor) LoadImage(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	img, openErr := imaging.Open(path)
	if openErr == nil {
		return img, nil
	}

	// Fallback: read the bytes and try the explicit WebP decoder
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err = p.decodeImageFromBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s (%v)", path, openErr)
	}
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (p *Processor) LoadImageFromReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image data")
	}
	return p.decodeImageFromBytes(data)
}

// decodeImageFromBytes decodes an image from byte data with WebP support
func (p *Processor) decodeImageFromBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, errors.New("image: unknown or unsupported format")
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "png":
		return imaging.Save(img, path)
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return errors.Errorf("unsupported output format: %s", format)
	}
}

// Mirror flips the image horizontally.
func (p *Processor) Mirror(img image.Image) image.Image {
	return imaging.FlipH(img)
}

// SplitHalves crops the left and right halves of an image of the given
// logical dimensions. The cut is at width/2, the same centerline used for
// the boxes; the width is expected to be even.
func (p *Processor) SplitHalves(img image.Image, d types.Dimensions) (left, right image.Image) {
	origin := img.Bounds().Min
	middle := d.Width / 2
	left = imaging.Crop(img, image.Rect(0, 0, middle, d.Height).Add(origin))
	right = imaging.Crop(img, image.Rect(middle, 0, d.Width, d.Height).Add(origin))
	return left, right
}

// ApplyPreset returns a blurred copy of img.
func (p *Processor) ApplyPreset(img image.Image, preset Preset) (image.Image, error) {
	switch preset {
	case GaussianRadius1:
		return imaging.Blur(img, 1.0), nil
	case MedianKernel3:
		return effect.Median(img, 1), nil
	default:
		return nil, errors.Errorf("unknown blur preset: %s", preset)
	}
}
