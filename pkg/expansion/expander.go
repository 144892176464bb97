// Package expansion builds the fixed set of derived images produced for
// every source image of the dataset.
package expansion

import (
	"image"

	"github.com/pkg/errors"

	"github.com/menta2k/image-augmenter/pkg/geometry"
	"github.com/menta2k/image-augmenter/pkg/processing"
	"github.com/menta2k/image-augmenter/pkg/types"
)

// Source selects the whole image a step starts from.
type Source int

const (
	Original Source = iota
	Mirrored
)

func (s Source) String() string {
	if s == Mirrored {
		return "mirror"
	}
	return "original"
}

// Half selects the part of the source image a step keeps.
type Half int

const (
	Whole Half = iota
	Left
	Right
)

func (h Half) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "whole"
	}
}

// Step describes how one derived entry is produced. A nil Blur means the
// pixels are used as is.
type Step struct {
	Source Source
	Half   Half
	Blur   *processing.Preset
}

// String renders the transform path, e.g. "mirror/left+median-k3".
func (s Step) String() string {
	out := s.Source.String()
	if s.Half != Whole {
		out += "/" + s.Half.String()
	}
	if s.Blur != nil {
		out += "+" + s.Blur.String()
	}
	return out
}

func blur(p processing.Preset) *processing.Preset {
	return &p
}

var (
	gaussian = blur(processing.GaussianRadius1)
	median   = blur(processing.MedianKernel3)
)

// Recipe is the ordered list of derived entries emitted for each source
// image. Output names are assigned by position, so downstream consumers
// depend on this exact order.
var Recipe = []Step{
	{Source: Original, Half: Whole},
	{Source: Original, Half: Whole, Blur: gaussian},
	{Source: Original, Half: Whole, Blur: median},
	{Source: Mirrored, Half: Whole},
	{Source: Mirrored, Half: Whole, Blur: gaussian},
	{Source: Mirrored, Half: Whole, Blur: median},
	{Source: Original, Half: Left, Blur: gaussian},
	{Source: Original, Half: Left, Blur: median},
	{Source: Original, Half: Right, Blur: gaussian},
	{Source: Original, Half: Right, Blur: median},
	{Source: Original, Half: Left},
	{Source: Original, Half: Right},
	{Source: Mirrored, Half: Left},
	{Source: Mirrored, Half: Right},
}

// DerivedPerSource is the number of derived entries produced per source image.
const DerivedPerSource = 14

// Transformer is the pixel collaborator used by the Expander.
type Transformer interface {
	Mirror(img image.Image) image.Image
	SplitHalves(img image.Image, d types.Dimensions) (left, right image.Image)
	ApplyPreset(img image.Image, preset processing.Preset) (image.Image, error)
}

// Expander applies the recipe to source images.
type Expander struct {
	transformer Transformer
	dims        types.Dimensions
}

// New creates an Expander for images of the given logical dimensions.
func New(transformer Transformer, dims types.Dimensions) *Expander {
	return &Expander{transformer: transformer, dims: dims}
}

// variant is an image together with the annotation matching its pixels.
type variant struct {
	img        image.Image
	annotation types.Annotation
}

// Expand returns the derived entries for one source image in recipe order.
// The mirror and the split halves are computed once and shared between steps.
func (e *Expander) Expand(entry types.DatasetEntry, img image.Image) ([]types.DerivedEntry, error) {
	if img == nil {
		return nil, errors.Errorf("no image for %s", entry.ImageReference)
	}

	mirrored := e.transformer.Mirror(img)
	mirrorAnnotation := geometry.Mirror(entry.Annotation, e.dims)

	sources := map[Source]map[Half]variant{
		Original: e.halves(img, entry.Annotation),
		Mirrored: e.halves(mirrored, mirrorAnnotation),
	}

	derived := make([]types.DerivedEntry, 0, len(Recipe))
	for _, step := range Recipe {
		v := sources[step.Source][step.Half]
		out := v.img
		if step.Blur != nil {
			blurred, err := e.transformer.ApplyPreset(v.img, *step.Blur)
			if err != nil {
				return nil, errors.Wrapf(err, "%s %s", entry.ImageReference, step)
			}
			out = blurred
		}
		derived = append(derived, types.DerivedEntry{
			Image:      out,
			Annotation: v.annotation.Clone(),
			Path:       step.String(),
		})
	}
	return derived, nil
}

func (e *Expander) halves(img image.Image, annotation types.Annotation) map[Half]variant {
	leftImg, rightImg := e.transformer.SplitHalves(img, e.dims)
	leftAnn, rightAnn := geometry.Split(annotation, e.dims)
	return map[Half]variant{
		Whole: {img: img, annotation: annotation},
		Left:  {img: leftImg, annotation: leftAnn},
		Right: {img: rightImg, annotation: rightAnn},
	}
}
